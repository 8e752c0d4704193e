package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user. A collision on the email uniqueness constraint
// is reported as ErrDuplicateEmail.
func (r *PostgresRepository) Create(ctx context.Context, u User) error {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (id, name, email, dob, phone_country_code, phone_number, residence_country, photo_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, u.Name, u.Email, u.DateOfBirth, u.PhoneCountryCode, u.PhoneNumber, u.ResidenceCountry, u.PhotoURL, u.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// IsRegistered reports whether a user exists for the exact email.
func (r *PostgresRepository) IsRegistered(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// FindIDByEmail resolves an email to the owning user id.
func (r *PostgresRepository) FindIDByEmail(ctx context.Context, email string) (string, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return id.String(), nil
}

// FindByID fetches a user profile by id.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, name, email, dob, phone_country_code, phone_number, residence_country, photo_url, created_at
        FROM users WHERE id = $1`, userID)
	var (
		uid       uuid.UUID
		dob       time.Time
		createdAt time.Time
		u         User
	)
	if err := row.Scan(&uid, &u.Name, &u.Email, &dob, &u.PhoneCountryCode, &u.PhoneNumber, &u.ResidenceCountry, &u.PhotoURL, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.ID = uid.String()
	u.DateOfBirth = dob
	u.CreatedAt = createdAt.UTC()
	return u, nil
}
