package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// PostgresStore implements Store using PostgreSQL. The one-active-token rule
// is enforced twice over: the get-or-create transaction pins the owning user
// row with FOR UPDATE so concurrent calls for the same user serialize, and a
// partial unique index on auth_tokens(user_id) WHERE invalidated_at IS NULL
// backstops the invariant in the schema itself.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed token store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetOrCreate returns the active token for the user, minting one if none
// exists. If an insert still loses a race the partial unique index fires and a
// single retry picks up the winner's token as fetched.
func (s *PostgresStore) GetOrCreate(ctx context.Context, userID string) (AuthToken, Outcome, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return AuthToken{}, OutcomeFetched, fmt.Errorf("parse user id: %w", err)
	}

	tok, outcome, err := s.getOrCreate(ctx, uid)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return s.getOrCreate(ctx, uid)
		}
		return AuthToken{}, OutcomeFetched, err
	}
	return tok, outcome, nil
}

func (s *PostgresStore) getOrCreate(ctx context.Context, userID uuid.UUID) (AuthToken, Outcome, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return AuthToken{}, OutcomeFetched, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	// Pin the owning user row so lookup-then-insert is serialized per user
	// while other users proceed in parallel.
	var owner uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthToken{}, OutcomeFetched, fmt.Errorf("user %s not found", userID)
		}
		return AuthToken{}, OutcomeFetched, err
	}

	var (
		tokenID   uuid.UUID
		createdAt time.Time
	)
	err = tx.QueryRow(ctx, `SELECT id, created_at FROM auth_tokens WHERE user_id = $1 AND invalidated_at IS NULL`, userID).
		Scan(&tokenID, &createdAt)
	switch {
	case err == nil:
		if err := tx.Commit(ctx); err != nil {
			return AuthToken{}, OutcomeFetched, err
		}
		return AuthToken{ID: tokenID.String(), UserID: userID.String(), CreatedAt: createdAt.UTC()}, OutcomeFetched, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return AuthToken{}, OutcomeFetched, err
	}

	tokenID = uuid.New()
	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `INSERT INTO auth_tokens (id, user_id, created_at, invalidated_at)
        VALUES ($1, $2, $3, NULL)`, tokenID, userID, now); err != nil {
		return AuthToken{}, OutcomeFetched, err
	}

	if err := tx.Commit(ctx); err != nil {
		return AuthToken{}, OutcomeFetched, err
	}
	return AuthToken{ID: tokenID.String(), UserID: userID.String(), CreatedAt: now}, OutcomeCreated, nil
}

// Invalidate stamps the invalidation time on a currently active token.
func (s *PostgresStore) Invalidate(ctx context.Context, tokenID string) error {
	id, err := uuid.Parse(tokenID)
	if err != nil {
		return ErrInvalidToken
	}
	cmd, err := s.db.Exec(ctx, `UPDATE auth_tokens SET invalidated_at = NOW() WHERE id = $1 AND invalidated_at IS NULL`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidToken
	}
	return nil
}

// IsActive reports whether the token exists with no invalidation timestamp.
func (s *PostgresStore) IsActive(ctx context.Context, tokenID string) (bool, error) {
	id, err := uuid.Parse(tokenID)
	if err != nil {
		return false, nil
	}
	var active bool
	err = s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM auth_tokens WHERE id = $1 AND invalidated_at IS NULL)`, id).Scan(&active)
	if err != nil {
		return false, err
	}
	return active, nil
}

// Find fetches a token row by id regardless of its state.
func (s *PostgresStore) Find(ctx context.Context, tokenID string) (AuthToken, error) {
	id, err := uuid.Parse(tokenID)
	if err != nil {
		return AuthToken{}, ErrInvalidToken
	}
	row := s.db.QueryRow(ctx, `SELECT id, user_id, created_at, invalidated_at FROM auth_tokens WHERE id = $1`, id)
	var (
		tokID         uuid.UUID
		userID        uuid.UUID
		createdAt     time.Time
		invalidatedAt *time.Time
	)
	if err := row.Scan(&tokID, &userID, &createdAt, &invalidatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthToken{}, ErrInvalidToken
		}
		return AuthToken{}, err
	}
	return AuthToken{ID: tokID.String(), UserID: userID.String(), CreatedAt: createdAt.UTC(), InvalidatedAt: invalidatedAt}, nil
}

// Ensure PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
