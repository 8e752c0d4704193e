package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service manages user registration and lookup.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Register persists a new user with a fresh id and server-set creation time.
// Registering an email that already exists is a no-op: it reports created=false
// whether the previous registration is observed up front or only as the store's
// uniqueness constraint firing under a concurrent race.
func (s *Service) Register(ctx context.Context, u User) (created bool, err error) {
	exists, err := s.repo.IsRegistered(ctx, u.Email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	u.ID = uuid.New().String()
	u.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// Lost a registration race; the winner's row is the one that counts.
			return false, nil
		}
		return false, err
	}

	s.logger.Info("user registered", slog.String("user_id", u.ID), slog.String("email", u.Email))
	return true, nil
}

// IsRegistered reports whether the exact email belongs to a registered user.
func (s *Service) IsRegistered(ctx context.Context, email string) (bool, error) {
	return s.repo.IsRegistered(ctx, email)
}

// Profile fetches the user record for the given id.
func (s *Service) Profile(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}
