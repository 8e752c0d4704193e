package user

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates no user exists for the requested email or id.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail indicates an insert collided with the email uniqueness
	// constraint. The store surfaces it instead of pre-checking in application
	// code so concurrent registrations cannot race past each other.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, u User) error
	IsRegistered(ctx context.Context, email string) (bool, error)
	FindIDByEmail(ctx context.Context, email string) (string, error)
	FindByID(ctx context.Context, id string) (User, error)
}
