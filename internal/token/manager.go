package token

import (
	"context"
	"log/slog"

	"github.com/wiseeconomy/strabo/internal/user"
)

// Manager mediates all token state transitions. It resolves emails to users
// and delegates the serialized lookup-else-create to the store.
type Manager struct {
	users  user.Repository
	store  Store
	logger *slog.Logger
}

// NewManager creates a token lifecycle manager.
func NewManager(users user.Repository, store Store, logger *slog.Logger) *Manager {
	return &Manager{users: users, store: store, logger: logger}
}

// GetOrCreate resolves the email to a user and returns that user's active
// token, minting one when none exists. Fails with user.ErrNotFound when the
// email is not registered.
func (m *Manager) GetOrCreate(ctx context.Context, email string) (AuthToken, Outcome, error) {
	userID, err := m.users.FindIDByEmail(ctx, email)
	if err != nil {
		return AuthToken{}, OutcomeFetched, err
	}

	t, outcome, err := m.store.GetOrCreate(ctx, userID)
	if err != nil {
		return AuthToken{}, OutcomeFetched, err
	}
	if outcome == OutcomeCreated {
		m.logger.Info("auth token issued", slog.String("user_id", userID), slog.String("token_id", t.ID))
	}
	return t, outcome, nil
}

// Invalidate moves an active token to its terminal invalidated state.
// Unknown and already-invalidated tokens are treated uniformly as
// ErrInvalidToken.
func (m *Manager) Invalidate(ctx context.Context, tokenID string) error {
	if err := m.store.Invalidate(ctx, tokenID); err != nil {
		return err
	}
	m.logger.Info("auth token invalidated", slog.String("token_id", tokenID))
	return nil
}

// IsActive reports whether the token exists and is not invalidated. Unknown
// ids yield false, never an error.
func (m *Manager) IsActive(ctx context.Context, tokenID string) (bool, error) {
	return m.store.IsActive(ctx, tokenID)
}

// ProfileForToken resolves token -> user -> profile. A missing token hop
// fails with ErrInvalidToken, a missing user hop with user.ErrNotFound.
func (m *Manager) ProfileForToken(ctx context.Context, tokenID string) (user.User, error) {
	t, err := m.store.Find(ctx, tokenID)
	if err != nil {
		return user.User{}, err
	}
	return m.users.FindByID(ctx, t.UserID)
}
