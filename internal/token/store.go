package token

import "context"

// Store persists auth tokens and enforces the one-active-token-per-user rule.
// GetOrCreate must be serialized against concurrent GetOrCreate/Invalidate
// calls for the same user; calls for different users must not block each other.
type Store interface {
	// GetOrCreate returns the user's active token, minting one atomically if
	// none exists.
	GetOrCreate(ctx context.Context, userID string) (AuthToken, Outcome, error)

	// Invalidate stamps the token's invalidation time. It fails with
	// ErrInvalidToken when the token is unknown or already invalidated.
	Invalidate(ctx context.Context, tokenID string) error

	// IsActive reports whether the token exists and has not been invalidated.
	// Unknown ids yield false without error.
	IsActive(ctx context.Context, tokenID string) (bool, error)

	// Find fetches a token by id regardless of its state, failing with
	// ErrInvalidToken when absent.
	Find(ctx context.Context, tokenID string) (AuthToken, error)
}
