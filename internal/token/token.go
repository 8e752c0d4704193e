// Package token owns the auth-token lifecycle: opaque session credentials
// bound to a single user, where at most one token per user is active at any
// instant. Tokens are invalidated on logout and never deleted, leaving an
// append-only history per user.
package token

import (
	"errors"
	"time"
)

// ErrInvalidToken indicates the token does not exist or has already been
// invalidated.
var ErrInvalidToken = errors.New("auth token is invalid")

// AuthToken is an opaque session credential. The ID doubles as the token
// value handed to clients. A nil InvalidatedAt marks the token active.
type AuthToken struct {
	ID            string
	UserID        string
	CreatedAt     time.Time
	InvalidatedAt *time.Time
}

// Active reports whether the token has not been invalidated.
func (t AuthToken) Active() bool { return t.InvalidatedAt == nil }

// Outcome tags a get-or-create result: whether the returned token already
// existed or was minted by this call.
type Outcome int

const (
	// OutcomeFetched means an active token already existed and was returned.
	OutcomeFetched Outcome = iota
	// OutcomeCreated means no active token existed and a new one was minted.
	OutcomeCreated
)

func (o Outcome) String() string {
	if o == OutcomeCreated {
		return "created"
	}
	return "fetched"
}
