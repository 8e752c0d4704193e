package verifier

import (
	"context"
	"strings"
)

// Static derives the email deterministically from the access token itself
// (token "alice" resolves to "alice@gmail.com"). It stands in for a real
// identity provider in development and tests.
type Static struct{}

// NewStatic builds the deterministic verifier.
func NewStatic() Static { return Static{} }

// ResolveEmail maps the token to <token>@gmail.com. Empty or blank tokens are
// rejected.
func (Static) ResolveEmail(_ context.Context, accessToken string) (string, error) {
	if strings.TrimSpace(accessToken) == "" {
		return "", ErrInvalidAccessToken
	}
	return accessToken + "@gmail.com", nil
}
