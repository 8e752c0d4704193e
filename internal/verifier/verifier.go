// Package verifier resolves external access credentials to the email address
// they prove control of. The rest of the system depends only on the Verifier
// contract: resolution either yields an email or fails with
// ErrInvalidAccessToken.
package verifier

import (
	"context"
	"errors"
)

// ErrInvalidAccessToken indicates the presented access token could not be
// resolved to an email by the identity provider.
var ErrInvalidAccessToken = errors.New("invalid access token")

// Verifier resolves an access token to the email it was issued for.
type Verifier interface {
	ResolveEmail(ctx context.Context, accessToken string) (string, error)
}

// Verify reports whether the access token resolves to the claimed email.
// It succeeds iff resolution succeeds and the emails match exactly.
func Verify(ctx context.Context, v Verifier, accessToken, email string) (bool, error) {
	resolved, err := v.ResolveEmail(ctx, accessToken)
	if err != nil {
		if errors.Is(err, ErrInvalidAccessToken) {
			return false, nil
		}
		return false, err
	}
	return resolved == email, nil
}
