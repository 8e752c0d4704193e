package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultHTTPTimeout = 5 * time.Second

// Google resolves access tokens through the Google OAuth2 tokeninfo endpoint.
type Google struct {
	endpoint string
	client   *http.Client
}

// NewGoogle builds a tokeninfo-backed verifier. A nil client gets a default
// with a bounded timeout.
func NewGoogle(endpoint string, client *http.Client) *Google {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Google{endpoint: endpoint, client: client}
}

type tokeninfoResponse struct {
	Email string `json:"email"`
}

// ResolveEmail queries the tokeninfo endpoint. Any 4xx answer means the
// provider rejected the token; other failures are infrastructure errors.
func (g *Google) ResolveEmail(ctx context.Context, accessToken string) (string, error) {
	u := fmt.Sprintf("%s?access_token=%s", g.endpoint, url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", ErrInvalidAccessToken
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("tokeninfo returned status %d", resp.StatusCode)
	}

	var info tokeninfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode tokeninfo response: %w", err)
	}
	if info.Email == "" {
		return "", ErrInvalidAccessToken
	}
	return info.Email, nil
}
