package routes_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/wiseeconomy/strabo/internal/config"
	"github.com/wiseeconomy/strabo/internal/logging"
	"github.com/wiseeconomy/strabo/internal/server"
)

const (
	accessTokenHeader = "X-Access-Token"
	authTokenHeader   = "X-Auth-Token"
)

func newTestApp(t *testing.T) *server.Server {
	t.Helper()
	cfg := config.Config{
		AppName:        "strabo-test",
		AppEnv:         "development",
		Port:           "0",
		Verifier:       config.VerifierStatic,
		AuthRatePerMin: 1000,
	}
	srv, err := server.New(cfg, nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	return srv
}

func doRequest(t *testing.T, srv *server.Server, method, path string, headers map[string]string, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := srv.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp, payload
}

func tokenFromBody(t *testing.T, payload []byte) string {
	t.Helper()
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode token body %s: %v", payload, err)
	}
	if body.Data.Token == "" {
		t.Fatalf("no token in body %s", payload)
	}
	return body.Data.Token
}

const registerBody = `{
    "name": "Alice",
    "email": "alice@gmail.com",
    "dob": "1990-01-02",
    "residenceCountry": "India",
    "phoneCountryCode": "+91",
    "phoneNumber": "1234567890",
    "photoUrl": "http://example.com/alice.png"
}`

// Walks the full lifecycle: unregistered check 404, register 201, re-register
// 204, token issue 201, token fetch 200 (same token), logout 204, re-issue 201
// with a fresh token.
func TestAuthTokenLifecycle(t *testing.T) {
	srv := newTestApp(t)
	auth := map[string]string{accessTokenHeader: "alice"}

	resp, _ := doRequest(t, srv, fiber.MethodPost, "/api/v1/isRegisteredEmail", auth, `{"email":"alice@gmail.com"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unregistered check: expected 404, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, srv, fiber.MethodPost, "/api/v1/register", auth, registerBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, srv, fiber.MethodPost, "/api/v1/register", auth, registerBody)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("re-register: expected 204, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, srv, fiber.MethodPost, "/api/v1/isRegisteredEmail", auth, `{"email":"alice@gmail.com"}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("registered check: expected 204, got %d", resp.StatusCode)
	}

	resp, payload := doRequest(t, srv, fiber.MethodPost, "/api/v1/authToken", auth, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first authToken: expected 201, got %d", resp.StatusCode)
	}
	t1 := tokenFromBody(t, payload)

	resp, payload = doRequest(t, srv, fiber.MethodPost, "/api/v1/authToken", auth, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second authToken: expected 200, got %d", resp.StatusCode)
	}
	if got := tokenFromBody(t, payload); got != t1 {
		t.Fatalf("expected same token %s, got %s", t1, got)
	}

	resp, _ = doRequest(t, srv, fiber.MethodGet, "/api/v1/logout", map[string]string{authTokenHeader: t1}, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, srv, fiber.MethodGet, "/api/v1/logout", map[string]string{authTokenHeader: t1}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("repeated logout: expected 401, got %d", resp.StatusCode)
	}

	resp, payload = doRequest(t, srv, fiber.MethodPost, "/api/v1/authToken", auth, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("authToken after logout: expected 201, got %d", resp.StatusCode)
	}
	if t2 := tokenFromBody(t, payload); t2 == t1 {
		t.Fatalf("expected a fresh token after logout, got %s again", t1)
	}
}

func TestBasicUserProfile(t *testing.T) {
	srv := newTestApp(t)
	auth := map[string]string{accessTokenHeader: "alice"}

	doRequest(t, srv, fiber.MethodPost, "/api/v1/register", auth, registerBody)
	_, payload := doRequest(t, srv, fiber.MethodPost, "/api/v1/authToken", auth, "")
	tok := tokenFromBody(t, payload)

	resp, payload := doRequest(t, srv, fiber.MethodGet, "/api/v1/basicUserProfile", map[string]string{authTokenHeader: tok}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d (%s)", resp.StatusCode, payload)
	}

	var body struct {
		Data struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			DOB   string `json:"dob"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode profile %s: %v", payload, err)
	}
	if body.Data.Email != "alice@gmail.com" || body.Data.Name != "Alice" || body.Data.DOB != "1990-01-02" {
		t.Fatalf("unexpected profile payload: %s", payload)
	}

	resp, _ = doRequest(t, srv, fiber.MethodGet, "/api/v1/basicUserProfile",
		map[string]string{authTokenHeader: "178e9955-32f0-47b8-8ad9-d630501d454b"}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown token: expected 401, got %d", resp.StatusCode)
	}
}

func TestUnauthorizedWhenEmailDoesNotMatchCredential(t *testing.T) {
	srv := newTestApp(t)

	resp, payload := doRequest(t, srv, fiber.MethodPost, "/api/v1/isRegisteredEmail",
		map[string]string{accessTokenHeader: "alice"}, `{"email":"bob@gmail.com"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode error body %s: %v", payload, err)
	}
	if body.Error.Message != "Unauthorized" {
		t.Fatalf("unexpected error message %q", body.Error.Message)
	}

	resp, _ = doRequest(t, srv, fiber.MethodPost, "/api/v1/register",
		map[string]string{accessTokenHeader: "bob"}, registerBody)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("register with mismatched credential: expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthTokenForUnregisteredEmail(t *testing.T) {
	srv := newTestApp(t)

	resp, _ := doRequest(t, srv, fiber.MethodPost, "/api/v1/authToken",
		map[string]string{accessTokenHeader: "stranger"}, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestMalformedRequests(t *testing.T) {
	srv := newTestApp(t)

	// Missing access-token header.
	resp, payload := doRequest(t, srv, fiber.MethodPost, "/api/v1/isRegisteredEmail", nil, `{"email":"a@gmail.com"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing header: expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
			Params  []struct {
				Name     string `json:"name"`
				Type     string `json:"type"`
				Required bool   `json:"required"`
				Reason   string `json:"reason"`
			} `json:"params"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode bad-request body %s: %v", payload, err)
	}
	if len(body.Error.Params) != 1 || body.Error.Params[0].Name != accessTokenHeader {
		t.Fatalf("unexpected params in %s", payload)
	}

	// Malformed auth-token header (not a UUID).
	resp, _ = doRequest(t, srv, fiber.MethodGet, "/api/v1/logout",
		map[string]string{authTokenHeader: "not-a-uuid"}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed auth token: expected 400, got %d", resp.StatusCode)
	}

	// Register with missing body fields.
	resp, _ = doRequest(t, srv, fiber.MethodPost, "/api/v1/register",
		map[string]string{accessTokenHeader: "alice"}, `{"email":"alice@gmail.com"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("incomplete register body: expected 400, got %d", resp.StatusCode)
	}

	// Register with an invalid date of birth.
	resp, _ = doRequest(t, srv, fiber.MethodPost, "/api/v1/register",
		map[string]string{accessTokenHeader: "alice"},
		strings.Replace(registerBody, "1990-01-02", "02/01/1990", 1))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid dob: expected 400, got %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestApp(t)

	resp, _ := doRequest(t, srv, fiber.MethodGet, "/healthz", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", resp.StatusCode)
	}
}
