package token

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wiseeconomy/strabo/internal/api"
	"github.com/wiseeconomy/strabo/internal/user"
	"github.com/wiseeconomy/strabo/internal/verifier"
)

// AuthTokenHeader carries this system's own opaque session credential.
const AuthTokenHeader = "X-Auth-Token"

// Handler exposes the token-lifecycle endpoints: issue/fetch, logout, and the
// token-authenticated basic profile.
type Handler struct {
	manager  *Manager
	users    *user.Service
	verifier verifier.Verifier
}

// NewHandler constructs a token HTTP handler.
func NewHandler(manager *Manager, users *user.Service, v verifier.Verifier) *Handler {
	return &Handler{manager: manager, users: users, verifier: v}
}

type tokenResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	DOB              string `json:"dob"`
	ResidenceCountry string `json:"residenceCountry"`
	PhoneCountryCode string `json:"phoneCountryCode"`
	PhoneNumber      string `json:"phoneNumber"`
	PhotoURL         string `json:"photoUrl"`
}

// AuthToken resolves the access token to an email and returns that user's
// session token: 200 when an active token already existed, 201 when a new one
// was minted.
func (h *Handler) AuthToken(c *fiber.Ctx) error {
	accessToken := c.Get(user.AccessTokenHeader)
	if accessToken == "" {
		return api.MissingParam(user.AccessTokenHeader, api.InHeader, "string")
	}

	email, err := h.verifier.ResolveEmail(c.UserContext(), accessToken)
	if err != nil {
		return err
	}

	registered, err := h.users.IsRegistered(c.UserContext(), email)
	if err != nil {
		return err
	}
	if !registered {
		return user.ErrNotFound
	}

	t, outcome, err := h.manager.GetOrCreate(c.UserContext(), email)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if outcome == OutcomeCreated {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(api.Data(tokenResponse{Token: t.ID}))
}

// Logout invalidates the presented session token: 204 on success, 401 when
// the token is unknown or already invalidated.
func (h *Handler) Logout(c *fiber.Ctx) error {
	tokenID, badReq := authTokenFromHeader(c)
	if badReq != nil {
		return badReq
	}

	active, err := h.manager.IsActive(c.UserContext(), tokenID)
	if err != nil {
		return err
	}
	if !active {
		return ErrInvalidToken
	}
	if err := h.manager.Invalidate(c.UserContext(), tokenID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// BasicProfile returns the profile of the user the presented token belongs
// to: 401 when the token is unknown, 404 when the user record is missing.
func (h *Handler) BasicProfile(c *fiber.Ctx) error {
	tokenID, badReq := authTokenFromHeader(c)
	if badReq != nil {
		return badReq
	}

	u, err := h.manager.ProfileForToken(c.UserContext(), tokenID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(api.Data(profileResponse{
		Name:             u.Name,
		Email:            u.Email,
		DOB:              u.DateOfBirth.Format("2006-01-02"),
		ResidenceCountry: u.ResidenceCountry,
		PhoneCountryCode: u.PhoneCountryCode,
		PhoneNumber:      u.PhoneNumber,
		PhotoURL:         u.PhotoURL,
	}))
}

func authTokenFromHeader(c *fiber.Ctx) (string, *api.BadRequestError) {
	raw := c.Get(AuthTokenHeader)
	if raw == "" {
		return "", api.MissingParam(AuthTokenHeader, api.InHeader, "uuid")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", api.InvalidParam(AuthTokenHeader, api.InHeader, "uuid", "Invalid")
	}
	return id.String(), nil
}
