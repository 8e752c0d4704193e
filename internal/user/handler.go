package user

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wiseeconomy/strabo/internal/api"
	"github.com/wiseeconomy/strabo/internal/verifier"
)

const (
	// AccessTokenHeader carries the external identity-provider credential.
	AccessTokenHeader = "X-Access-Token"

	dobLayout = "2006-01-02"
)

// Handler exposes the registration and email-check endpoints.
type Handler struct {
	svc      *Service
	verifier verifier.Verifier
}

// NewHandler constructs a user HTTP handler.
func NewHandler(svc *Service, v verifier.Verifier) *Handler {
	return &Handler{svc: svc, verifier: v}
}

type emailRequest struct {
	Email string `json:"email"`
}

type registerRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	DOB              string `json:"dob"`
	ResidenceCountry string `json:"residenceCountry"`
	PhoneCountryCode string `json:"phoneCountryCode"`
	PhoneNumber      string `json:"phoneNumber"`
	PhotoURL         string `json:"photoUrl"`
}

// IsRegisteredEmail verifies the access token against the submitted email and
// reports registration status: 204 when registered, 404 when not.
func (h *Handler) IsRegisteredEmail(c *fiber.Ctx) error {
	accessToken := c.Get(AccessTokenHeader)
	if accessToken == "" {
		return api.MissingParam(AccessTokenHeader, api.InHeader, "string")
	}

	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return api.InvalidParam("email", api.InBody, "string", "Invalid")
	}
	if req.Email == "" {
		return api.MissingParam("email", api.InBody, "string")
	}

	ok, err := verifier.Verify(c.UserContext(), h.verifier, accessToken, req.Email)
	if err != nil {
		return err
	}
	if !ok {
		return verifier.ErrInvalidAccessToken
	}

	registered, err := h.svc.IsRegistered(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	if !registered {
		return ErrNotFound
	}
	return c.SendStatus(http.StatusNoContent)
}

// Register verifies the access token against the submitted user's email and
// persists the user: 201 on creation, 204 when the email is already registered.
func (h *Handler) Register(c *fiber.Ctx) error {
	accessToken := c.Get(AccessTokenHeader)
	if accessToken == "" {
		return api.MissingParam(AccessTokenHeader, api.InHeader, "string")
	}

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return api.InvalidParam("body", api.InBody, "object", "Invalid")
	}
	if badReq := validateRegister(req); badReq != nil {
		return badReq
	}
	dob, err := time.Parse(dobLayout, req.DOB)
	if err != nil {
		return api.InvalidParam("dob", api.InBody, "date", "Invalid")
	}

	ok, err := verifier.Verify(c.UserContext(), h.verifier, accessToken, req.Email)
	if err != nil {
		return err
	}
	if !ok {
		return verifier.ErrInvalidAccessToken
	}

	created, err := h.svc.Register(c.UserContext(), User{
		Name:             req.Name,
		Email:            req.Email,
		DateOfBirth:      dob,
		ResidenceCountry: req.ResidenceCountry,
		PhoneCountryCode: req.PhoneCountryCode,
		PhoneNumber:      req.PhoneNumber,
		PhotoURL:         req.PhotoURL,
	})
	if err != nil {
		return err
	}
	if !created {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.SendStatus(http.StatusCreated)
}

func validateRegister(req registerRequest) *api.BadRequestError {
	required := []struct {
		name, value, datatype string
	}{
		{"name", req.Name, "string"},
		{"email", req.Email, "string"},
		{"dob", req.DOB, "date"},
		{"residenceCountry", req.ResidenceCountry, "string"},
		{"phoneCountryCode", req.PhoneCountryCode, "string"},
		{"phoneNumber", req.PhoneNumber, "string"},
		{"photoUrl", req.PhotoURL, "string"},
	}

	var params []api.Param
	for _, f := range required {
		if f.value == "" {
			params = append(params, api.Param{
				Name:     f.name,
				Type:     api.InBody,
				Datatype: f.datatype,
				Required: true,
				Reason:   "Missing",
			})
		}
	}
	if len(params) > 0 {
		return &api.BadRequestError{Params: params}
	}
	return nil
}
