package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wiseeconomy/strabo/internal/token"
)

// RegisterTokenRoutes wires the token lifecycle endpoints. Only /authToken
// presents the external credential and is rate limited; the session-token
// endpoints are not.
func RegisterTokenRoutes(r fiber.Router, h *token.Handler, rateLimiter fiber.Handler) {
	r.Post("/authToken", rateLimiter, h.AuthToken)
	r.Get("/basicUserProfile", h.BasicProfile)
	r.Get("/logout", h.Logout)
}
