package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wiseeconomy/strabo/internal/user"
)

// RegisterUserRoutes wires the registration and email-check endpoints. Both
// carry the external access credential, so both sit behind the rate limiter.
func RegisterUserRoutes(r fiber.Router, h *user.Handler, rateLimiter fiber.Handler) {
	r.Post("/isRegisteredEmail", rateLimiter, h.IsRegisteredEmail)
	r.Post("/register", rateLimiter, h.Register)
}
