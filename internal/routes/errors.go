package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/wiseeconomy/strabo/internal/api"
	"github.com/wiseeconomy/strabo/internal/token"
	"github.com/wiseeconomy/strabo/internal/user"
	"github.com/wiseeconomy/strabo/internal/verifier"
)

// ErrorHandler maps the closed set of domain errors to HTTP statuses and the
// error envelopes in one place, so status-code decisions never leak into the
// core. Anything outside the known set is logged and answered with an opaque
// 500.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var badReq *api.BadRequestError
		if errors.As(err, &badReq) {
			return c.Status(http.StatusBadRequest).JSON(api.BadRequestErrorBody{
				Error: api.BadRequestBody{
					Message: "Missing/invalid parameters",
					Params:  badReq.Params,
				},
			})
		}

		switch {
		case errors.Is(err, verifier.ErrInvalidAccessToken):
			return c.Status(http.StatusUnauthorized).JSON(api.Error("Unauthorized"))
		case errors.Is(err, token.ErrInvalidToken):
			return c.Status(http.StatusUnauthorized).JSON(api.Error("Auth token is invalid"))
		case errors.Is(err, user.ErrNotFound):
			return c.Status(http.StatusNotFound).JSON(api.Error("Not found"))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(api.Error(fiberErr.Message))
		}

		requestID, _ := c.Locals("X-Request-ID").(string)
		logger.Error("unhandled error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return c.Status(http.StatusInternalServerError).JSON(api.Error("Internal server error"))
	}
}
