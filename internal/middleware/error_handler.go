package middleware

import (
	"brixa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Returns the standard error format.
// Unexpected errors are logged with the trace ID; fiber.Errors pass through
// with their own status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	details := map[string]interface{}{}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		log.Error().Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Err(err).Msg("Unhandled error")
	}

	return response.Error(c, message, code, details)
}
