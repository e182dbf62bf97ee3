package handler

import (
	"github.com/gofiber/fiber/v2"

	"obsdemo/internal/http/middleware"
)

// errorPayload is the error response body shared by all endpoints.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusCodes maps common HTTP statuses to their machine-readable codes for
// errors that bubble up to the global handler (unknown route, wrong method).
var statusCodes = map[int]errorEnvelope{
	fiber.StatusBadRequest:       {Code: "BAD_REQUEST", Message: "bad request"},
	fiber.StatusNotFound:         {Code: "NOT_FOUND", Message: "resource not found"},
	fiber.StatusMethodNotAllowed: {Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"},
}

func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError renders the standard error body. message must be safe to show
// to callers; internal error details belong in logs, not responses.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// ErrorHandler is the app-level Fiber error handler. Handlers usually
// respond through writeError themselves; this catches everything else.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		env, ok := statusCodes[status]
		if !ok {
			env = errorEnvelope{Code: "INTERNAL_ERROR", Message: "internal server error"}
		}
		return writeError(c, status, env.Code, env.Message)
	}
}
