package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID on requests and responses.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the request ID lives in Fiber's locals.
	RequestIDLocalKey = "request_id"
)

// RequestID assigns every request an ID: the incoming X-Request-ID header
// when the caller supplied one, a fresh UUID otherwise. The ID is stored in
// locals for the logger and error responses and echoed on the response
// header so callers can correlate.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
