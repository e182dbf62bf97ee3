package middleware

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"obsdemo/internal/logging"
)

// Logger logs each HTTP request as one JSON line to stdout with
// request_id, method, path, status and latency. Log lines carry
// trace_id/span_id when the request is traced, so they can be joined
// with exported spans.
func Logger() fiber.Handler {
	return LoggerWithWriter(os.Stdout, time.UTC)
}

// LoggerWithWriter is Logger with an explicit sink and timezone, used in tests.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	log := logging.NewWithWriter(w, loc)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Collect fields after the handler executed to capture final status
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		log.Info(c.UserContext(), "request", map[string]any{
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000.0,
		})

		return err
	}
}
