package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"obsdemo/internal/service"
)

// Services bundles the use-case services injected into the HTTP layer.
// Profile may be nil when object storage is not configured.
type Services struct {
	Work       service.WorkService
	Downstream service.DownstreamService
	DBLoad     service.DBLoadService
	Profile    service.ProfileService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, delegate, translate errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, reg *prometheus.Registry, svcs Services) {
	app.Get("/healthz", Healthz())
	app.Get("/health", HealthCheck(db))
	app.Get("/work", Work(svcs.Work))
	app.Get("/work/runs", WorkRuns(svcs.Work))
	app.Get("/downstream", Downstream(svcs.Downstream))
	app.Get("/db", DBLoad(svcs.DBLoad))
	app.Post("/profiles", CaptureProfile(svcs.Profile))
	app.Get("/metrics", Metrics(reg))

	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})
}

// Healthz is the pure liveness probe: no dependencies are checked.
func Healthz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}
}

// HealthCheck reports readiness including database connectivity.
// db may be nil when the service runs without a database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"status":   "healthy",
				"database": "disabled",
			})
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// Work simulates CPU and/or memory usage.
// cpu_ms: busy-loop milliseconds (default 100)
// mem_mb: allocate a buffer of roughly this size in MiB, freed after (default 0)
func Work(svc service.WorkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cpuMS, err := strconv.Atoi(c.Query("cpu_ms", "100"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CPU_MS", "invalid cpu_ms")
		}
		memMB, err := strconv.Atoi(c.Query("mem_mb", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_MEM_MB", "invalid mem_mb")
		}

		run, err := svc.Run(c.UserContext(), cpuMS, memMB)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrCPUMillisNegative):
				return writeError(c, fiber.StatusBadRequest, "INVALID_CPU_MS", "cpu_ms must not be negative")
			case errors.Is(err, service.ErrCPUMillisTooLarge):
				return writeError(c, fiber.StatusBadRequest, "CPU_MS_TOO_LARGE", "cpu_ms exceeds the allowed maximum")
			case errors.Is(err, service.ErrMemMBNegative):
				return writeError(c, fiber.StatusBadRequest, "INVALID_MEM_MB", "mem_mb must not be negative")
			case errors.Is(err, service.ErrMemMBTooLarge):
				return writeError(c, fiber.StatusBadRequest, "MEM_MB_TOO_LARGE", "mem_mb exceeds the allowed maximum")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		return c.JSON(fiber.Map{"elapsed_seconds": run.ElapsedSeconds})
	}
}

// WorkRuns lists recorded work runs with limit & offset.
func WorkRuns(svc service.WorkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListRuns(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// Downstream performs one outbound HTTP call and reports its status code.
func Downstream(svc service.DownstreamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := svc.Call(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusBadGateway, "DOWNSTREAM_FAILED", "downstream call failed")
		}
		return c.JSON(fiber.Map{"status_code": status})
	}
}

// DBLoad simulates a database call with the requested latency.
func DBLoad(svc service.DBLoadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		latencyMS, err := strconv.Atoi(c.Query("latency_ms", "50"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LATENCY_MS", "invalid latency_ms")
		}

		rows, err := svc.Query(c.UserContext(), latencyMS)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrLatencyNegative):
				return writeError(c, fiber.StatusBadRequest, "INVALID_LATENCY_MS", "latency_ms must not be negative")
			case errors.Is(err, service.ErrLatencyTooLarge):
				return writeError(c, fiber.StatusBadRequest, "LATENCY_MS_TOO_LARGE", "latency_ms exceeds the allowed maximum")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(fiber.Map{"rows": rows, "latency_ms": latencyMS})
	}
}

// CaptureProfile records a pprof profile and stores it in object storage.
// Returns 503 when storage was not configured.
func CaptureProfile(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if svc == nil {
			return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_DISABLED", "object storage is not configured")
		}

		kind := c.Query("kind", service.ProfileKindCPU)
		seconds, err := strconv.Atoi(c.Query("seconds", "5"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SECONDS", "invalid seconds")
		}

		res, err := svc.Capture(c.UserContext(), kind, seconds)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnknownProfileKind):
				return writeError(c, fiber.StatusBadRequest, "INVALID_KIND", "kind must be cpu or heap")
			case errors.Is(err, service.ErrSecondsOutOfRange):
				return writeError(c, fiber.StatusBadRequest, "INVALID_SECONDS", "seconds must be between 1 and 60")
			case errors.Is(err, service.ErrProfileInProgress):
				return writeError(c, fiber.StatusConflict, "PROFILE_IN_PROGRESS", "a cpu profile is already being captured")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// Metrics exposes the Prometheus registry in text exposition format.
func Metrics(reg *prometheus.Registry) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
