package httpserver

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"weather-mcp/pkg/observe"
)

// InitFiberServer builds the fiber app with panic recovery, CORS,
// health probes on /manage/health and /manage/ready, and per-request
// logging. Health probes sit before the request logger so they stay
// out of the logs.
func InitFiberServer(appName string, l *observe.Logger) *fiber.App {
	s := fiber.New(fiber.Config{
		AppName:     appName,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	s.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	s.Use(cors.New())
	s.Use(healthcheck.New(healthcheck.Config{
		LivenessEndpoint:  "/manage/health",
		ReadinessEndpoint: "/manage/ready",
	}))
	s.Use(RequestLogger(l))

	return s
}

// RequestLogger tags every request with a generated id and logs one
// line when it completes.
func RequestLogger(l *observe.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := uuid.NewString()
		c.Locals("request_id", requestID)

		start := time.Now()
		err := c.Next()

		fields := map[string]any{
			"request_id": requestID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"duration":   time.Since(start).String(),
		}
		if err != nil {
			fields["err"] = err.Error()
		}
		l.Info("handled request", fields)

		return err
	}
}
