package mcp

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"weather-mcp/pkg/observe"
)

type routes struct {
	handlers *Handlers
	l        *observe.Logger
}

// NewRouter mounts the protocol endpoint on /mcp. POST carries
// protocol traffic; GET and DELETE get a fixed 405 since the endpoint
// is stateless and offers neither an SSE stream nor session teardown.
func NewRouter(
	app *fiber.App,
	handlers *Handlers,
	l *observe.Logger,
) {
	r := &routes{
		handlers: handlers,
		l:        l,
	}

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return handlers.NewServer()
	}, &mcp.StreamableHTTPOptions{
		Stateless:    true,
		JSONResponse: true,
	})

	app.Post("/mcp", adaptor.HTTPHandler(streamable))
	app.Get("/mcp", r.handleMethodNotAllowed)
	app.Delete("/mcp", r.handleMethodNotAllowed)
}

func (r *routes) handleMethodNotAllowed(c *fiber.Ctx) error {
	r.l.Debug("rejecting non-POST protocol request", map[string]any{
		"method": c.Method(),
		"path":   c.Path(),
	})

	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
		"jsonrpc": "2.0",
		"error": fiber.Map{
			"code":    -32000,
			"message": "Method not allowed.",
		},
		"id": nil,
	})
}
