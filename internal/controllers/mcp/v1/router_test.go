package mcp

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"weather-mcp/pkg/observe"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	h := newTestHandlers(&stubRepo{payload: stubPayload()})
	NewRouter(app, h, observe.NewZapLogger("test-app", "error"))
	return app
}

// TestProtocolEndpointMethodNotAllowed verifies that GET and DELETE on
// the protocol path get the fixed 405 response without any body
// processing.
func TestProtocolEndpointMethodNotAllowed(t *testing.T) {
	app := newTestApp()

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		req := httptest.NewRequest(method, "/mcp", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("expected status %d for %s, got %d", http.StatusMethodNotAllowed, method, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("unexpected error reading body: %v", err)
		}
		if !strings.Contains(string(body), "Method not allowed.") {
			t.Fatalf("expected fixed 405 body, got %s", string(body))
		}
	}
}

// TestProtocolEndpointAcceptsPost verifies POST traffic reaches the
// protocol handler rather than the 405 guard.
func TestProtocolEndpointAcceptsPost(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusMethodNotAllowed {
		t.Fatal("POST must not be rejected with 405")
	}
}
