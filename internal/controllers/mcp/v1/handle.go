package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"weather-mcp/internal/models"
	"weather-mcp/internal/repositories"
	"weather-mcp/internal/services/forecast"
	"weather-mcp/pkg/observe"
)

const (
	toolName   = "getWeatherForecast"
	promptName = "weatherForecastPrompt"
)

const weatherForecastPromptText = "I would like a weather forecast. " +
	"Use the getWeatherForecast tool with the city name, an optional two-letter country code, " +
	"and the number of days (1 to 5, default 3). " +
	"Summarise the result for me, mentioning the average, minimum and maximum temperatures " +
	"and the expected conditions for each day."

// GetWeatherForecastInput is the tool's argument payload. Typing and
// range checks happen in the schema layer before the handler runs.
type GetWeatherForecastInput struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
	Days    int    `json:"days,omitempty"`
}

var getWeatherForecastSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"city": {
			Type:        "string",
			MinLength:   ptr(1),
			Description: "City name to fetch the forecast for",
		},
		"country": {
			Type:        "string",
			Description: "Optional two-letter country code, e.g. GB",
		},
		"days": {
			Type:        "integer",
			Minimum:     ptr(float64(models.MinForecastDays)),
			Maximum:     ptr(float64(models.MaxForecastDays)),
			Default:     json.RawMessage(strconv.Itoa(models.DefaultForecastDays)),
			Description: "Number of forecast days (1-5, default 3)",
		},
	},
	Required: []string{"city"},
}

func ptr[T any](v T) *T { return &v }

// Handlers owns the protocol surface: the forecast tool and the
// forecast prompt.
type Handlers struct {
	service    *forecast.Service
	l          *observe.Logger
	appName    string
	appVersion string
}

func NewHandlers(service *forecast.Service, l *observe.Logger, appName, appVersion string) *Handlers {
	return &Handlers{
		service:    service,
		l:          l,
		appName:    appName,
		appVersion: appVersion,
	}
}

// NewServer builds a fresh protocol server with the tool and prompt
// registered. Every caller gets its own instance; no tool state is
// shared across requests.
func (h *Handlers) NewServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    h.appName,
		Version: h.appVersion,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        toolName,
		Description: "Get a multi-day weather forecast for a city, aggregated per calendar day with average, minimum and maximum temperatures.",
		InputSchema: getWeatherForecastSchema,
	}, h.handleGetWeatherForecast)

	server.AddPrompt(&mcp.Prompt{
		Name:        promptName,
		Description: "Conversational template for requesting a weather forecast.",
	}, h.handleWeatherForecastPrompt)

	return server
}

func (h *Handlers) handleGetWeatherForecast(ctx context.Context, req *mcp.CallToolRequest, input GetWeatherForecastInput) (*mcp.CallToolResult, any, error) {
	query := models.ForecastQuery{
		City:    input.City,
		Country: input.Country,
		Days:    input.Days,
	}

	text, err := h.service.Forecast(ctx, query)
	if err != nil {
		h.l.Error(err, map[string]any{
			"tool":     toolName,
			"location": query.Location(),
		})

		// Failures travel as normal tool results; the call itself
		// always succeeds at the protocol level.
		return textResult(errorText(err)), nil, nil
	}

	return textResult(text), nil, nil
}

func (h *Handlers) handleWeatherForecastPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Weather forecast request",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: weatherForecastPromptText},
			},
		},
	}, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorText maps a pipeline failure to its fixed user-facing message.
func errorText(err error) string {
	perr, ok := repositories.AsProviderError(err)
	if !ok {
		return fmt.Sprintf("❌ An unexpected error occurred: %v", err)
	}

	switch perr.Kind {
	case repositories.ErrNotFound:
		return fmt.Sprintf("❌ Could not find weather data for %s.", perr.Location)
	case repositories.ErrUnauthorized:
		return "🔑 Invalid API key."
	case repositories.ErrUpstream:
		return fmt.Sprintf("⚠️ Weather service error: %s", perr.Detail)
	default:
		return fmt.Sprintf("❌ An unexpected error occurred: %s", perr.Detail)
	}
}
