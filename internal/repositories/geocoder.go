package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"weather-mcp/config"
	"weather-mcp/internal/models"
	"weather-mcp/pkg/observe"
)

// OpenWeatherGeocoder resolves free-form location text through the
// OpenWeatherMap direct geocoding endpoint. It backs up the forecast
// payload when that payload carries no usable city block, so its
// errors are plain and the caller decides how loud to be about them.
type OpenWeatherGeocoder struct {
	BaseURL    string
	APIKey     string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewOpenWeatherGeocoder(cfg *config.Config, l *observe.Logger, httpClient HTTPClient) *OpenWeatherGeocoder {
	return &OpenWeatherGeocoder{
		BaseURL:    cfg.Weather.GeocodingURL,
		APIKey:     cfg.Weather.APIKey,
		httpClient: httpClient,
		l:          l,
	}
}

func (g *OpenWeatherGeocoder) Name() string {
	return "openweathermap-geo"
}

type geoResult struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (g *OpenWeatherGeocoder) Resolve(ctx context.Context, location string) (*models.Location, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("limit", "1")
	params.Set("appid", g.APIKey)

	g.l.Debug("making geocoding API request", map[string]any{
		"location": location,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, string(body))
	}

	var results []geoResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no geocoding results for %q", location)
	}

	g.l.Debug("parsed geocoding API response", map[string]any{
		"name":    results[0].Name,
		"country": results[0].Country,
	})

	return &models.Location{
		Name:    results[0].Name,
		Country: results[0].Country,
	}, nil
}
