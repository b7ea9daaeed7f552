package repositories

import (
	"context"
	"net/http"
	"time"

	"weather-mcp/config"
	"weather-mcp/internal/models"
	"weather-mcp/pkg/observe"
)

// HTTPClient is the outbound HTTP surface the repositories depend on;
// *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ForecastRepository fetches a raw multi-day forecast for a query.
type ForecastRepository interface {
	Name() string
	FetchForecast(ctx context.Context, query models.ForecastQuery) (*models.ForecastPayload, error)
}

// GeocodingRepository resolves a location query into a canonical place name.
type GeocodingRepository interface {
	Name() string
	Resolve(ctx context.Context, location string) (*models.Location, error)
}

// InitWeatherRepositories wires the upstream clients from the process
// configuration, sharing one timeout-bounded HTTP client.
func InitWeatherRepositories(cfg *config.Config, l *observe.Logger) (ForecastRepository, GeocodingRepository, error) {
	httpClient := &http.Client{Timeout: time.Duration(cfg.Weather.Timeout) * time.Second}

	forecast, err := NewOpenWeatherRepository(cfg, l, httpClient)
	if err != nil {
		return nil, nil, err
	}

	geocoder := NewOpenWeatherGeocoder(cfg, l, httpClient)

	return forecast, geocoder, nil
}
