package forecast

import (
	"context"

	"github.com/go-playground/validator/v10"

	"weather-mcp/internal/models"
	"weather-mcp/internal/repositories"
	"weather-mcp/pkg/observe"
)

var validate = validator.New()

// Service runs the forecast pipeline: fetch, resolve the display
// location, aggregate per day, render.
type Service struct {
	repo repositories.ForecastRepository
	geo  repositories.GeocodingRepository
	l    *observe.Logger
}

func NewService(repo repositories.ForecastRepository, geo repositories.GeocodingRepository, l *observe.Logger) *Service {
	return &Service{
		repo: repo,
		geo:  geo,
		l:    l,
	}
}

// Forecast returns the rendered multi-day forecast text for the query.
// Failures come back as *repositories.ProviderError so callers can map
// them to user-facing messages.
func (s *Service) Forecast(ctx context.Context, query models.ForecastQuery) (string, error) {
	query = query.Normalized()

	if err := validate.Struct(query); err != nil {
		return "", err
	}

	s.l.Info("starting forecast fetch", map[string]any{
		"repo":     s.repo.Name(),
		"location": query.Location(),
		"days":     query.Days,
	})

	payload, err := s.repo.FetchForecast(ctx, query)
	if err != nil {
		s.l.Warning("failed to fetch forecast", map[string]any{
			"repo":     s.repo.Name(),
			"location": query.Location(),
			"err":      err.Error(),
		})
		return "", err
	}

	location := s.resolveLocation(ctx, query, payload)

	days, err := Aggregate(payload.Samples, query.Days)
	if err != nil {
		return "", &repositories.ProviderError{
			Kind:     repositories.ErrUpstream,
			Location: query.Location(),
			Detail:   err.Error(),
		}
	}

	s.l.Info("completed forecast fetch", map[string]any{
		"location": location.String(),
		"days":     len(days),
	})

	return Render(location, days), nil
}

// resolveLocation prefers the city block carried by the forecast
// payload. When that block has no name or no coordinates it falls back
// to the geocoding API, and past that to the query text itself. The
// fallback never fails the request.
func (s *Service) resolveLocation(ctx context.Context, query models.ForecastQuery, payload *models.ForecastPayload) models.Location {
	city := payload.City
	if city.Name != "" && city.Coord != nil {
		return models.Location{Name: city.Name, Country: city.Country}
	}

	resolved, err := s.geo.Resolve(ctx, query.Location())
	if err != nil {
		s.l.Warning("failed to resolve location", map[string]any{
			"geo":      s.geo.Name(),
			"location": query.Location(),
			"err":      err.Error(),
		})
		if city.Name != "" {
			return models.Location{Name: city.Name, Country: city.Country}
		}
		return models.Location{Name: query.Location()}
	}

	return *resolved
}
