package forecast_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-mcp/internal/models"
	"weather-mcp/internal/repositories"
	"weather-mcp/internal/services/forecast"
	"weather-mcp/pkg/observe"
)

// MockRepository implements ForecastRepository for testing
type MockRepository struct {
	name      string
	err       error
	payload   *models.ForecastPayload
	callCount int
	lastQuery models.ForecastQuery
}

func (m *MockRepository) Name() string {
	return m.name
}

func (m *MockRepository) FetchForecast(ctx context.Context, query models.ForecastQuery) (*models.ForecastPayload, error) {
	m.callCount++
	m.lastQuery = query

	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

// MockGeocoder implements GeocodingRepository for testing
type MockGeocoder struct {
	name      string
	err       error
	location  *models.Location
	callCount int
}

func (m *MockGeocoder) Name() string {
	return m.name
}

func (m *MockGeocoder) Resolve(ctx context.Context, location string) (*models.Location, error) {
	m.callCount++

	if m.err != nil {
		return nil, m.err
	}
	return m.location, nil
}

func sampleAt(dtTxt string, temp, tempMin, tempMax float64, description string) models.ForecastSample {
	return models.ForecastSample{
		DateTimeTxt: dtTxt,
		Temp:        temp,
		TempMin:     tempMin,
		TempMax:     tempMax,
		Description: description,
	}
}

func londonPayload() *models.ForecastPayload {
	return &models.ForecastPayload{
		Samples: []models.ForecastSample{
			sampleAt("2025-07-25 09:00:00", 10, 9.4, 10.6, "scattered clouds"),
			sampleAt("2025-07-25 12:00:00", 12, 11.1, 13.9, "broken clouds"),
			sampleAt("2025-07-25 15:00:00", 14, 12.8, 14.2, "clear sky"),
			sampleAt("2025-07-26 09:00:00", 15, 14.0, 16.1, "light rain"),
			sampleAt("2025-07-26 12:00:00", 17, 15.9, 18.3, "moderate rain"),
		},
		City: models.CityInfo{
			Name:    "London",
			Country: "GB",
			Coord:   &models.Coordinates{Lat: 51.5074, Lon: -0.1278},
		},
	}
}

func TestNewService(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	service := forecast.NewService(&MockRepository{name: "mock"}, &MockGeocoder{name: "mock-geo"}, logger)

	assert.NotNil(t, service)
}

func TestService_Forecast_Success(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	repo := &MockRepository{name: "mock", payload: londonPayload()}
	geo := &MockGeocoder{name: "mock-geo"}

	service := forecast.NewService(repo, geo, logger)

	text, err := service.Forecast(context.Background(), models.ForecastQuery{City: "London", Country: "GB", Days: 3})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "📍 Weather forecast for London, GB:\n"), "unexpected header: %s", text)
	assert.Contains(t, text, "📅 2025-07-25: 🌡️ 12°C (min 9°C / max 14°C), scattered clouds")
	assert.Contains(t, text, "📅 2025-07-26: 🌡️ 16°C (min 14°C / max 18°C), light rain")

	// The payload carried full city metadata, so no geocoding call.
	assert.Equal(t, 0, geo.callCount)
}

func TestService_Forecast_DefaultDays(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	repo := &MockRepository{name: "mock", payload: londonPayload()}

	service := forecast.NewService(repo, &MockGeocoder{name: "mock-geo"}, logger)

	_, err := service.Forecast(context.Background(), models.ForecastQuery{City: "London"})

	require.NoError(t, err)
	assert.Equal(t, 3, repo.lastQuery.Days)
}

func TestService_Forecast_ClampsDays(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	repo := &MockRepository{name: "mock", payload: londonPayload()}

	service := forecast.NewService(repo, &MockGeocoder{name: "mock-geo"}, logger)

	_, err := service.Forecast(context.Background(), models.ForecastQuery{City: "London", Days: 9})

	require.NoError(t, err)
	assert.Equal(t, 5, repo.lastQuery.Days)
}

func TestService_Forecast_CapsAtRequestedDays(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	payload := londonPayload()
	payload.Samples = append(payload.Samples,
		sampleAt("2025-07-27 09:00:00", 18, 17.2, 19.4, "few clouds"),
		sampleAt("2025-07-28 09:00:00", 19, 18.0, 20.1, "clear sky"),
	)
	repo := &MockRepository{name: "mock", payload: payload}

	service := forecast.NewService(repo, &MockGeocoder{name: "mock-geo"}, logger)

	text, err := service.Forecast(context.Background(), models.ForecastQuery{City: "London", Days: 2})

	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(text, "📅"))
	assert.NotContains(t, text, "2025-07-27")
	assert.NotContains(t, text, "2025-07-28")
}

func TestService_Forecast_EmptyCity(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	repo := &MockRepository{name: "mock", payload: londonPayload()}

	service := forecast.NewService(repo, &MockGeocoder{name: "mock-geo"}, logger)

	_, err := service.Forecast(context.Background(), models.ForecastQuery{Days: 3})

	require.Error(t, err)
	assert.Equal(t, 0, repo.callCount)
}

func TestService_Forecast_RepositoryError(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	repoErr := &repositories.ProviderError{
		Kind:     repositories.ErrNotFound,
		Location: "Atlantis",
		Detail:   "city not found",
	}
	repo := &MockRepository{name: "mock", err: repoErr}

	service := forecast.NewService(repo, &MockGeocoder{name: "mock-geo"}, logger)

	_, err := service.Forecast(context.Background(), models.ForecastQuery{City: "Atlantis"})

	require.Error(t, err)
	perr, ok := repositories.AsProviderError(err)
	require.True(t, ok, "expected a provider error, got %T", err)
	assert.Equal(t, repositories.ErrNotFound, perr.Kind)
	assert.Equal(t, "Atlantis", perr.Location)
}

func TestService_Forecast_GeocodeFallback(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	payload := londonPayload()
	payload.City = models.CityInfo{}
	repo := &MockRepository{name: "mock", payload: payload}
	geo := &MockGeocoder{name: "mock-geo", location: &models.Location{Name: "Paris", Country: "FR"}}

	service := forecast.NewService(repo, geo, logger)

	text, err := service.Forecast(context.Background(), models.ForecastQuery{City: "paris"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "📍 Weather forecast for Paris, FR:\n"), "unexpected header: %s", text)
	assert.Equal(t, 1, geo.callCount)
}

func TestService_Forecast_GeocodeFallback_MissingCoordinates(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	payload := londonPayload()
	payload.City.Coord = nil
	repo := &MockRepository{name: "mock", payload: payload}
	geo := &MockGeocoder{name: "mock-geo", location: &models.Location{Name: "London", Country: "GB"}}

	service := forecast.NewService(repo, geo, logger)

	_, err := service.Forecast(context.Background(), models.ForecastQuery{City: "London", Country: "GB"})

	require.NoError(t, err)
	assert.Equal(t, 1, geo.callCount)
}

func TestService_Forecast_GeocodeFailure_UsesPayloadCity(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	payload := londonPayload()
	payload.City.Coord = nil
	repo := &MockRepository{name: "mock", payload: payload}
	geo := &MockGeocoder{name: "mock-geo", err: errors.New("geocoding unavailable")}

	service := forecast.NewService(repo, geo, logger)

	text, err := service.Forecast(context.Background(), models.ForecastQuery{City: "London", Country: "GB"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "📍 Weather forecast for London, GB:\n"), "unexpected header: %s", text)
}

func TestService_Forecast_GeocodeFailure_UsesQueryText(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	payload := londonPayload()
	payload.City = models.CityInfo{}
	repo := &MockRepository{name: "mock", payload: payload}
	geo := &MockGeocoder{name: "mock-geo", err: errors.New("geocoding unavailable")}

	service := forecast.NewService(repo, geo, logger)

	text, err := service.Forecast(context.Background(), models.ForecastQuery{City: "atlantis", Country: "XX"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "📍 Weather forecast for atlantis,XX:\n"), "unexpected header: %s", text)
}

func TestService_Forecast_AggregationFailure(t *testing.T) {
	logger := observe.NewZapLogger("test-app", "error")
	payload := &models.ForecastPayload{
		Samples: []models.ForecastSample{sampleAt("bad", 10, 9, 11, "clear sky")},
		City:    models.CityInfo{Name: "London", Country: "GB", Coord: &models.Coordinates{Lat: 51.5, Lon: -0.1}},
	}
	repo := &MockRepository{name: "mock", payload: payload}

	service := forecast.NewService(repo, &MockGeocoder{name: "mock-geo"}, logger)

	_, err := service.Forecast(context.Background(), models.ForecastQuery{City: "London"})

	require.Error(t, err)
	perr, ok := repositories.AsProviderError(err)
	require.True(t, ok, "expected a provider error, got %T", err)
	assert.Equal(t, repositories.ErrUpstream, perr.Kind)
}
