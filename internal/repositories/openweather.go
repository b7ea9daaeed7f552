package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"weather-mcp/config"
	"weather-mcp/internal/models"
	"weather-mcp/pkg/observe"
)

// OpenWeatherRepository queries the OpenWeatherMap 5-day/3-hour
// forecast endpoint. Every failure mode comes back as a *ProviderError.
type OpenWeatherRepository struct {
	BaseURL    string
	APIKey     string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewOpenWeatherRepository(cfg *config.Config, l *observe.Logger, httpClient HTTPClient) (*OpenWeatherRepository, error) {
	if strings.TrimSpace(cfg.Weather.APIKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}

	return &OpenWeatherRepository{
		BaseURL:    cfg.Weather.ForecastURL,
		APIKey:     cfg.Weather.APIKey,
		httpClient: httpClient,
		l:          l,
	}, nil
}

func (w *OpenWeatherRepository) Name() string {
	return "openweathermap"
}

type openWeatherResponse struct {
	Cod     string `json:"cod"`
	Message any    `json:"message"`
	Cnt     int    `json:"cnt"`
	List    []struct {
		Dt    int64  `json:"dt"`
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp     float64 `json:"temp"`
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Humidity int     `json:"humidity"`
			Pressure int     `json:"pressure"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   int     `json:"deg"`
		} `json:"wind"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
	} `json:"list"`
	City struct {
		Name    string              `json:"name"`
		Country string              `json:"country"`
		Coord   *models.Coordinates `json:"coord"`
	} `json:"city"`
}

func (w *OpenWeatherRepository) FetchForecast(ctx context.Context, query models.ForecastQuery) (*models.ForecastPayload, error) {
	location := query.Location()
	intervals := query.IntervalCount()

	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", w.APIKey)
	params.Set("units", "metric")
	params.Set("cnt", strconv.Itoa(intervals))

	// The API key stays out of the log fields.
	w.l.Info("making openweathermap API request", map[string]any{
		"location":  location,
		"days":      query.Days,
		"intervals": intervals,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &ProviderError{Kind: ErrTransport, Location: location, Detail: fmt.Sprintf("failed to create request: %v", err)}
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Kind: ErrTransport, Location: location, Detail: err.Error()}
	}
	defer resp.Body.Close()

	w.l.Info("received openweathermap API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Kind: ErrTransport, Location: location, Detail: fmt.Sprintf("failed to read response body: %v", err)}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &ProviderError{Kind: ErrNotFound, Location: location, Detail: upstreamMessage(body, resp.Status)}
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &ProviderError{Kind: ErrUnauthorized, Location: location, Detail: upstreamMessage(body, resp.Status)}
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return nil, &ProviderError{Kind: ErrUpstream, Location: location, Detail: upstreamMessage(body, resp.Status)}
	}

	var response openWeatherResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &ProviderError{Kind: ErrUpstream, Location: location, Detail: fmt.Sprintf("failed to parse JSON response: %v", err)}
	}

	// The forecast endpoint reports its own status as a string.
	if response.Cod != "200" {
		detail := messageText(response.Message)
		if detail == "" {
			detail = fmt.Sprintf("unexpected response status %q", response.Cod)
		}
		return nil, &ProviderError{Kind: ErrUpstream, Location: location, Detail: detail}
	}

	if len(response.List) == 0 {
		return nil, &ProviderError{Kind: ErrUpstream, Location: location, Detail: "no forecast data available"}
	}

	payload := toForecastPayload(response)

	w.l.Info("parsed openweathermap API response", map[string]any{
		"samples": len(payload.Samples),
		"city":    payload.City.Name,
	})

	return payload, nil
}

func toForecastPayload(response openWeatherResponse) *models.ForecastPayload {
	payload := &models.ForecastPayload{
		Samples: make([]models.ForecastSample, 0, len(response.List)),
		City: models.CityInfo{
			Name:    response.City.Name,
			Country: response.City.Country,
			Coord:   response.City.Coord,
		},
	}

	for _, item := range response.List {
		sample := models.ForecastSample{
			Timestamp:   item.Dt,
			DateTimeTxt: item.DtTxt,
			Temp:        item.Main.Temp,
			TempMin:     item.Main.TempMin,
			TempMax:     item.Main.TempMax,
			Humidity:    item.Main.Humidity,
			Pressure:    item.Main.Pressure,
			WindSpeed:   item.Wind.Speed,
			WindDeg:     item.Wind.Deg,
			Clouds:      item.Clouds.All,
		}
		if len(item.Weather) > 0 {
			sample.Description = item.Weather[0].Description
		}
		payload.Samples = append(payload.Samples, sample)
	}

	return payload
}

// messageText renders the upstream "message" field, which is a string
// on errors and a number on success.
func messageText(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case float64:
		return strconv.FormatFloat(m, 'f', -1, 64)
	}
	return ""
}

// upstreamMessage extracts the error message from an upstream error
// body, falling back to the HTTP status text.
func upstreamMessage(body []byte, statusText string) string {
	var payload struct {
		Cod     any `json:"cod"`
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := messageText(payload.Message); msg != "" {
			return msg
		}
	}
	return statusText
}
