package models

import "fmt"

const (
	MinForecastDays     = 1
	MaxForecastDays     = 5
	DefaultForecastDays = 3

	samplesPerDay    = 8
	maxIntervalCount = 40
)

// ForecastQuery describes one forecast request after schema validation.
type ForecastQuery struct {
	City    string `json:"city" validate:"required"`
	Country string `json:"country,omitempty"`
	Days    int    `json:"days,omitempty" validate:"omitempty,min=1,max=5"`
}

// Normalized returns a copy with Days defaulted and clamped to the supported range.
func (q ForecastQuery) Normalized() ForecastQuery {
	if q.Days == 0 {
		q.Days = DefaultForecastDays
	}
	if q.Days < MinForecastDays {
		q.Days = MinForecastDays
	}
	if q.Days > MaxForecastDays {
		q.Days = MaxForecastDays
	}
	return q
}

// Location builds the upstream location query: "city" alone, or
// "city,COUNTRY" when a country code was supplied. The code is passed
// through verbatim; its shape is left to the upstream API.
func (q ForecastQuery) Location() string {
	if q.Country == "" {
		return q.City
	}
	return fmt.Sprintf("%s,%s", q.City, q.Country)
}

// IntervalCount is the number of 3-hour samples to request: eight per
// day, capped at the upstream maximum of 40.
func (q ForecastQuery) IntervalCount() int {
	q = q.Normalized()

	n := q.Days * samplesPerDay
	if n > maxIntervalCount {
		n = maxIntervalCount
	}
	return n
}
