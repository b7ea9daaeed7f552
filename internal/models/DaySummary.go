package models

// DaySummary aggregates one calendar day of forecast samples.
// Temperatures are rounded to whole degrees Celsius.
type DaySummary struct {
	Date        string           `json:"date"`
	Samples     []ForecastSample `json:"samples,omitempty"`
	MinTemp     int              `json:"temp_min"`
	MaxTemp     int              `json:"temp_max"`
	AvgTemp     int              `json:"temp_avg"`
	Description string           `json:"description"`
}
