package models

// ForecastSample is one 3-hour data point from the upstream forecast,
// flattened. Only the temperature fields and the description take part
// in aggregation; the rest is carried through.
type ForecastSample struct {
	Timestamp   int64   `json:"dt"`
	DateTimeTxt string  `json:"dt_txt"`
	Temp        float64 `json:"temp"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	WindDeg     int     `json:"wind_deg"`
	Clouds      int     `json:"clouds"`
	Description string  `json:"description"`
}

// Coordinates as reported by the upstream city metadata.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CityInfo is the city metadata block of the upstream payload. Coord is
// nil when the response carried no coordinates.
type CityInfo struct {
	Name    string       `json:"name"`
	Country string       `json:"country"`
	Coord   *Coordinates `json:"coord,omitempty"`
}

// ForecastPayload is a parsed upstream forecast response: the ordered
// sample list plus city metadata.
type ForecastPayload struct {
	Samples []ForecastSample `json:"samples"`
	City    CityInfo         `json:"city"`
}
