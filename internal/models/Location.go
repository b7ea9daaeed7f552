package models

// Location is the display name for a forecast response, resolved from
// upstream city metadata, the geocoding fallback, or the raw query.
type Location struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

func (l Location) String() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}
