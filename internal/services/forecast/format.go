package forecast

import (
	"fmt"
	"strings"

	"weather-mcp/internal/models"
)

// Render lays the day summaries out as chat-friendly text, one line
// per day under a location header.
func Render(location models.Location, days []models.DaySummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📍 Weather forecast for %s:\n", location)
	for _, day := range days {
		fmt.Fprintf(&b, "\n📅 %s: 🌡️ %d°C (min %d°C / max %d°C), %s",
			day.Date, day.AvgTemp, day.MinTemp, day.MaxTemp, day.Description)
	}

	return b.String()
}
