package forecast

import (
	"fmt"
	"math"
	"sort"

	"weather-mcp/internal/models"
)

// Description used for a day whose samples all came back without one.
const defaultDescription = "clear sky"

// Aggregate folds 3-hour forecast samples into one summary per calendar
// day. Samples bucket by the date prefix of their textual timestamp, so
// day boundaries follow the upstream's own clock with no timezone math.
// At most days summaries are returned, earliest dates first.
func Aggregate(samples []models.ForecastSample, days int) ([]models.DaySummary, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no forecast samples to aggregate")
	}

	buckets := make(map[string][]models.ForecastSample)
	for _, sample := range samples {
		if len(sample.DateTimeTxt) < 10 {
			return nil, fmt.Errorf("malformed sample timestamp %q", sample.DateTimeTxt)
		}
		date := sample.DateTimeTxt[:10]
		buckets[date] = append(buckets[date], sample)
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	if days > 0 && len(dates) > days {
		dates = dates[:days]
	}

	summaries := make([]models.DaySummary, 0, len(dates))
	for _, date := range dates {
		day := buckets[date]
		if len(day) == 0 {
			return nil, fmt.Errorf("no samples for %s", date)
		}

		var sum float64
		minTemp := day[0].TempMin
		maxTemp := day[0].TempMax
		description := ""

		for _, sample := range day {
			sum += sample.Temp
			if sample.TempMin < minTemp {
				minTemp = sample.TempMin
			}
			if sample.TempMax > maxTemp {
				maxTemp = sample.TempMax
			}
			// First description in the bucket wins.
			if description == "" && sample.Description != "" {
				description = sample.Description
			}
		}

		if description == "" {
			description = defaultDescription
		}

		summaries = append(summaries, models.DaySummary{
			Date:        date,
			Samples:     day,
			AvgTemp:     int(math.Round(sum / float64(len(day)))),
			MinTemp:     int(math.Round(minTemp)),
			MaxTemp:     int(math.Round(maxTemp)),
			Description: description,
		})
	}

	return summaries, nil
}
