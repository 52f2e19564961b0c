package weather

import (
	"math"
	"strconv"
)

// BuildView maps a provider sample into the display contract.
// Temperatures are rounded to the nearest integer, halves away from zero.
func BuildView(city string, sample RawSample, sources ...Source) View {
	out := make([]Source, len(sources))
	copy(out, sources)

	return View{
		City:        city,
		Temperature: roundC(sample.TemperatureC),
		Humidity:    sample.HumidityPct,
		Condition:   Classify(sample.WeatherCode),
		Description: Describe(sample.WeatherCode),
		WindSpeed:   FormatWindSpeed(sample.WindSpeedKmh),
		High:        roundC(sample.TodayMaxC),
		Low:         roundC(sample.TodayMinC),
		Sources:     out,
	}
}

// FormatWindSpeed renders km/h with at most one decimal, e.g. "12 km/h" or
// "7.4 km/h".
func FormatWindSpeed(kmh float64) string {
	v := math.Round(kmh*10) / 10
	return strconv.FormatFloat(v, 'f', -1, 64) + " km/h"
}

func roundC(c float64) int {
	return int(math.Round(c))
}
