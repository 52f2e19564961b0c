package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/skycast/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	openMeteoCurrentFields = "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m"
	openMeteoDailyFields   = "temperature_2m_max,temperature_2m_min"
)

// OpenMeteoProvider implements weather.Fetcher for the Open-Meteo forecast API.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates a fetcher against baseURL (DefaultForecastURL
// when empty).
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultForecastURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("openmeteo-forecast"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Attribution() weather.Source {
	return weather.Source{Title: "Open-Meteo", URI: "https://open-meteo.com/"}
}

// forecastPayload uses pointers so absent fields can be told apart from zeros.
type forecastPayload struct {
	Current *struct {
		Temperature *float64 `json:"temperature_2m"`
		Humidity    *float64 `json:"relative_humidity_2m"`
		WeatherCode *int     `json:"weather_code"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Daily *struct {
		TempMax []*float64 `json:"temperature_2m_max"`
		TempMin []*float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

func (p *OpenMeteoProvider) FetchCurrent(ctx context.Context, coords weather.Coordinates) (weather.RawSample, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", coords.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", coords.Longitude))
	values.Set("current", openMeteoCurrentFields)
	values.Set("daily", openMeteoDailyFields)
	values.Set("timezone", "auto")
	values.Set("wind_speed_unit", "kmh")

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	var payload forecastPayload
	if err := getJSON(ctx, p.client, p.circuit, u, &payload); err != nil {
		return weather.RawSample{}, err
	}

	return payload.sample()
}

func (f forecastPayload) sample() (weather.RawSample, error) {
	c := f.Current
	switch {
	case c == nil:
		return weather.RawSample{}, missing("current")
	case c.Temperature == nil:
		return weather.RawSample{}, missing("current.temperature_2m")
	case c.Humidity == nil:
		return weather.RawSample{}, missing("current.relative_humidity_2m")
	case c.WeatherCode == nil:
		return weather.RawSample{}, missing("current.weather_code")
	case c.WindSpeed == nil:
		return weather.RawSample{}, missing("current.wind_speed_10m")
	}

	d := f.Daily
	switch {
	case d == nil:
		return weather.RawSample{}, missing("daily")
	case len(d.TempMax) == 0 || d.TempMax[0] == nil:
		return weather.RawSample{}, missing("daily.temperature_2m_max[0]")
	case len(d.TempMin) == 0 || d.TempMin[0] == nil:
		return weather.RawSample{}, missing("daily.temperature_2m_min[0]")
	}

	// Index 0 of the daily arrays is today in the location's own timezone.
	return weather.RawSample{
		TemperatureC: *c.Temperature,
		HumidityPct:  *c.Humidity,
		WeatherCode:  *c.WeatherCode,
		WindSpeedKmh: *c.WindSpeed,
		TodayMaxC:    *d.TempMax[0],
		TodayMinC:    *d.TempMin[0],
	}, nil
}
