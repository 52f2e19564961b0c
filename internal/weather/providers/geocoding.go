package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/skycast/internal/weather"
	"github.com/sony/gobreaker"
)

const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// OpenMeteoGeocoder implements weather.Geocoder for the Open-Meteo geocoding API.
type OpenMeteoGeocoder struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoGeocoder creates a geocoder against baseURL (DefaultGeocodingURL
// when empty).
func NewOpenMeteoGeocoder(client *http.Client, baseURL string) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	return &OpenMeteoGeocoder{
		name:    "openmeteo-geocoding",
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("openmeteo-geocoding"),
	}
}

func (g *OpenMeteoGeocoder) Name() string {
	return g.name
}

type geocodingPayload struct {
	Results []struct {
		Name      string   `json:"name"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"results"`
}

// ResolveLocation asks for a single match and takes it as authoritative.
func (g *OpenMeteoGeocoder) ResolveLocation(ctx context.Context, query string) (weather.LocationMatch, error) {
	values := url.Values{}
	values.Set("name", query)
	values.Set("count", "1")
	values.Set("language", "en")
	values.Set("format", "json")

	u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())

	var payload geocodingPayload
	if err := getJSON(ctx, g.client, g.circuit, u, &payload); err != nil {
		return weather.LocationMatch{}, err
	}

	// Open-Meteo omits "results" entirely when nothing matches.
	if len(payload.Results) == 0 {
		return weather.LocationMatch{}, weather.NotFound(query)
	}

	best := payload.Results[0]
	switch {
	case strings.TrimSpace(best.Name) == "":
		return weather.LocationMatch{}, missing("results[0].name")
	case best.Latitude == nil:
		return weather.LocationMatch{}, missing("results[0].latitude")
	case best.Longitude == nil:
		return weather.LocationMatch{}, missing("results[0].longitude")
	}

	return weather.LocationMatch{
		Name: best.Name,
		Coordinates: weather.Coordinates{
			Latitude:  *best.Latitude,
			Longitude: *best.Longitude,
		},
	}, nil
}
