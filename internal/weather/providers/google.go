package providers

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/skycast/internal/common"
	"github.com/i474232898/skycast/internal/weather"
)

var errNoGoogleKey = errors.New("google geocoding api key is not configured")

// The geocoder package keeps its key in a package variable.
var googleKeyMu sync.Mutex

// useGoogleKey installs key for the geocoder package. The lock only covers the
// assignment; lookups run concurrently once the key is in place.
func useGoogleKey(key string) {
	googleKeyMu.Lock()
	defer googleKeyMu.Unlock()
	if geocoder.ApiKey != key {
		geocoder.ApiKey = key
	}
}

// GoogleGeocoder implements weather.Geocoder on the Google Geocoding API.
// It is an alternative to OpenMeteoGeocoder selected per deployment, never a
// fallback.
type GoogleGeocoder struct {
	name    string
	apiKey  string
	circuit *gobreaker.CircuitBreaker
	lookup  func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		name:    "google-geocoding",
		apiKey:  apiKey,
		circuit: newCircuitBreaker("google-geocoding"),
		lookup:  geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

type noMatch struct{}

// ResolveLocation geocodes query as a city. The canonical name is the city
// Google reports for the matched coordinates, or the title-cased query when
// the reverse lookup has none.
func (g *GoogleGeocoder) ResolveLocation(ctx context.Context, query string) (weather.LocationMatch, error) {
	if g.apiKey == "" {
		return weather.LocationMatch{}, weather.Unavailable(errNoGoogleKey)
	}
	if err := ctx.Err(); err != nil {
		return weather.LocationMatch{}, weather.Unavailable(err)
	}

	useGoogleKey(g.apiKey)

	result, err := g.circuit.Execute(func() (interface{}, error) {
		loc, err := g.lookup(geocoder.Address{City: query})
		if err != nil {
			// A legitimate empty answer must not trip the breaker.
			if common.HasAnyFold(err.Error(), "ZERO_RESULTS", "empty results", "no results") {
				return noMatch{}, nil
			}
			return nil, err
		}
		if loc.Latitude == 0 && loc.Longitude == 0 {
			return noMatch{}, nil
		}
		return loc, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weather.LocationMatch{}, weather.Unavailable(errCircuitOpen)
		}
		return weather.LocationMatch{}, weather.Unavailable(err)
	}

	loc, ok := result.(geocoder.Location)
	if !ok {
		return weather.LocationMatch{}, weather.NotFound(query)
	}

	return weather.LocationMatch{
		Name: g.cityName(loc, query),
		Coordinates: weather.Coordinates{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		},
	}, nil
}

// cityName asks Google which city loc belongs to. A failed or empty reverse
// lookup is not an error for the caller; the query is used instead.
func (g *GoogleGeocoder) cityName(loc geocoder.Location, query string) string {
	if g.reverse != nil {
		addrs, err := g.reverse(loc)
		if err != nil {
			log.Printf("google reverse geocoding failed for %q: %v", query, err)
		}
		for _, addr := range addrs {
			if name := strings.TrimSpace(addr.City); name != "" {
				return name
			}
		}
	}
	return canonicalName(query)
}

func canonicalName(query string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(query)))
}
