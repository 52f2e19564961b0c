package weather

import (
	"context"
	"fmt"
	"log"
)

// CurrentLocationName is used for coordinate lookups without a known name.
const CurrentLocationName = "Current Location"

const (
	msgCityUnavailable   = "Failed to fetch weather data. Please try again."
	msgCoordsUnavailable = "Failed to fetch weather for your current location."
)

// Service resolves a city name or coordinates into a View.
// It holds no per-call state; concurrent calls are independent.
type Service struct {
	geocoder Geocoder
	fetcher  Fetcher
}

// NewService creates a new Service.
func NewService(geocoder Geocoder, fetcher Fetcher) *Service {
	return &Service{
		geocoder: geocoder,
		fetcher:  fetcher,
	}
}

// ResolveByCity geocodes query, fetches weather for the match and returns the
// view named after the geocoder's canonical name. Failures are returned as
// *Failure.
func (s *Service) ResolveByCity(ctx context.Context, query string) (View, error) {
	log.Printf("DEBUG: ResolveByCity called for %q", query)

	match, err := s.geocoder.ResolveLocation(ctx, query)
	if err != nil {
		log.Printf("ERROR: geocoder %s failed for %q: %v", s.geocoder.Name(), query, err)
		return View{}, cityFailure(query, err)
	}

	sample, err := s.fetcher.FetchCurrent(ctx, match.Coordinates)
	if err != nil {
		log.Printf("ERROR: fetcher %s failed for %s (%f,%f): %v",
			s.fetcher.Name(), match.Name, match.Coordinates.Latitude, match.Coordinates.Longitude, err)
		return View{}, cityFailure(query, err)
	}

	return BuildView(match.Name, sample, s.fetcher.Attribution()), nil
}

// ResolveByCoordinates fetches weather for coords without geocoding. The view
// is named knownName, or CurrentLocationName when knownName is empty.
func (s *Service) ResolveByCoordinates(ctx context.Context, coords Coordinates, knownName string) (View, error) {
	log.Printf("DEBUG: ResolveByCoordinates called for (%f,%f)", coords.Latitude, coords.Longitude)

	sample, err := s.fetcher.FetchCurrent(ctx, coords)
	if err != nil {
		log.Printf("ERROR: fetcher %s failed for (%f,%f): %v", s.fetcher.Name(), coords.Latitude, coords.Longitude, err)
		return View{}, &Failure{Kind: KindServiceUnavailable, Message: msgCoordsUnavailable, Err: err}
	}

	name := knownName
	if name == "" {
		name = CurrentLocationName
	}
	return BuildView(name, sample, s.fetcher.Attribution()), nil
}

func cityFailure(query string, err error) *Failure {
	if KindOf(err) == KindLocationNotFound {
		return &Failure{
			Kind:    KindLocationNotFound,
			Message: fmt.Sprintf("Could not find %q. Please check the spelling.", query),
			Err:     err,
		}
	}
	return &Failure{Kind: KindServiceUnavailable, Message: msgCityUnavailable, Err: err}
}
