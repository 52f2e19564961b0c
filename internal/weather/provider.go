package weather

import (
	"context"
)

// Geocoder resolves a free-text place name to its best match.
// Implementations return ErrLocationNotFound (wrapped) when nothing matches and
// ErrServiceUnavailable (wrapped) for every other failure.
type Geocoder interface {
	Name() string
	ResolveLocation(ctx context.Context, query string) (LocationMatch, error)
}

// Fetcher reads current conditions and today's extremes for a point.
// Every failure is reported as ErrServiceUnavailable (wrapped).
type Fetcher interface {
	Name() string
	FetchCurrent(ctx context.Context, coords Coordinates) (RawSample, error)
	// Attribution is the provenance entry attached to every view built from
	// this fetcher's data.
	Attribution() Source
}
