package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationNotFound means the geocoder had no match for the query.
	ErrLocationNotFound = errors.New("location not found")
	// ErrServiceUnavailable covers transport failures, bad statuses and
	// malformed or incomplete provider payloads.
	ErrServiceUnavailable = errors.New("weather service unavailable")
)

// Kind tags a failed resolution so presenters can branch on it.
type Kind string

const (
	KindNone               Kind = ""
	KindLocationNotFound   Kind = "location_not_found"
	KindServiceUnavailable Kind = "service_unavailable"
)

// Unavailable wraps cause as a service failure.
func Unavailable(cause error) error {
	return fmt.Errorf("%w: %w", ErrServiceUnavailable, cause)
}

// NotFound reports that query had no geocoding match.
func NotFound(query string) error {
	return fmt.Errorf("%w: %q", ErrLocationNotFound, query)
}

// KindOf classifies err. Anything that is not a not-found is treated as a
// service failure.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrLocationNotFound):
		return KindLocationNotFound
	default:
		return KindServiceUnavailable
	}
}

// Failure is the error returned by Service. Message is safe to show to a user;
// the underlying cause stays available through Unwrap.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return fmt.Sprintf("%s: %v", f.Message, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Is lets errors.Is match a Failure against the sentinel of its kind even when
// the cause was not wrapped with it.
func (f *Failure) Is(target error) bool {
	switch target {
	case ErrLocationNotFound:
		return f.Kind == KindLocationNotFound
	case ErrServiceUnavailable:
		return f.Kind == KindServiceUnavailable
	}
	return false
}
