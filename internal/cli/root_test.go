package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/i474232898/skycast/internal/weather"
)

type fakeResolver struct {
	city   string
	coords weather.Coordinates
	name   string
	err    error
}

func (f *fakeResolver) ResolveByCity(ctx context.Context, query string) (weather.View, error) {
	f.city = query
	if f.err != nil {
		return weather.View{}, f.err
	}
	return weather.View{City: query, Condition: weather.ConditionClear, Description: "Clear sky"}, nil
}

func (f *fakeResolver) ResolveByCoordinates(ctx context.Context, coords weather.Coordinates, knownName string) (weather.View, error) {
	f.coords = coords
	f.name = knownName
	if f.err != nil {
		return weather.View{}, f.err
	}
	if knownName == "" {
		knownName = weather.CurrentLocationName
	}
	return weather.View{City: knownName}, nil
}

func run(resolver Resolver, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(Options{
		Resolver:    resolver,
		DefaultCity: "London",
		Out:         &out,
		Err:         &errOut,
	})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCityCommand(t *testing.T) {
	resolver := &fakeResolver{}

	out, _, err := run(resolver, "city", "new", "york")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolver.city != "new york" {
		t.Fatalf("unexpected query %q", resolver.city)
	}
	if !strings.Contains(out, "Weather Summary for new york:") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCityCommandDefault(t *testing.T) {
	resolver := &fakeResolver{}

	if _, _, err := run(resolver, "city"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolver.city != "London" {
		t.Fatalf("expected default city, got %q", resolver.city)
	}
}

func TestCityCommandFailure(t *testing.T) {
	resolver := &fakeResolver{err: &weather.Failure{
		Kind:    weather.KindLocationNotFound,
		Message: `Could not find "Xyzzy". Please check the spelling.`,
	}}

	out, errOut, err := run(resolver, "city", "Xyzzy")
	if !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}
	if out != "" {
		t.Fatalf("no view should be printed on failure, got:\n%s", out)
	}
	if !strings.Contains(errOut, `Could not find "Xyzzy"`) {
		t.Fatalf("unexpected error output %q", errOut)
	}
}

func TestHereCommand(t *testing.T) {
	resolver := &fakeResolver{}

	out, _, err := run(resolver, "here", "--lat", "51.5", "--lon", "-0.12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolver.coords != (weather.Coordinates{Latitude: 51.5, Longitude: -0.12}) || resolver.name != "" {
		t.Fatalf("unexpected call coords=%+v name=%q", resolver.coords, resolver.name)
	}
	if !strings.Contains(out, "Weather Summary for Current Location:") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, _, err := run(resolver, "here", "--lat", "51.5", "--lon", "-0.12", "-n", "Home"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolver.name != "Home" {
		t.Fatalf("unexpected name %q", resolver.name)
	}
}

func TestHereCommandValidation(t *testing.T) {
	resolver := &fakeResolver{}

	if _, _, err := run(resolver, "here", "--lat", "51.5"); err == nil {
		t.Fatal("expected missing --lon to fail")
	}
	if _, _, err := run(resolver, "here", "--lat", "95", "--lon", "0"); err == nil {
		t.Fatal("expected out-of-range latitude to fail")
	}
}
