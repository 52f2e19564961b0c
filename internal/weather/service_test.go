package weather

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeGeocoder struct {
	calls   atomic.Int32
	matches map[string]LocationMatch
	err     error
	delay   map[string]time.Duration
}

func (g *fakeGeocoder) Name() string { return "fake-geocoder" }

func (g *fakeGeocoder) ResolveLocation(ctx context.Context, query string) (LocationMatch, error) {
	g.calls.Add(1)
	if d := g.delay[query]; d > 0 {
		time.Sleep(d)
	}
	if g.err != nil {
		return LocationMatch{}, g.err
	}
	m, ok := g.matches[strings.ToLower(query)]
	if !ok {
		return LocationMatch{}, NotFound(query)
	}
	return m, nil
}

type fakeFetcher struct {
	samples map[Coordinates]RawSample
	err     error
}

func (f *fakeFetcher) Name() string { return "fake-fetcher" }

func (f *fakeFetcher) Attribution() Source {
	return Source{Title: "Fake", URI: "https://fake.example/"}
}

func (f *fakeFetcher) FetchCurrent(ctx context.Context, coords Coordinates) (RawSample, error) {
	if f.err != nil {
		return RawSample{}, f.err
	}
	s, ok := f.samples[coords]
	if !ok {
		return RawSample{}, Unavailable(errors.New("no sample"))
	}
	return s, nil
}

var (
	london = Coordinates{Latitude: 51.5, Longitude: -0.12}
	paris  = Coordinates{Latitude: 48.85, Longitude: 2.35}
	tokyo  = Coordinates{Latitude: 35.69, Longitude: 139.69}
)

func newTestService(g *fakeGeocoder, f *fakeFetcher) *Service {
	if g.matches == nil {
		g.matches = map[string]LocationMatch{
			"london": {Name: "London", Coordinates: london},
			"paris":  {Name: "Paris", Coordinates: paris},
			"tokyo":  {Name: "Tokyo", Coordinates: tokyo},
		}
	}
	if f.samples == nil {
		f.samples = map[Coordinates]RawSample{
			london: {TemperatureC: 15.6, HumidityPct: 82, WeatherCode: 61, WindSpeedKmh: 12, TodayMaxC: 18.2, TodayMinC: 9.8},
			paris:  {TemperatureC: 20.4, HumidityPct: 55, WeatherCode: 0, WindSpeedKmh: 7.45, TodayMaxC: 24, TodayMinC: 13},
			tokyo:  {TemperatureC: 28.5, HumidityPct: 70, WeatherCode: 95, WindSpeedKmh: 20, TodayMaxC: 31, TodayMinC: 25},
		}
	}
	return NewService(g, f)
}

func TestResolveByCityCanonicalName(t *testing.T) {
	svc := newTestService(&fakeGeocoder{}, &fakeFetcher{})

	view, err := svc.ResolveByCity(context.Background(), "london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.City != "London" {
		t.Fatalf("expected canonical name London, got %q", view.City)
	}
	if len(view.Sources) != 1 || view.Sources[0].Title != "Fake" {
		t.Fatalf("expected single attribution source, got %+v", view.Sources)
	}
}

func TestResolveByCityRounding(t *testing.T) {
	svc := newTestService(&fakeGeocoder{}, &fakeFetcher{})

	view, err := svc.ResolveByCity(context.Background(), "London")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Temperature != 16 || view.High != 18 || view.Low != 10 {
		t.Fatalf("expected 16/18/10, got %d/%d/%d", view.Temperature, view.High, view.Low)
	}
	if view.Condition != ConditionRainy {
		t.Fatalf("expected %q, got %q", ConditionRainy, view.Condition)
	}
	if view.Description != "Slight rain" {
		t.Fatalf("unexpected description %q", view.Description)
	}
	if view.WindSpeed != "12 km/h" {
		t.Fatalf("unexpected wind speed %q", view.WindSpeed)
	}
	if view.Humidity != 82 {
		t.Fatalf("unexpected humidity %v", view.Humidity)
	}
}

func TestResolveByCityNotFound(t *testing.T) {
	svc := newTestService(&fakeGeocoder{}, &fakeFetcher{})

	view, err := svc.ResolveByCity(context.Background(), "Nonexistent City Xyzzy123")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
	if errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("not-found must not be reported as service failure: %v", err)
	}
	if view.City != "" {
		t.Fatalf("expected no view, got %+v", view)
	}

	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %T", err)
	}
	if !strings.Contains(f.Message, "Nonexistent City Xyzzy123") {
		t.Fatalf("message should name the query: %q", f.Message)
	}
}

func TestResolveByCityFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: Unavailable(errors.New("server error: 500"))}
	svc := newTestService(&fakeGeocoder{}, fetcher)

	view, err := svc.ResolveByCity(context.Background(), "London")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if view.City != "" || view.Sources != nil {
		t.Fatalf("expected no partial view, got %+v", view)
	}

	out := NewOutcome(view, err)
	if out.State != StateFailed || out.Kind != KindServiceUnavailable || out.View != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Message != msgCityUnavailable {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestResolveByCityGeocoderFailure(t *testing.T) {
	svc := newTestService(&fakeGeocoder{err: Unavailable(errors.New("dial tcp: refused"))}, &fakeFetcher{})

	_, err := svc.ResolveByCity(context.Background(), "London")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if KindOf(err) != KindServiceUnavailable {
		t.Fatalf("unexpected kind %q", KindOf(err))
	}
}

func TestResolveByCoordinatesSkipsGeocoder(t *testing.T) {
	geocoder := &fakeGeocoder{}
	svc := newTestService(geocoder, &fakeFetcher{})

	view, err := svc.ResolveByCoordinates(context.Background(), london, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geocoder.calls.Load() != 0 {
		t.Fatalf("geocoder must not be called, got %d calls", geocoder.calls.Load())
	}
	if view.City != CurrentLocationName {
		t.Fatalf("expected placeholder name, got %q", view.City)
	}

	view, err = svc.ResolveByCoordinates(context.Background(), london, "Home")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.City != "Home" {
		t.Fatalf("expected known name, got %q", view.City)
	}
}

func TestResolveByCoordinatesFailure(t *testing.T) {
	svc := newTestService(&fakeGeocoder{}, &fakeFetcher{err: Unavailable(errors.New("boom"))})

	_, err := svc.ResolveByCoordinates(context.Background(), london, "")
	out := NewOutcome(View{}, err)
	if out.Kind != KindServiceUnavailable || out.Message != msgCoordsUnavailable {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestConcurrentResolutionsAreIndependent(t *testing.T) {
	// Paris is slower than Tokyo, so the calls overlap and finish out of order.
	geocoder := &fakeGeocoder{delay: map[string]time.Duration{"Paris": 50 * time.Millisecond}}
	svc := newTestService(geocoder, &fakeFetcher{})

	var (
		wg        sync.WaitGroup
		parisView View
		tokyoView View
		parisErr  error
		tokyoErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		parisView, parisErr = svc.ResolveByCity(context.Background(), "Paris")
	}()
	go func() {
		defer wg.Done()
		tokyoView, tokyoErr = svc.ResolveByCity(context.Background(), "Tokyo")
	}()
	wg.Wait()

	if parisErr != nil || tokyoErr != nil {
		t.Fatalf("unexpected errors: %v, %v", parisErr, tokyoErr)
	}
	if parisView.City != "Paris" || parisView.Temperature != 20 || parisView.Condition != ConditionClear {
		t.Fatalf("paris view corrupted: %+v", parisView)
	}
	if tokyoView.City != "Tokyo" || tokyoView.Temperature != 29 || tokyoView.Condition != ConditionThunderstorm {
		t.Fatalf("tokyo view corrupted: %+v", tokyoView)
	}
}

func TestBuildViewCopiesSources(t *testing.T) {
	src := []Source{{Title: "a", URI: "u1"}, {Title: "b", URI: "u2"}}
	view := BuildView("X", RawSample{}, src...)
	src[0].Title = "changed"
	if view.Sources[0].Title != "a" || view.Sources[1].Title != "b" {
		t.Fatalf("sources must keep order and not alias input: %+v", view.Sources)
	}
}

func TestFormatWindSpeed(t *testing.T) {
	tests := map[float64]string{
		12:    "12 km/h",
		7.46:  "7.5 km/h",
		0:     "0 km/h",
		3.04:  "3 km/h",
		19.99: "20 km/h",
	}
	for in, want := range tests {
		if got := FormatWindSpeed(in); got != want {
			t.Errorf("FormatWindSpeed(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRoundingNegativeHalves(t *testing.T) {
	view := BuildView("X", RawSample{TemperatureC: -2.5, TodayMaxC: 0.5, TodayMinC: -0.4})
	if view.Temperature != -3 || view.High != 1 || view.Low != 0 {
		t.Fatalf("unexpected rounding %d/%d/%d", view.Temperature, view.High, view.Low)
	}
}
