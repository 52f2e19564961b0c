package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "HTTP_TIMEOUT", "GEOCODER", "GEOCODING_BASE_URL", "FORECAST_BASE_URL",
		"GOOGLE_GEOCODING_API_KEY", "PROBE_CITIES", "PROBE_INTERVAL",
		"SESSION_MAX", "SESSION_MAX_AGE", "DEFAULT_CITY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Geocoder != GeocoderOpenMeteo {
		t.Fatalf("unexpected geocoder %q", cfg.Geocoder)
	}
	if len(cfg.ProbeCities) != 1 || cfg.ProbeCities[0] != "London" {
		t.Fatalf("unexpected probe cities %v", cfg.ProbeCities)
	}
	if cfg.ProbeInterval != 15*time.Minute || cfg.SessionMax != 1000 || cfg.SessionMaxAge != time.Hour {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.DefaultCity != "London" {
		t.Fatalf("unexpected default city %q", cfg.DefaultCity)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("GEOCODER", "Google")
	t.Setenv("GOOGLE_GEOCODING_API_KEY", "secret")
	t.Setenv("PROBE_CITIES", " Paris, ,Tokyo ")
	t.Setenv("PROBE_INTERVAL", "90s")
	t.Setenv("SESSION_MAX", "not-a-number")
	t.Setenv("DEFAULT_CITY", "Oslo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Geocoder != GeocoderGoogle || cfg.GoogleGeocodingAPIKey != "secret" {
		t.Fatalf("unexpected geocoder config %+v", cfg)
	}
	if len(cfg.ProbeCities) != 2 || cfg.ProbeCities[0] != "Paris" || cfg.ProbeCities[1] != "Tokyo" {
		t.Fatalf("unexpected probe cities %v", cfg.ProbeCities)
	}
	if cfg.ProbeInterval != 90*time.Second {
		t.Fatalf("sub-minute precision must be kept, got %v", cfg.ProbeInterval)
	}
	if cfg.SessionMax != 1000 {
		t.Fatalf("invalid SESSION_MAX should fall back to default, got %d", cfg.SessionMax)
	}
	if cfg.DefaultCity != "Oslo" {
		t.Fatalf("unexpected default city %q", cfg.DefaultCity)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"bad timeout":         {"HTTP_TIMEOUT": "soon"},
		"bad probe interval":  {"PROBE_INTERVAL": "15"},
		"zero probe interval": {"PROBE_INTERVAL": "0s"},
		"bad session age":     {"SESSION_MAX_AGE": "forever"},
		"unknown geocoder":    {"GEOCODER": "bing"},
		"google without key":  {"GEOCODER": "google"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
