package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Geocoder backends selectable with GEOCODER.
const (
	GeocoderOpenMeteo = "openmeteo"
	GeocoderGoogle    = "google"
)

type AppConfig struct {
	Port string

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	Geocoder              string
	GeocodingBaseURL      string
	ForecastBaseURL       string
	GoogleGeocodingAPIKey string

	// Provider probe.
	ProbeCities   []string
	ProbeInterval time.Duration

	// Session board retention.
	SessionMax    int           // max live sessions (0 = unlimited)
	SessionMaxAge time.Duration // idle sessions older than this are dropped (0 = never)

	DefaultCity string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Geocoder = strings.ToLower(getenvDefault("GEOCODER", GeocoderOpenMeteo))
	switch cfg.Geocoder {
	case GeocoderOpenMeteo, GeocoderGoogle:
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q: want %s or %s", cfg.Geocoder, GeocoderOpenMeteo, GeocoderGoogle)
	}
	cfg.GeocodingBaseURL = getenvDefault("GEOCODING_BASE_URL", "https://geocoding-api.open-meteo.com/v1/search")
	cfg.ForecastBaseURL = getenvDefault("FORECAST_BASE_URL", "https://api.open-meteo.com/v1/forecast")
	cfg.GoogleGeocodingAPIKey = os.Getenv("GOOGLE_GEOCODING_API_KEY")
	if cfg.Geocoder == GeocoderGoogle && cfg.GoogleGeocodingAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEOCODING_API_KEY is required when GEOCODER=%s", GeocoderGoogle)
	}

	cfg.ProbeCities = splitList(getenvDefault("PROBE_CITIES", "London"))
	interval, err := time.ParseDuration(getenvDefault("PROBE_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROBE_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid PROBE_INTERVAL %q: must be positive", interval)
	}
	cfg.ProbeInterval = interval

	cfg.SessionMax = getenvInt("SESSION_MAX", 1000)
	maxAge, err := time.ParseDuration(getenvDefault("SESSION_MAX_AGE", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
	}
	cfg.SessionMaxAge = maxAge

	cfg.DefaultCity = getenvDefault("DEFAULT_CITY", "London")

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
