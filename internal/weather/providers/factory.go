package providers

import (
	"net/http"

	"github.com/i474232898/skycast/internal/config"
	"github.com/i474232898/skycast/internal/weather"
)

// NewGeocoder returns the geocoding backend selected by cfg. A deployment uses
// exactly one backend.
func NewGeocoder(cfg *config.AppConfig, client *http.Client) weather.Geocoder {
	if cfg.Geocoder == config.GeocoderGoogle {
		return NewGoogleGeocoder(cfg.GoogleGeocodingAPIKey)
	}
	return NewOpenMeteoGeocoder(client, cfg.GeocodingBaseURL)
}

// NewService builds the pipeline from cfg.
func NewService(cfg *config.AppConfig, client *http.Client) *weather.Service {
	geocoder := NewGeocoder(cfg, client)
	fetcher := NewOpenMeteoProvider(client, cfg.ForecastBaseURL)
	return weather.NewService(geocoder, fetcher)
}
