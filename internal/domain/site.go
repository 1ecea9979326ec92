package domain

import (
	"context"
	"log/slog"
)

// Site describes where the sensor is installed.
type Site struct {
	Name      string   `json:"name"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	AltitudeM float64  `json:"altitude_m"`
	Sensor    string   `json:"sensor"`
	Variables []string `json:"variables"`

	// Geocoding enrichment fields.
	PlaceName        string  `json:"place_name,omitempty"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "reverse", "original", "failed"
}

// DefaultSite is the EAFIT campus station in Medellín.
func DefaultSite() Site {
	return Site{
		Name:      "Universidad EAFIT",
		Lat:       6.2006,
		Lon:       -75.5783,
		AltitudeM: 1495,
		Sensor:    "ESP32 + BME280",
		Variables: []string{string(Pressure), string(WindSpeed)},
	}
}

// GeocodingResult contains place data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves coordinates to place details.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}

// EnrichSite adds a place name to site. A nil geocoder leaves it untouched;
// failures are logged and recorded in GeoSource.
func EnrichSite(ctx context.Context, site Site, geocoder Geocoder, logger *slog.Logger) Site {
	if geocoder == nil {
		return site
	}
	if site.Lat == 0 && site.Lon == 0 {
		site.GeoSource = "original"
		return site
	}

	result, err := geocoder.ReverseGeocode(ctx, site.Lat, site.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"site", site.Name,
			"lat", site.Lat,
			"lon", site.Lon,
			"error", err,
		)
		site.GeoSource = "failed"
		return site
	}
	if result.FormattedAddress == "" {
		site.GeoSource = "original"
		return site
	}

	site.FormattedAddress = result.FormattedAddress
	site.PlaceName = result.PlaceName
	site.GeoConfidence = result.Confidence
	site.GeoSource = "reverse"
	return site
}
