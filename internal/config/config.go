// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Flat snake_case keys, shared by the YAML file and ROULETTE_ env vars.
//   - New returns the defaults; Load layers file and env on top and validates.
//   - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, also writes logs to a rotating file.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PlacesAPIKey is sent with every Places API call.
	PlacesAPIKey string `koanf:"places_api_key"`

	// PlacesBaseURL points at the Places API (New) REST root.
	PlacesBaseURL string `koanf:"places_base_url"`

	// PlacesLanguageCode is the preferred language of place names.
	PlacesLanguageCode string `koanf:"places_language_code"`

	// SearchRadiusM is the nearby search radius in meters.
	SearchRadiusM float64 `koanf:"search_radius_m"`

	// IncludedType is the primary place type searched for.
	IncludedType string `koanf:"included_type"`

	// MaxResultCount caps the candidates per search (API maximum is 20).
	MaxResultCount int `koanf:"max_result_count"`

	// PhotoMaxWidthPx is the width requested for the winner's photo.
	PhotoMaxWidthPx int `koanf:"photo_max_width_px"`

	// RouletteDurationMS and RouletteTickMS time the selection animation.
	RouletteDurationMS int `koanf:"roulette_duration_ms"`
	RouletteTickMS     int `koanf:"roulette_tick_ms"`

	// GeolocationTimeoutMS bounds the browser location request.
	GeolocationTimeoutMS int `koanf:"geolocation_timeout_ms"`

	// RequestTimeoutMS bounds each Places API call.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// FallbackImageURL is shown when the winner has no usable photo.
	FallbackImageURL string `koanf:"fallback_image_url"`

	// MapsSearchURL prefixes the maps link built from the winner's name.
	MapsSearchURL string `koanf:"maps_search_url"`

	// MetricsEnabled turns metric recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsRefreshIntervalMS is how often system gauges are refreshed.
	MetricsRefreshIntervalMS int `koanf:"metrics_refresh_interval_ms"`

	// DefaultLat and DefaultLng are used by the terminal client when no flags are given.
	DefaultLat float64 `koanf:"default_lat"`
	DefaultLng float64 `koanf:"default_lng"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:                 "info",
		Addr:                     ":9080",
		PlacesBaseURL:            "https://places.googleapis.com/v1",
		PlacesLanguageCode:       "zh-TW",
		SearchRadiusM:            500,
		IncludedType:             "restaurant",
		MaxResultCount:           20,
		PhotoMaxWidthPx:          800,
		RouletteDurationMS:       5000,
		RouletteTickMS:           100,
		GeolocationTimeoutMS:     10_000,
		RequestTimeoutMS:         10_000,
		FallbackImageURL:         "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		MapsSearchURL:            "https://www.google.com/maps/search/?api=1&query=",
		MetricsEnabled:           true,
		MetricsRefreshIntervalMS: 10_000,
		DefaultLat:               25.0330,
		DefaultLng:               121.5654,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SearchRadiusM <= 0 || c.SearchRadiusM > 50_000:
		return fmt.Errorf("%w: search_radius_m must be in (0, 50000], got %v", ErrInvalidConfig, c.SearchRadiusM)
	case strings.TrimSpace(c.IncludedType) == "":
		return fmt.Errorf("%w: included_type must not be empty", ErrInvalidConfig)
	case c.MaxResultCount < 1 || c.MaxResultCount > 20:
		return fmt.Errorf("%w: max_result_count must be in [1, 20], got %d", ErrInvalidConfig, c.MaxResultCount)
	case c.PhotoMaxWidthPx < 1 || c.PhotoMaxWidthPx > 4800:
		return fmt.Errorf("%w: photo_max_width_px must be in [1, 4800], got %d", ErrInvalidConfig, c.PhotoMaxWidthPx)
	case c.RouletteTickMS <= 0:
		return fmt.Errorf("%w: roulette_tick_ms must be positive", ErrInvalidConfig)
	case c.RouletteDurationMS < c.RouletteTickMS:
		return fmt.Errorf("%w: roulette_duration_ms must be at least roulette_tick_ms", ErrInvalidConfig)
	case c.GeolocationTimeoutMS <= 0:
		return fmt.Errorf("%w: geolocation_timeout_ms must be positive", ErrInvalidConfig)
	case c.RequestTimeoutMS <= 0:
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	case c.MetricsRefreshIntervalMS <= 0:
		return fmt.Errorf("%w: metrics_refresh_interval_ms must be positive", ErrInvalidConfig)
	}
	return nil
}

// RouletteDuration returns the animation length.
func (c *Config) RouletteDuration() time.Duration {
	return time.Duration(c.RouletteDurationMS) * time.Millisecond
}

// RouletteTick returns the animation tick interval.
func (c *Config) RouletteTick() time.Duration {
	return time.Duration(c.RouletteTickMS) * time.Millisecond
}

// GeolocationTimeout returns the locate step bound.
func (c *Config) GeolocationTimeout() time.Duration {
	return time.Duration(c.GeolocationTimeoutMS) * time.Millisecond
}

// RequestTimeout returns the per-call Places API bound.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// MetricsRefreshInterval returns how often system gauges are refreshed.
func (c *Config) MetricsRefreshInterval() time.Duration {
	return time.Duration(c.MetricsRefreshIntervalMS) * time.Millisecond
}

// PickStreamTimeout bounds one pick stream: locate, search, the animation,
// then details and photo lookups, plus slack for writing the last events.
func (c *Config) PickStreamTimeout() time.Duration {
	const slack = 10 * time.Second
	return c.GeolocationTimeout() + c.RouletteDuration() + 3*c.RequestTimeout() + slack
}
