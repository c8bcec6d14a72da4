package service

import (
	"github.com/okian/lunchroulette/internal/adapters/places"
	"github.com/okian/lunchroulette/internal/config"
	"github.com/okian/lunchroulette/internal/domain/roulette"
	"github.com/okian/lunchroulette/pkg/logger"
)

// NewFromConfig builds a Service backed by the Places API as described by
// cfg. Extra options are applied last and win.
func NewFromConfig(cfg *config.Config, l logger.Logger, opts ...Option) *Service {
	client := places.New(
		places.WithBaseURL(cfg.PlacesBaseURL),
		places.WithAPIKey(cfg.PlacesAPIKey),
		places.WithLanguageCode(cfg.PlacesLanguageCode),
		places.WithTimeout(cfg.RequestTimeout()),
		places.WithLogger(l.Named("places")),
	)
	animator := roulette.New(
		roulette.WithDuration(cfg.RouletteDuration()),
		roulette.WithTickInterval(cfg.RouletteTick()),
		roulette.WithLogger(l.Named("roulette")),
	)

	base := []Option{
		WithLogger(l),
		WithPlaces(client),
		WithAnimator(animator),
		WithSearchRadius(cfg.SearchRadiusM),
		WithIncludedType(cfg.IncludedType),
		WithMaxResultCount(cfg.MaxResultCount),
		WithGeolocationTimeout(cfg.GeolocationTimeout()),
		WithPhotoMaxWidth(cfg.PhotoMaxWidthPx),
		WithFallbackImageURL(cfg.FallbackImageURL),
		WithMapsSearchURL(cfg.MapsSearchURL),
	}
	return New(append(base, opts...)...)
}
