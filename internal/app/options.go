package service

import (
	"time"

	"github.com/okian/lunchroulette/internal/adapters/places"
	"github.com/okian/lunchroulette/internal/domain/guard"
	"github.com/okian/lunchroulette/internal/domain/roulette"
	"github.com/okian/lunchroulette/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPlaces uses c for search, details and photos.
func WithPlaces(c *places.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.searcher = c
			s.enricher = c
			s.photos = c
		}
	}
}

// WithSearcher sets the nearby search backend.
func WithSearcher(sr Searcher) Option {
	return func(s *Service) {
		if sr != nil {
			s.searcher = sr
		}
	}
}

// WithEnricher sets the place details backend.
func WithEnricher(e Enricher) Option {
	return func(s *Service) {
		if e != nil {
			s.enricher = e
		}
	}
}

// WithPhotoResolver sets the photo URL backend.
func WithPhotoResolver(p PhotoResolver) Option {
	return func(s *Service) {
		if p != nil {
			s.photos = p
		}
	}
}

// WithAnimator sets the selection animator.
func WithAnimator(a *roulette.Animator) Option {
	return func(s *Service) {
		if a != nil {
			s.animator = a
		}
	}
}

// WithGuard sets the per-client session guard.
func WithGuard(g guard.Guard) Option {
	return func(s *Service) {
		if g != nil {
			s.guard = g
		}
	}
}

// WithSearchRadius sets the search circle radius in meters.
func WithSearchRadius(m float64) Option {
	return func(s *Service) {
		if m > 0 {
			s.radius = m
		}
	}
}

// WithIncludedType sets the primary place type to search for.
func WithIncludedType(t string) Option {
	return func(s *Service) {
		if t != "" {
			s.includedType = t
		}
	}
}

// WithMaxResultCount caps the number of candidates per search.
func WithMaxResultCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithGeolocationTimeout bounds the locate step.
func WithGeolocationTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.geoTimeout = d
		}
	}
}

// WithPhotoMaxWidth sets the requested photo width in pixels.
func WithPhotoMaxWidth(px int) Option {
	return func(s *Service) {
		s.presenterOpts = append(s.presenterOpts, WithPresenterPhotoWidth(px))
	}
}

// WithFallbackImageURL sets the image shown when no photo is available.
func WithFallbackImageURL(u string) Option {
	return func(s *Service) {
		s.presenterOpts = append(s.presenterOpts, WithPresenterFallbackImage(u))
	}
}

// WithMapsSearchURL sets the prefix of the fallback maps link.
func WithMapsSearchURL(u string) Option {
	return func(s *Service) {
		s.presenterOpts = append(s.presenterOpts, WithPresenterMapsSearchURL(u))
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
