package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/okian/lunchroulette/internal/domain/model"
	"github.com/okian/lunchroulette/pkg/logger"
	"github.com/okian/lunchroulette/pkg/metrics"
)

// Presenter defaults.
const (
	DefaultPhotoMaxWidthPx  = 800
	DefaultFallbackImageURL = "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80"
	DefaultMapsSearchURL    = "https://www.google.com/maps/search/?api=1&query="
)

// Fallback reasons recorded in metrics.
const (
	fallbackDetailsFailed = "details_failed"
	fallbackNoPhoto       = "no_photo"
	fallbackPhotoFailed   = "photo_failed"
	fallbackNoMapsLink    = "no_maps_link"
)

// Enricher loads display details for a place.
type Enricher interface {
	FetchDetails(ctx context.Context, placeID string) (model.Details, error)
}

// PhotoResolver turns a photo resource name into a displayable URL.
type PhotoResolver interface {
	PhotoURI(ctx context.Context, photoName string, maxWidthPx int) (string, error)
}

// Presenter builds the result card for a winner.
type Presenter struct {
	enricher      Enricher
	photos        PhotoResolver
	photoMaxWidth int
	fallbackImage string
	mapsSearchURL string
	logger        logger.Logger
}

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithPresenterPhotoWidth sets the requested photo width in pixels.
func WithPresenterPhotoWidth(px int) PresenterOption {
	return func(p *Presenter) {
		if px > 0 {
			p.photoMaxWidth = px
		}
	}
}

// WithPresenterFallbackImage sets the image used when no photo is available.
func WithPresenterFallbackImage(u string) PresenterOption {
	return func(p *Presenter) {
		if u != "" {
			p.fallbackImage = u
		}
	}
}

// WithPresenterMapsSearchURL sets the prefix of the search link built from the name.
func WithPresenterMapsSearchURL(u string) PresenterOption {
	return func(p *Presenter) {
		if u != "" {
			p.mapsSearchURL = u
		}
	}
}

// WithPresenterLogger sets the logger.
func WithPresenterLogger(l logger.Logger) PresenterOption {
	return func(p *Presenter) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPresenter constructs a Presenter. Either collaborator may be nil, in
// which case the corresponding fallback is always used.
func NewPresenter(enricher Enricher, photos PhotoResolver, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		enricher:      enricher,
		photos:        photos,
		photoMaxWidth: DefaultPhotoMaxWidthPx,
		fallbackImage: DefaultFallbackImageURL,
		mapsSearchURL: DefaultMapsSearchURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("presenter")
	}
	return p
}

// Present returns the card for winner. Enrichment failures are logged and
// replaced by fallbacks; Present itself never fails.
func (p *Presenter) Present(ctx context.Context, winner model.Candidate) model.Card {
	card := model.Card{
		Name:     winner.Name(),
		ImageURL: p.fallbackImage,
	}

	if p.enricher == nil {
		metrics.RecordEnrichmentFallback(fallbackDetailsFailed)
		card.Link = p.SearchLink(card.Name)
		return card
	}

	details, err := p.enricher.FetchDetails(ctx, winner.ID)
	if err != nil {
		metrics.RecordEnrichmentFallback(fallbackDetailsFailed)
		p.logger.Warn(ctx, "place details unavailable, using fallback card",
			logger.String("place_id", winner.ID),
			logger.Error(err),
		)
		card.Link = p.SearchLink(card.Name)
		return card
	}

	card.Enriched = true
	if name := details.DisplayName.String(); name != "" {
		card.Name = name
	}
	card.ImageURL = p.photoURL(ctx, winner.ID, details.PhotoNames)
	card.Link = details.GoogleMapsURI
	if card.Link == "" {
		metrics.RecordEnrichmentFallback(fallbackNoMapsLink)
		card.Link = p.SearchLink(card.Name)
	}
	return card
}

func (p *Presenter) photoURL(ctx context.Context, placeID string, names []string) string {
	if len(names) == 0 || p.photos == nil {
		metrics.RecordEnrichmentFallback(fallbackNoPhoto)
		return p.fallbackImage
	}
	uri, err := p.photos.PhotoURI(ctx, names[0], p.photoMaxWidth)
	if err != nil || uri == "" {
		metrics.RecordEnrichmentFallback(fallbackPhotoFailed)
		p.logger.Warn(ctx, "photo lookup failed, using fallback image",
			logger.String("place_id", placeID),
			logger.Error(err),
		)
		return p.fallbackImage
	}
	return uri
}

// SearchLink returns the maps search URL for name.
func (p *Presenter) SearchLink(name string) string {
	return p.mapsSearchURL + encodeURIComponent(name)
}

var uriComponentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s the way browsers do for a URI component.
func encodeURIComponent(s string) string {
	return uriComponentUnescape.Replace(url.QueryEscape(s))
}
