// Package service orchestrates one roulette pick: locate, search, animate
// and present, reporting every step to a Surface.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/lunchroulette/internal/adapters/places"
	"github.com/okian/lunchroulette/internal/domain/guard"
	"github.com/okian/lunchroulette/internal/domain/locate"
	"github.com/okian/lunchroulette/internal/domain/model"
	"github.com/okian/lunchroulette/internal/domain/roulette"
	"github.com/okian/lunchroulette/pkg/logger"
	"github.com/okian/lunchroulette/pkg/metrics"
)

// Search defaults.
const (
	DefaultSearchRadiusM      = 500.0
	DefaultIncludedType       = "restaurant"
	DefaultMaxResultCount     = 20
	DefaultGeolocationTimeout = 10 * time.Second
)

// Surface is where a pick is rendered.
type Surface interface {
	SetStatus(msg string)
	ShowRoulette()
	HideRoulette()
	ShowTick(seq int, name string)
	ShowResult(card model.Card)
	HideResult()
}

// Searcher finds candidate places around a point.
type Searcher interface {
	SearchNearby(ctx context.Context, req places.SearchRequest) ([]model.Candidate, error)
}

// Result describes how a pick ended.
type Result struct {
	Outcome Outcome
	Winner  model.Candidate
	Card    model.Card
	Ticks   int
	Err     error
}

// Settings are the timings and search parameters a client may need to know.
type Settings struct {
	GeolocationTimeout time.Duration
	RouletteDuration   time.Duration
	RouletteTick       time.Duration
	SearchRadiusM      float64
	IncludedType       string
	MaxResultCount     int
}

// Service runs picks.
type Service struct {
	mu sync.RWMutex

	searcher  Searcher
	enricher  Enricher
	photos    PhotoResolver
	animator  *roulette.Animator
	guard     guard.Guard
	presenter *Presenter

	radius        float64
	includedType  string
	maxResults    int
	geoTimeout    time.Duration
	presenterOpts []PresenterOption

	startedAt time.Time
	outcomes  map[Outcome]int64

	logger logger.Logger
}

// New constructs a Service.
func New(opts ...Option) *Service {
	s := &Service{
		radius:       DefaultSearchRadiusM,
		includedType: DefaultIncludedType,
		maxResults:   DefaultMaxResultCount,
		geoTimeout:   DefaultGeolocationTimeout,
		startedAt:    time.Now(),
		outcomes:     make(map[Outcome]int64, len(Outcomes)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.animator == nil {
		s.animator = roulette.New()
	}
	if s.guard == nil {
		s.guard = guard.NewInMemoryGuard()
	}
	s.presenter = NewPresenter(s.enricher, s.photos,
		append([]PresenterOption{WithPresenterLogger(s.logger)}, s.presenterOpts...)...)
	return s
}

// Settings returns the effective timings and search parameters.
func (s *Service) Settings() Settings {
	return Settings{
		GeolocationTimeout: s.geoTimeout,
		RouletteDuration:   s.animator.Duration(),
		RouletteTick:       s.animator.TickInterval(),
		SearchRadiusM:      s.radius,
		IncludedType:       s.includedType,
		MaxResultCount:     s.maxResults,
	}
}

// Pick runs one full pick for clientID. Only one pick per client may run
// at a time; a concurrent call ends with OutcomeBusy.
func (s *Service) Pick(ctx context.Context, clientID string, locator locate.Locator, surface Surface) Result {
	start := time.Now()
	metrics.RecordPickStarted()

	res := s.pick(ctx, clientID, locator, surface)

	s.mu.Lock()
	s.outcomes[res.Outcome]++
	s.mu.Unlock()
	metrics.RecordPickOutcome(string(res.Outcome), float64(time.Since(start).Milliseconds()))

	fields := []logger.Field{
		logger.String("client", clientID),
		logger.String("outcome", string(res.Outcome)),
		logger.Int("ticks", res.Ticks),
	}
	if res.Err != nil {
		fields = append(fields, logger.Error(res.Err))
	}
	s.logger.Info(ctx, "pick finished", fields...)
	return res
}

func (s *Service) pick(ctx context.Context, clientID string, locator locate.Locator, surface Surface) Result {
	if err := s.guard.Acquire(ctx, clientID); err != nil {
		surface.SetStatus(StatusBusy)
		return Result{Outcome: OutcomeBusy, Err: err}
	}
	defer s.guard.Release(ctx, clientID)

	surface.HideResult()
	surface.HideRoulette()
	surface.SetStatus(StatusLocating)

	center, err := locate.Within(locator, s.geoTimeout).Locate(ctx)
	if err != nil {
		out := locateOutcome(ctx, err)
		surface.SetStatus(out.Status())
		return Result{Outcome: out, Err: err}
	}

	surface.SetStatus(StatusSearching)
	if s.searcher == nil {
		surface.SetStatus(StatusSearchFailed)
		return Result{Outcome: OutcomeSearchFailed, Err: ErrNoSearcher}
	}
	candidates, err := s.searcher.SearchNearby(ctx, places.SearchRequest{
		Center:               center,
		RadiusMeters:         s.radius,
		IncludedPrimaryTypes: []string{s.includedType},
		MaxResultCount:       s.maxResults,
	})
	if err != nil {
		if ctx.Err() != nil {
			return Result{Outcome: OutcomeCancelled, Err: err}
		}
		surface.SetStatus(StatusSearchFailed)
		return Result{Outcome: OutcomeSearchFailed, Err: err}
	}
	if len(candidates) == 0 {
		surface.SetStatus(StatusNoResults)
		return Result{Outcome: OutcomeNoResults}
	}

	session, err := s.animator.NewSession(candidates)
	if err != nil {
		surface.SetStatus(StatusNoResults)
		return Result{Outcome: OutcomeNoResults, Err: err}
	}

	surface.SetStatus("")
	surface.ShowRoulette()
	var ticks int
	winner, err := session.Run(ctx, roulette.ObserverFuncs{
		Tick: func(seq int, c model.Candidate) {
			ticks = seq
			surface.ShowTick(seq, c.Name())
		},
	})
	surface.HideRoulette()
	if err != nil {
		return Result{Outcome: OutcomeCancelled, Ticks: ticks, Err: err}
	}

	card := s.presenter.Present(ctx, winner)
	surface.ShowResult(card)
	return Result{Outcome: OutcomeWinner, Winner: winner, Card: card, Ticks: ticks}
}

func locateOutcome(ctx context.Context, err error) Outcome {
	switch {
	case errors.Is(err, locate.ErrPermissionDenied):
		return OutcomePermissionDenied
	case errors.Is(err, locate.ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, locate.ErrUnsupported):
		return OutcomeUnsupported
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return OutcomeCancelled
	default:
		return OutcomeUnavailable
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outcomes := make(map[string]int64, len(Outcomes))
	var total int64
	for _, o := range Outcomes {
		outcomes[string(o)] = s.outcomes[o]
		total += s.outcomes[o]
	}

	return map[string]interface{}{
		"uptimeSeconds":      int64(time.Since(s.startedAt).Seconds()),
		"activeSessions":     s.guard.Size(),
		"picks":              total,
		"outcomes":           outcomes,
		"rouletteDurationMs": s.animator.Duration().Milliseconds(),
		"rouletteTickMs":     s.animator.TickInterval().Milliseconds(),
		"searchRadiusM":      s.radius,
		"maxResultCount":     s.maxResults,
	}
}
