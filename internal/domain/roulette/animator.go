// Package roulette implements the timed random selection animation.
//
// A Session repeatedly shows a uniformly drawn candidate at every tick until
// the configured duration has elapsed, then draws the winner independently
// and reports it once. The winner is not tied to the last displayed name.
package roulette

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/lunchroulette/internal/domain/model"
	"github.com/okian/lunchroulette/pkg/logger"
	"github.com/okian/lunchroulette/pkg/metrics"
)

// Default animation timing.
const (
	DefaultDuration     = 5000 * time.Millisecond
	DefaultTickInterval = 100 * time.Millisecond
)

// Observer receives the session's side effects.
type Observer interface {
	// OnTick is called for every display update, seq starts at 1.
	OnTick(seq int, c model.Candidate)
	// OnWinner is called exactly once, after the last OnTick.
	OnWinner(c model.Candidate)
}

// ObserverFuncs adapts plain functions to Observer. Nil funcs are skipped.
type ObserverFuncs struct {
	Tick   func(seq int, c model.Candidate)
	Winner func(c model.Candidate)
}

func (o ObserverFuncs) OnTick(seq int, c model.Candidate) {
	if o.Tick != nil {
		o.Tick(seq, c)
	}
}

func (o ObserverFuncs) OnWinner(c model.Candidate) {
	if o.Winner != nil {
		o.Winner(c)
	}
}

// Animator creates animation sessions sharing timing, clock and randomness.
type Animator struct {
	duration time.Duration
	tick     time.Duration
	clock    Clock
	rng      Rand
	logger   logger.Logger
}

// New constructs an Animator with default 5s duration and 100ms ticks.
func New(opts ...Option) *Animator {
	a := &Animator{
		duration: DefaultDuration,
		tick:     DefaultTickInterval,
		clock:    SystemClock(),
		rng:      NewRand(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Get().Named("roulette")
	}
	return a
}

// Duration returns the configured animation length.
func (a *Animator) Duration() time.Duration { return a.duration }

// TickInterval returns the configured tick spacing.
func (a *Animator) TickInterval() time.Duration { return a.tick }

// ExpectedTicks is the number of display updates a session emits on a steady clock.
func (a *Animator) ExpectedTicks() int { return int(a.duration / a.tick) }

// NewSession prepares a session over a private copy of candidates.
func (a *Animator) NewSession(candidates []model.Candidate) (*Session, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	set := make([]model.Candidate, len(candidates))
	copy(set, candidates)
	return &Session{
		id:         uuid.NewString(),
		animator:   a,
		candidates: set,
	}, nil
}

// Session is one run of the animation. It owns its ticker and stops it once.
type Session struct {
	id         string
	animator   *Animator
	candidates []model.Candidate

	ran      atomic.Bool
	ticker   Ticker
	stopOnce sync.Once
	ticks    int
}

// ID identifies the session in logs and streams.
func (s *Session) ID() string { return s.id }

// Size returns the number of candidates in the session.
func (s *Session) Size() int { return len(s.candidates) }

// Run animates until the duration elapses and returns the winner.
// Ticks whose time is past the duration emit no display update; they stop
// the ticker, draw the winner and call obs.OnWinner. If ctx ends first the
// ticker is stopped, no winner is reported and ctx.Err() is returned.
func (s *Session) Run(ctx context.Context, obs Observer) (model.Candidate, error) {
	if !s.ran.CompareAndSwap(false, true) {
		return model.Candidate{}, ErrSessionUsed
	}
	a := s.animator

	start := a.clock.Now()
	s.ticker = a.clock.NewTicker(a.tick)
	defer s.stop()

	metrics.IncActiveSessions()
	defer metrics.DecActiveSessions()

	a.logger.Debug(ctx, "roulette session started",
		logger.String("session", s.id),
		logger.Int("candidates", len(s.candidates)),
		logger.Int("duration_ms", int(a.duration.Milliseconds())),
		logger.Int("tick_ms", int(a.tick.Milliseconds())),
	)

	ticks := s.ticker.C()
	for {
		select {
		case <-ctx.Done():
			s.stop()
			metrics.RecordRouletteAborted()
			a.logger.Debug(ctx, "roulette session cancelled",
				logger.String("session", s.id), logger.Int("ticks", s.ticks))
			return model.Candidate{}, fmt.Errorf("roulette session %s: %w", s.id, ctx.Err())

		case now := <-ticks:
			if now.Sub(start) > a.duration {
				s.stop()
				winner := s.draw()
				metrics.RecordRouletteWinner()
				a.logger.Debug(ctx, "roulette session resolved",
					logger.String("session", s.id),
					logger.Int("ticks", s.ticks),
					logger.String("winner", winner.ID),
				)
				obs.OnWinner(winner)
				return winner, nil
			}
			s.ticks++
			metrics.RecordRouletteTick()
			obs.OnTick(s.ticks, s.draw())
		}
	}
}

func (s *Session) draw() model.Candidate {
	return s.candidates[s.animator.rng.Intn(len(s.candidates))]
}

func (s *Session) stop() {
	s.stopOnce.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
	})
}
