package roulette

import (
	"time"

	"github.com/okian/lunchroulette/pkg/logger"
)

// Option applies a configuration option to the Animator.
type Option func(*Animator)

// WithDuration sets how long a session animates before resolving.
func WithDuration(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.duration = d
		}
	}
}

// WithTickInterval sets the spacing between display updates.
func WithTickInterval(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.tick = d
		}
	}
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(a *Animator) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithRand replaces the random source used for every draw.
func WithRand(r Rand) Option {
	return func(a *Animator) {
		if r != nil {
			a.rng = r
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Animator) {
		if l != nil {
			a.logger = l
		}
	}
}
