package roulette

import "errors"

// Sentinel kinds for animator errors.
var (
	ErrNoCandidates = errors.New("roulette needs at least one candidate")
	ErrSessionUsed  = errors.New("roulette session already ran")
)
