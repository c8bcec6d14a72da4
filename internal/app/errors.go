package service

import "errors"

// ErrNoSearcher is returned when a pick reaches the search step without a Searcher.
var ErrNoSearcher = errors.New("no place searcher configured")
