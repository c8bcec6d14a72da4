package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/lunchroulette/internal/adapters/places"
	"github.com/okian/lunchroulette/internal/domain/model"
)

type fakeSearcher struct {
	mu      sync.Mutex
	calls   int
	last    places.SearchRequest
	results []model.Candidate
	err     error
}

func (f *fakeSearcher) SearchNearby(_ context.Context, req places.SearchRequest) ([]model.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeSearcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeEnricher struct {
	details map[string]model.Details
	err     error
	calls   int
}

func (f *fakeEnricher) FetchDetails(_ context.Context, placeID string) (model.Details, error) {
	f.calls++
	if f.err != nil {
		return model.Details{}, f.err
	}
	d, ok := f.details[placeID]
	if !ok {
		return model.Details{}, fmt.Errorf("unknown place %q", placeID)
	}
	return d, nil
}

type fakePhotos struct {
	err       error
	lastWidth int
}

func (f *fakePhotos) PhotoURI(_ context.Context, photoName string, maxWidthPx int) (string, error) {
	f.lastWidth = maxWidthPx
	if f.err != nil {
		return "", f.err
	}
	return "https://img.example/" + photoName, nil
}

func candidates(n int) []model.Candidate {
	out := make([]model.Candidate, n)
	for i := range out {
		out[i] = model.Candidate{
			ID:          fmt.Sprintf("p%d", i+1),
			DisplayName: model.LocalizedText{Text: fmt.Sprintf("Restaurant %d", i+1)},
		}
	}
	return out
}
