package service_test

import (
	"fmt"
	"sync"

	"github.com/okian/lunchroulette/internal/domain/model"
)

// recorder is an in-memory Surface.
type recorder struct {
	mu       sync.Mutex
	events   []string
	statuses []string
	ticks    []int
	names    []string
	results  []model.Card
	onTick   func(seq int)
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) SetStatus(msg string) {
	r.mu.Lock()
	r.statuses = append(r.statuses, msg)
	r.mu.Unlock()
	r.add("status:" + msg)
}

func (r *recorder) ShowRoulette() { r.add("roulette:show") }
func (r *recorder) HideRoulette() { r.add("roulette:hide") }
func (r *recorder) HideResult()   { r.add("result:hide") }

func (r *recorder) ShowTick(seq int, name string) {
	r.mu.Lock()
	r.ticks = append(r.ticks, seq)
	r.names = append(r.names, name)
	hook := r.onTick
	r.mu.Unlock()
	r.add(fmt.Sprintf("tick:%d", seq))
	if hook != nil {
		hook(seq)
	}
}

func (r *recorder) ShowResult(card model.Card) {
	r.mu.Lock()
	r.results = append(r.results, card)
	r.mu.Unlock()
	r.add("result:show")
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func (r *recorder) lastStatus() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return ""
	}
	return r.statuses[len(r.statuses)-1]
}
