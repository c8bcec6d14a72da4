package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/okian/lunchroulette/internal/domain/model"
)

// Event names on the pick stream.
const (
	eventStatus   = "status"
	eventRoulette = "roulette"
	eventTick     = "tick"
	eventResult   = "result"
	eventDone     = "done"
)

type statusEvent struct {
	Message string `json:"message"`
}

type rouletteEvent struct {
	Visible bool `json:"visible"`
}

type tickEvent struct {
	Seq  int    `json:"seq"`
	Name string `json:"name"`
}

type resultEvent struct {
	Visible bool        `json:"visible"`
	Card    *model.Card `json:"card,omitempty"`
}

type doneEvent struct {
	Outcome string `json:"outcome"`
	Ticks   int    `json:"ticks"`
}

// sseSurface renders a pick as Server-Sent Events. After the first failed
// write every further event is dropped; the request context ends the pick.
type sseSurface struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	err     error
}

func newSSESurface(w http.ResponseWriter, flusher http.Flusher) *sseSurface {
	return &sseSurface{w: w, flusher: flusher}
}

func (s *sseSurface) send(event string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.err = err
		return
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		s.err = err
		return
	}
	s.flusher.Flush()
}

func (s *sseSurface) SetStatus(msg string) { s.send(eventStatus, statusEvent{Message: msg}) }
func (s *sseSurface) ShowRoulette()        { s.send(eventRoulette, rouletteEvent{Visible: true}) }
func (s *sseSurface) HideRoulette()        { s.send(eventRoulette, rouletteEvent{Visible: false}) }
func (s *sseSurface) HideResult()          { s.send(eventResult, resultEvent{Visible: false}) }

func (s *sseSurface) ShowTick(seq int, name string) {
	s.send(eventTick, tickEvent{Seq: seq, Name: name})
}

func (s *sseSurface) ShowResult(card model.Card) {
	s.send(eventResult, resultEvent{Visible: true, Card: &card})
}

func (s *sseSurface) done(outcome string, ticks int) {
	s.send(eventDone, doneEvent{Outcome: outcome, Ticks: ticks})
}
