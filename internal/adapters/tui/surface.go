// Package tui renders a pick on a terminal screen.
package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/okian/lunchroulette/internal/domain/model"
)

// Screen rows.
const (
	rowTitle    = 0
	rowStatus   = 2
	rowRoulette = 4
	rowResult   = 6
)

const (
	title    = "今天吃什麼？"
	quitHint = "按 q 或 Esc 離開"
)

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleRoulette = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed).Bold(true)
	styleWinner   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleHint     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Surface draws the status, roulette and result regions on a tcell screen.
// All methods are safe for concurrent use.
type Surface struct {
	mu     sync.Mutex
	screen tcell.Screen

	status   string
	spinning bool
	seq      int
	current  string
	card     *model.Card
}

// New returns a Surface drawing on an initialized screen.
func New(screen tcell.Screen) *Surface {
	s := &Surface{screen: screen}
	s.mu.Lock()
	s.draw()
	s.mu.Unlock()
	return s
}

func (s *Surface) SetStatus(msg string) {
	s.update(func() { s.status = msg })
}

func (s *Surface) ShowRoulette() {
	s.update(func() {
		s.spinning = true
		s.seq = 0
		s.current = ""
	})
}

func (s *Surface) HideRoulette() {
	s.update(func() { s.spinning = false })
}

func (s *Surface) ShowTick(seq int, name string) {
	s.update(func() {
		s.seq = seq
		s.current = name
	})
}

func (s *Surface) ShowResult(card model.Card) {
	s.update(func() { s.card = &card })
}

func (s *Surface) HideResult() {
	s.update(func() { s.card = nil })
}

func (s *Surface) update(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	s.draw()
}

// draw repaints everything. Callers hold s.mu.
func (s *Surface) draw() {
	s.screen.Clear()
	w, h := s.screen.Size()

	drawCentered(s.screen, rowTitle, w, title, styleTitle)
	drawText(s.screen, 1, rowStatus, w-1, s.status, styleStatus)

	if s.spinning && s.current != "" {
		drawCentered(s.screen, rowRoulette, w, "▶ "+s.current+" ◀", styleRoulette)
		drawText(s.screen, 1, rowRoulette+1, w-1, fmt.Sprintf("#%d", s.seq), styleHint)
	}

	if s.card != nil {
		drawText(s.screen, 1, rowResult, w-1, "🎉 "+s.card.Name, styleWinner)
		drawText(s.screen, 1, rowResult+1, w-1, "圖片："+s.card.ImageURL, styleDefault)
		drawText(s.screen, 1, rowResult+2, w-1, "地圖："+s.card.Link, styleDefault)
	}

	if h > rowResult+4 {
		drawText(s.screen, 1, h-1, w-1, quitHint, styleHint)
	}
	s.screen.Show()
}

// drawText writes text from x, truncated so it never passes maxX. Wide
// runes take two cells.
func drawText(screen tcell.Screen, x, y, maxX int, text string, style tcell.Style) {
	if maxX <= x {
		return
	}
	text = runewidth.Truncate(text, maxX-x, "…")
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func drawCentered(screen tcell.Screen, y, width int, text string, style tcell.Style) {
	x := (width - runewidth.StringWidth(text)) / 2
	if x < 0 {
		x = 0
	}
	drawText(screen, x, y, width, text, style)
}

// Wait blocks until the user quits with q, Esc or Ctrl-C, or ctx ends.
// Resizes repaint the screen.
func (s *Surface) Wait(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			s.mu.Lock()
			s.screen.Sync()
			s.draw()
			s.mu.Unlock()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
				return nil
			}
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}
