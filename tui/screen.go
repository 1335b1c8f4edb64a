// Package tui draws the full-screen install progress display: a title,
// a summary block, one checkbox per queued image, the current progress bar
// and a status block. It only renders what callers give it.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ErrInterrupted is returned when the user asks to stop.
var ErrInterrupted = errors.New("interrupted")

// Phase states.
const (
	Pending = iota
	Running
	Done
	Failed
	Skipped
)

type phase struct {
	label string
	state int
}

// Screen is the install progress display. Setters are safe to call from
// any goroutine; Draw renders the current state.
type Screen struct {
	mu   sync.Mutex
	s    tcell.Screen
	stop chan struct{}
	once sync.Once

	title   string
	summary []string
	phases  []phase
	percent float64
	detail  string
	status  []string
}

// New opens the terminal and starts listening for the stop keys.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(s)
}

// NewWithScreen uses an existing tcell screen, such as a simulation screen.
func NewWithScreen(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.DisableMouse()
	u := &Screen{s: s, stop: make(chan struct{})}
	go u.eventLoop()
	return u, nil
}

// Close restores the terminal.
func (u *Screen) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.s == nil {
		return
	}
	u.RequestStop()
	u.s.Fini()
	u.s = nil
}

// RequestStop signals that the user wants to stop. Safe to call repeatedly.
func (u *Screen) RequestStop() {
	u.once.Do(func() {
		close(u.stop)
		if u.s != nil {
			_ = u.s.PostEvent(tcell.NewEventInterrupt(nil))
		}
	})
}

// Stopped is closed once a stop has been requested.
func (u *Screen) Stopped() <-chan struct{} { return u.stop }

func (u *Screen) SetTitle(t string) {
	u.mu.Lock()
	u.title = t
	u.mu.Unlock()
}

func (u *Screen) SetSummary(lines ...string) {
	u.mu.Lock()
	u.summary = append([]string(nil), lines...)
	u.mu.Unlock()
}

// SetPhases replaces the queue with one pending entry per label.
func (u *Screen) SetPhases(labels ...string) {
	u.mu.Lock()
	u.phases = u.phases[:0]
	for _, l := range labels {
		u.phases = append(u.phases, phase{label: l})
	}
	u.mu.Unlock()
}

// SetPhaseState sets the state of the i-th phase; out of range is ignored.
func (u *Screen) SetPhaseState(i, state int) {
	u.mu.Lock()
	if i >= 0 && i < len(u.phases) {
		u.phases[i].state = state
	}
	u.mu.Unlock()
}

// SetProgress sets the bar percentage and the text shown beside it.
func (u *Screen) SetProgress(percent float64, detail string) {
	u.mu.Lock()
	u.percent, u.detail = percent, detail
	u.mu.Unlock()
}

// AddStatus appends a status line. Only the most recent lines are kept.
func (u *Screen) AddStatus(line string) {
	const keep = 50
	u.mu.Lock()
	u.status = append(u.status, line)
	if len(u.status) > keep {
		u.status = u.status[len(u.status)-keep:]
	}
	u.mu.Unlock()
}

// Draw redraws the whole screen.
func (u *Screen) Draw() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.s == nil {
		return
	}
	u.s.Clear()
	w, h := u.s.Size()
	y := 0

	if u.title != "" {
		putStr(u.s, 0, y, strings.Repeat("═", w))
		putStr(u.s, max(0, (w-len([]rune(u.title)))/2), y, u.title)
		y++
	}
	for _, line := range u.summary {
		if y >= h {
			break
		}
		putStr(u.s, 0, y, line)
		y++
	}

	if len(u.phases) > 0 && y < h {
		y = rule(u.s, y, w, " Queue ")
		for _, p := range u.phases {
			if y >= h {
				break
			}
			putStr(u.s, 0, y, fmt.Sprintf("[%c] %s", phaseMark(p.state), p.label))
			y++
		}
	}

	if y < h {
		y = rule(u.s, y, w, " Progress ")
		if y < h {
			label := fmt.Sprintf(" %6.2f%%", u.percent)
			putStr(u.s, 0, y, ProgressBar(w-len(label), u.percent)+label)
			y++
		}
		if u.detail != "" && y < h {
			putStr(u.s, 0, y, u.detail)
			y++
		}
	}

	if len(u.status) > 0 && y < h {
		y = rule(u.s, y, w, " Status ")
		lines := u.status
		if room := h - y; len(lines) > room {
			lines = lines[len(lines)-room:]
		}
		for _, line := range lines {
			putStr(u.s, 0, y, line)
			y++
		}
	}

	u.s.Show()
}

// ProgressBar renders percent as a bar of exactly width cells.
func ProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	percent = min(max(percent, 0), 100)
	filled := int(percent / 100 * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func phaseMark(state int) rune {
	switch state {
	case Running:
		return '>'
	case Done:
		return '✓'
	case Failed:
		return '✗'
	case Skipped:
		return '-'
	default:
		return ' '
	}
}

func rule(s tcell.Screen, y, w int, label string) int {
	putStr(s, 0, y, strings.Repeat("─", w))
	putStr(s, 2, y, label)
	return y + 1
}

func putStr(s tcell.Screen, x, y int, str string) {
	w, _ := s.Size()
	for i, r := range []rune(str) {
		if x+i >= w {
			break
		}
		s.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}

func (u *Screen) eventLoop() {
	for {
		select {
		case <-u.stop:
			return
		default:
		}
		u.mu.Lock()
		s := u.s
		u.mu.Unlock()
		if s == nil {
			return
		}
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyCtrlC, ev.Key() == tcell.KeyEscape:
				u.RequestStop()
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
				u.RequestStop()
			}
		case *tcell.EventResize:
			s.Sync()
			u.Draw()
		case *tcell.EventInterrupt, nil:
			return
		}
	}
}
