package coordinator

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/actionstate"
	"github.com/zhubert/scrollback/internal/screen"
)

// Direction is the target of an animated scroll.
type Direction int

const (
	ToTop Direction = iota
	ToBottom
)

func (d Direction) flag() actionstate.InterfaceAction {
	if d == ToTop {
		return actionstate.ScrollingToTop
	}
	return actionstate.ScrollingToBottom
}

// ScrollStepMsg advances an animated scroll.
type ScrollStepMsg struct {
	seq uint64
}

// Scroll animates the transcript to its top or bottom edge.
type Scroll struct {
	machine
	env        *env
	pagination *Pagination

	active bool
	dir    Direction
	seq    uint64
	token  screen.Token
}

// Scrolling reports whether an animation is running and in which direction.
func (s *Scroll) Scrolling() (Direction, bool) {
	return s.dir, s.active
}

// ScrollToTop animates to the oldest loaded item, then loads the previous page.
func (s *Scroll) ScrollToTop() tea.Cmd {
	return s.start(ToTop)
}

// ScrollToBottom animates to the newest item.
func (s *Scroll) ScrollToBottom() tea.Cmd {
	return s.start(ToBottom)
}

// Cancel stops a running animation where it is, releasing its flag.
func (s *Scroll) Cancel() {
	if s.active {
		s.stop()
	}
}

func (s *Scroll) start(dir Direction) tea.Cmd {
	if s.active {
		if s.dir == dir && s.token.Alive() {
			return nil
		}
		s.stop()
	}

	s.to(PhaseAcquiring)
	s.env.Screen.Interface().Insert(dir.flag())
	s.token = s.env.Screen.Token()
	s.active = true
	s.dir = dir
	s.seq++
	s.to(PhaseWorking)
	return s.tick()
}

func (s *Scroll) tick() tea.Cmd {
	seq := s.seq
	return tea.Tick(s.env.Timing.ScrollInterval, func(time.Time) tea.Msg {
		return ScrollStepMsg{seq: seq}
	})
}

func (s *Scroll) step(msg ScrollStepMsg) tea.Cmd {
	if !s.active || msg.seq != s.seq {
		return nil
	}
	if !s.token.Alive() {
		s.stop()
		return nil
	}

	view := s.env.View
	target := 0
	if s.dir == ToBottom {
		target = view.MaxOffset()
	}
	offset := view.Offset()
	dist := target - offset
	if dist < 0 {
		dist = -dist
	}

	// Ease out: cover a third of the remaining distance per step.
	step := max(s.env.Timing.ScrollStep, dist/3, 1)
	if dist <= step {
		view.SetOffset(target)
		return s.finish()
	}
	if target < offset {
		step = -step
	}
	view.SetOffset(offset + step)
	return s.tick()
}

func (s *Scroll) finish() tea.Cmd {
	dir := s.dir
	s.stop()
	if dir == ToTop {
		return s.pagination.LoadPrevious()
	}
	return nil
}

func (s *Scroll) stop() {
	s.to(PhaseReleasing)
	s.active = false
	s.seq++
	s.token.ReleaseInterface(s.dir.flag())
	s.to(PhaseIdle)
}
