// Package coordinator mediates the event sources that can move the
// transcript: loading, pagination, sending, the composer, window resizes and
// programmatic scrolling.
//
// Each coordinator acquires its flag in the screen's flag sets before doing
// anything asynchronous and returns a tea.Cmd whose result message comes back
// through Coordinators.Update. Results always release what was acquired; UI
// side effects only happen while the captured screen token is alive.
package coordinator

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/chat"
	"github.com/zhubert/scrollback/internal/layout"
	"github.com/zhubert/scrollback/internal/logger"
	"github.com/zhubert/scrollback/internal/pipeline"
	"github.com/zhubert/scrollback/internal/screen"
)

// View is the part of the transcript the coordinators drive directly.
type View interface {
	Capture(edge layout.Edge) (layout.Snapshot, bool)
	Restore(s layout.Snapshot) bool
	Invalidate()

	// Span is the screen rows the transcript occupies, including the rows the
	// composer may cover.
	Span() layout.Span
	BottomInset() int
	SetBottomInset(lines int)
	SetSize(width, height int)

	Offset() int
	SetOffset(offset int)
	MaxOffset() int
}

// Timing holds the durations the coordinators wait for.
type Timing struct {
	SendDelay        time.Duration // lets the composer start collapsing before the send
	Transition       time.Duration // how long a resize transition lasts
	ScrollInterval   time.Duration // time between animated scroll steps
	ScrollStep       int           // minimum lines per scroll step
	StuckTimeout     time.Duration // a flag held longer than this is reported
	WatchdogInterval time.Duration // zero disables the watchdog
}

// DefaultTiming returns the timing used when nothing is configured.
func DefaultTiming() Timing {
	return Timing{
		SendDelay:        120 * time.Millisecond,
		Transition:       150 * time.Millisecond,
		ScrollInterval:   16 * time.Millisecond,
		ScrollStep:       2,
		StuckTimeout:     10 * time.Second,
		WatchdogInterval: 2 * time.Second,
	}
}

// Deps are the collaborators shared by every coordinator.
type Deps struct {
	Screen     *screen.Screen
	Pipeline   *pipeline.Pipeline
	Controller chat.Controller
	View       View
	Timing     Timing
}

type env struct {
	ctx context.Context
	Deps
}

// Phase is where a coordinator is in its cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAcquiring
	PhaseWorking
	PhaseReleasing
)

func (p Phase) String() string {
	switch p {
	case PhaseAcquiring:
		return "acquiring"
	case PhaseWorking:
		return "working"
	case PhaseReleasing:
		return "releasing"
	default:
		return "idle"
	}
}

// machine is the phase bookkeeping shared by the coordinators.
type machine struct {
	phase Phase
	log   *slog.Logger
}

func newMachine(name string) machine {
	return machine{log: logger.WithComponent("coordinator." + name)}
}

// Phase returns the current phase.
func (m *machine) Phase() Phase {
	return m.phase
}

func (m *machine) to(p Phase) {
	if m.phase != p {
		m.log.Debug("phase", "from", m.phase, "to", p)
	}
	m.phase = p
}

// Coordinators bundles one coordinator per event source.
type Coordinators struct {
	Initial    *Initial
	Pagination *Pagination
	Send       *Send
	Keyboard   *Keyboard
	Resize     *Resize
	Scroll     *Scroll
	Watchdog   *Watchdog
}

// New wires the coordinators. ctx bounds every controller call.
func New(ctx context.Context, deps Deps) *Coordinators {
	e := &env{ctx: ctx, Deps: deps}
	initial := &Initial{machine: newMachine("initial"), env: e}
	pagination := &Pagination{machine: newMachine("pagination"), env: e, initial: initial}
	return &Coordinators{
		Initial:    initial,
		Pagination: pagination,
		Send:       &Send{machine: newMachine("send"), env: e},
		Keyboard:   &Keyboard{machine: newMachine("keyboard"), env: e},
		Resize:     &Resize{machine: newMachine("resize"), env: e},
		Scroll:     &Scroll{machine: newMachine("scroll"), env: e, pagination: pagination},
		Watchdog:   &Watchdog{env: e, reported: make(map[string]time.Time), log: logger.WithComponent("coordinator.watchdog")},
	}
}

// Update routes result messages back to the coordinator that issued them.
// The second result reports whether msg belonged to a coordinator.
func (c *Coordinators) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case InitialLoadedMsg:
		return c.Initial.loaded(msg), true
	case PageLoadedMsg:
		return c.Pagination.loaded(msg), true
	case sendDelayElapsedMsg:
		return c.Send.delayElapsed(msg), true
	case SentMsg:
		return c.Send.sent(msg), true
	case FrameDidChangeMsg:
		c.Keyboard.FrameDidChange(msg)
		return nil, true
	case ResizeSettledMsg:
		c.Resize.settled(msg)
		return nil, true
	case ScrollStepMsg:
		return c.Scroll.step(msg), true
	case WatchdogTickMsg:
		return c.Watchdog.check(msg), true
	}
	return nil, false
}

// Busy lists the coordinators that are not idle, for the status line.
func (c *Coordinators) Busy() []string {
	var busy []string
	for _, m := range []struct {
		name  string
		phase Phase
	}{
		{"initial", c.Initial.Phase()},
		{"pagination", c.Pagination.Phase()},
		{"send", c.Send.Phase()},
		{"keyboard", c.Keyboard.Phase()},
		{"resize", c.Resize.Phase()},
		{"scroll", c.Scroll.Phase()},
	} {
		if m.phase != PhaseIdle {
			busy = append(busy, m.name)
		}
	}
	return busy
}
