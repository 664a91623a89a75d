// Package screen owns the state whose lifetime is one chat screen: the two
// action flag sets, a liveness generation and the error sink.
//
// Async work captures a Token when it starts. When the result comes back the
// token is used twice: to release the flags it acquired (always) and to decide
// whether UI side effects are still allowed (only while Alive).
package screen

import (
	"log/slog"

	"github.com/zhubert/scrollback/internal/actionstate"
	"github.com/zhubert/scrollback/internal/logger"
)

// InterfaceSet gates viewport mutation.
type InterfaceSet = actionstate.Set[actionstate.InterfaceAction]

// ControllerSet gates data loading.
type ControllerSet = actionstate.Set[actionstate.ControllerAction]

// ErrorSink receives failures that are surfaced to the user.
type ErrorSink func(err error)

// Screen is the owned state of one chat screen. It is not safe for concurrent
// use; every method runs on the update loop.
type Screen struct {
	iface      *InterfaceSet
	controller *ControllerSet
	generation uint64
	active     bool
	sink       ErrorSink
	errs       []error
	log        *slog.Logger
}

// New creates an inactive screen. A nil sink keeps reported errors until
// they are collected with TakeErrors.
func New(sink ErrorSink) *Screen {
	s := &Screen{
		sink: sink,
		log:  logger.WithComponent("screen"),
	}
	s.reset()
	return s
}

func (s *Screen) reset() {
	s.iface = actionstate.New[actionstate.InterfaceAction]("interface")
	s.controller = actionstate.New[actionstate.ControllerAction]("controller")
}

// Activate starts a new lifetime with fresh, empty flag sets. Tokens from an
// earlier lifetime stop being alive.
func (s *Screen) Activate() {
	if s.active {
		return
	}
	s.generation++
	s.reset()
	s.active = true
	s.log.Info("screen activated", "generation", s.generation)
}

// Deactivate ends the current lifetime. Pending reactions are dropped without
// firing; in-flight work still releases its flags through its token.
func (s *Screen) Deactivate() {
	if !s.active {
		return
	}
	s.active = false
	s.iface.Clear()
	s.controller.Clear()
	s.log.Info("screen deactivated", "generation", s.generation)
}

// Active reports whether the screen is between Activate and Deactivate.
func (s *Screen) Active() bool {
	return s.active
}

// Generation identifies the current lifetime. It grows with every Activate.
func (s *Screen) Generation() uint64 {
	return s.generation
}

// Interface returns the interface flag set of the current lifetime.
func (s *Screen) Interface() *InterfaceSet {
	return s.iface
}

// Controller returns the controller flag set of the current lifetime.
func (s *Screen) Controller() *ControllerSet {
	return s.controller
}

// Token captures the current lifetime.
func (s *Screen) Token() Token {
	return Token{
		screen:     s,
		generation: s.generation,
		iface:      s.iface,
		controller: s.controller,
	}
}

// Report sends err to the sink. Nil errors are ignored.
func (s *Screen) Report(err error) {
	if err == nil {
		return
	}
	s.log.Error("reported", "error", err)
	if s.sink != nil {
		s.sink(err)
		return
	}
	s.errs = append(s.errs, err)
}

// SetSink replaces the error sink.
func (s *Screen) SetSink(sink ErrorSink) {
	s.sink = sink
}

// TakeErrors returns and forgets errors reported while no sink was set.
func (s *Screen) TakeErrors() []error {
	errs := s.errs
	s.errs = nil
	return errs
}

// Token is a liveness handle captured when async work starts.
type Token struct {
	screen     *Screen
	generation uint64
	iface      *InterfaceSet
	controller *ControllerSet
}

// Alive reports whether the screen that issued the token is still in the same
// lifetime. The zero Token is never alive.
func (t Token) Alive() bool {
	return t.screen != nil && t.screen.active && t.screen.generation == t.generation
}

// Generation returns the lifetime the token was captured in.
func (t Token) Generation() uint64 {
	return t.generation
}

// ReleaseInterface removes flag from the set it was acquired in. It runs
// whether or not the token is alive.
func (t Token) ReleaseInterface(flag actionstate.InterfaceAction) {
	if t.iface != nil {
		t.iface.Remove(flag)
	}
}

// ReleaseController removes flag from the set it was acquired in. It runs
// whether or not the token is alive.
func (t Token) ReleaseController(flag actionstate.ControllerAction) {
	if t.controller != nil {
		t.controller.Remove(flag)
	}
}

// Report forwards err to the screen's sink if the token is alive and logs it
// otherwise.
func (t Token) Report(err error) {
	if err == nil {
		return
	}
	if !t.Alive() {
		logger.WithComponent("screen").Warn("dropped error from dead screen", "generation", t.generation, "error", err)
		return
	}
	t.screen.Report(err)
}
