package coordinator

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/actionstate"
	"github.com/zhubert/scrollback/internal/content"
	"github.com/zhubert/scrollback/internal/errors"
	"github.com/zhubert/scrollback/internal/screen"
)

const opSend errors.Op = "coordinator.Send"

type sendDelayElapsedMsg struct {
	text  string
	token screen.Token
}

// SentMsg carries the result of sending a message.
type SentMsg struct {
	Snapshot content.Snapshot
	Err      error
	token    screen.Token
}

// Send delivers composer text to the controller.
type Send struct {
	machine
	env *env
}

// InFlight reports whether a send is between acquire and release.
func (s *Send) InFlight() bool {
	return s.env.Screen.Interface().Contains(actionstate.SendingMessage)
}

// Send starts sending text. Blank text is rejected with a KindInvalid error
// and nothing is acquired. A send while another is in flight returns nil.
func (s *Send) Send(text string) (tea.Cmd, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.EmptyMessage()
	}
	if s.InFlight() {
		s.log.Debug("ignored, send in flight")
		return nil, nil
	}

	s.to(PhaseAcquiring)
	s.env.Screen.Interface().Insert(actionstate.SendingMessage)
	tok := s.env.Screen.Token()
	s.to(PhaseWorking)

	return tea.Tick(s.env.Timing.SendDelay, func(time.Time) tea.Msg {
		return sendDelayElapsedMsg{text: text, token: tok}
	}), nil
}

func (s *Send) delayElapsed(msg sendDelayElapsedMsg) tea.Cmd {
	if !msg.token.Alive() {
		s.release(msg.token)
		return nil
	}

	ctx, controller, tok := s.env.ctx, s.env.Controller, msg.token
	return func() tea.Msg {
		snap, err := controller.SendMessage(ctx, msg.text)
		return SentMsg{Snapshot: snap, Err: err, token: tok}
	}
}

func (s *Send) sent(msg SentMsg) tea.Cmd {
	s.release(msg.token)

	if msg.Err != nil {
		msg.token.Report(errors.FetchFailed(opSend, msg.Err))
		return nil
	}
	if !msg.token.Alive() {
		return nil
	}

	// A reply pushed while the send was in flight is newer than this
	// snapshot; the pipeline keeps it and still scrolls to the bottom.
	view := s.env.View
	s.env.Pipeline.ApplySnapshot(msg.Snapshot, true, func() {
		view.SetOffset(view.MaxOffset())
	})
	return nil
}

func (s *Send) release(tok screen.Token) {
	s.to(PhaseReleasing)
	tok.ReleaseInterface(actionstate.SendingMessage)
	s.to(PhaseIdle)
}
