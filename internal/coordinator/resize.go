package coordinator

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/actionstate"
	"github.com/zhubert/scrollback/internal/layout"
	"github.com/zhubert/scrollback/internal/screen"
)

// ResizeSettledMsg marks the end of a resize transition.
type ResizeSettledMsg struct {
	seq   uint64
	token screen.Token
}

// Resize keeps the transcript anchored across window size changes.
type Resize struct {
	machine
	env *env
	seq uint64
}

// Resize applies a new transcript size with the bottom edge held in place.
// The flag stays held until the transition of the most recent resize ends.
func (r *Resize) Resize(width, height int) tea.Cmd {
	view := r.env.View

	r.to(PhaseAcquiring)
	r.env.Screen.Interface().Insert(actionstate.ResizingForFrameSize)
	tok := r.env.Screen.Token()
	r.to(PhaseWorking)

	snap, ok := view.Capture(layout.EdgeBottom)
	view.SetSize(width, height)
	view.Invalidate()
	if ok {
		view.Restore(snap)
	}

	r.seq++
	seq := r.seq
	return tea.Tick(r.env.Timing.Transition, func(time.Time) tea.Msg {
		return ResizeSettledMsg{seq: seq, token: tok}
	})
}

func (r *Resize) settled(msg ResizeSettledMsg) {
	if msg.seq != r.seq {
		return
	}
	r.to(PhaseReleasing)
	msg.token.ReleaseInterface(actionstate.ResizingForFrameSize)
	r.to(PhaseIdle)
}
