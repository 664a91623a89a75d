package coordinator

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/actionstate"
	"github.com/zhubert/scrollback/internal/layout"
	"github.com/zhubert/scrollback/internal/screen"
)

// FrameDidChangeMsg confirms that a composer frame change has finished.
type FrameDidChangeMsg struct {
	Frame layout.Span
	seq   uint64
}

// Keyboard keeps the transcript anchored while the composer grows, shrinks
// or hides.
type Keyboard struct {
	machine
	env      *env
	resizing bool
	seq      uint64
	token    screen.Token
}

// Resizing reports whether a composer frame change is in progress.
func (k *Keyboard) Resizing() bool {
	return k.resizing && k.token.Alive()
}

// FrameWillChange handles the composer announcing its next frame. Frames that
// do not overlap the transcript, or that leave the bottom inset unchanged,
// are ignored. Otherwise the inset changes with the bottom edge held in place
// and a FrameDidChangeMsg is scheduled after duration.
func (k *Keyboard) FrameWillChange(frame layout.Span, duration time.Duration) tea.Cmd {
	view := k.env.View
	vp := view.Span()
	if !frame.Intersects(vp) {
		k.log.Debug("frame outside transcript, ignored", "frame_y", frame.Y, "frame_h", frame.Height)
		return nil
	}
	inset := vp.Overlap(frame)
	if inset == view.BottomInset() {
		return nil
	}

	if !k.Resizing() {
		k.to(PhaseAcquiring)
		k.env.Screen.Interface().Insert(actionstate.ResizingForKeyboard)
		k.token = k.env.Screen.Token()
		k.resizing = true
	}
	k.to(PhaseWorking)

	snap, ok := view.Capture(layout.EdgeBottom)
	view.SetBottomInset(inset)
	if ok {
		view.Restore(snap)
	}

	k.seq++
	seq := k.seq
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return FrameDidChangeMsg{Frame: frame, seq: seq}
	})
}

// FrameDidChange releases the composer flag once the latest frame change has
// finished. Notifications for superseded changes, or with no change in
// progress, are ignored.
func (k *Keyboard) FrameDidChange(msg FrameDidChangeMsg) {
	if !k.resizing {
		k.log.Debug("did-change without resize in progress")
		return
	}
	if msg.seq != k.seq {
		return
	}
	k.to(PhaseReleasing)
	k.resizing = false
	k.token.ReleaseInterface(actionstate.ResizingForKeyboard)
	k.to(PhaseIdle)
}
