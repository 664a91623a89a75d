package coordinator

import (
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/actionstate"
	"github.com/zhubert/scrollback/internal/content"
	"github.com/zhubert/scrollback/internal/errors"
	"github.com/zhubert/scrollback/internal/screen"
)

const (
	opInitialLoad  errors.Op = "coordinator.InitialLoad"
	opLoadPrevious errors.Op = "coordinator.LoadPrevious"
)

// InitialLoadedMsg carries the result of the first load.
type InitialLoadedMsg struct {
	Snapshot content.Snapshot
	Err      error
	token    screen.Token
}

// PageLoadedMsg carries the result of loading older history.
type PageLoadedMsg struct {
	Snapshot content.Snapshot
	Err      error
	token    screen.Token
}

// Initial loads the first batch when the screen activates.
type Initial struct {
	machine
	env  *env
	done lifetimeFlag
}

// Done reports whether the first batch was loaded successfully in the
// screen's current lifetime.
func (c *Initial) Done() bool {
	return c.done.get(c.env.Screen)
}

// Start fetches the first batch. It is a no-op while a load is in flight or
// once one has succeeded, so it can also be used to retry after a failure.
func (c *Initial) Start() tea.Cmd {
	ctl := c.env.Screen.Controller()
	if c.Done() || ctl.Contains(actionstate.LoadingInitialBatch) {
		return nil
	}

	c.to(PhaseAcquiring)
	ctl.Insert(actionstate.LoadingInitialBatch)
	tok := c.env.Screen.Token()
	c.to(PhaseWorking)

	ctx, controller := c.env.ctx, c.env.Controller
	return func() tea.Msg {
		snap, err := controller.LoadInitialMessages(ctx)
		return InitialLoadedMsg{Snapshot: snap, Err: err, token: tok}
	}
}

func (c *Initial) loaded(msg InitialLoadedMsg) tea.Cmd {
	c.to(PhaseReleasing)
	defer c.to(PhaseIdle)
	msg.token.ReleaseController(actionstate.LoadingInitialBatch)

	if msg.Err != nil {
		msg.token.Report(errors.FetchFailed(opInitialLoad, msg.Err))
		return nil
	}
	if !msg.token.Alive() {
		c.log.Debug("screen gone, dropping initial batch")
		return nil
	}

	c.done.set(msg.token)
	view := c.env.View
	c.env.Pipeline.ApplySnapshot(msg.Snapshot, false, func() {
		view.SetOffset(view.MaxOffset())
	})
	c.log.Info("initial batch applied", "items", content.CountItems(msg.Snapshot.Groups), "revision", msg.Snapshot.Revision)
	return nil
}

// Pagination loads older history. LoadPrevious is its only entry point; both
// "reached the top edge" and "scroll to top finished" go through it.
type Pagination struct {
	machine
	env       *env
	initial   *Initial
	exhausted lifetimeFlag
}

// Exhausted reports whether a page came back without older items in the
// screen's current lifetime.
func (p *Pagination) Exhausted() bool {
	return p.exhausted.get(p.env.Screen)
}

// LoadPrevious starts loading the previous page. It returns nil when a page is
// already loading, the first batch has not arrived yet, or history is
// exhausted.
func (p *Pagination) LoadPrevious() tea.Cmd {
	ctl := p.env.Screen.Controller()
	switch {
	case !p.initial.Done():
		p.log.Debug("ignored, initial batch not loaded")
		return nil
	case ctl.Contains(actionstate.LoadingOlderBatch):
		p.log.Debug("ignored, already loading")
		return nil
	case p.Exhausted():
		return nil
	}

	p.to(PhaseAcquiring)
	ctl.Insert(actionstate.LoadingOlderBatch)
	tok := p.env.Screen.Token()
	p.to(PhaseWorking)

	ctx, controller := p.env.ctx, p.env.Controller
	return func() tea.Msg {
		snap, err := controller.LoadPreviousMessages(ctx)
		return PageLoadedMsg{Snapshot: snap, Err: err, token: tok}
	}
}

func (p *Pagination) loaded(msg PageLoadedMsg) tea.Cmd {
	p.to(PhaseReleasing)
	defer p.to(PhaseIdle)
	msg.token.ReleaseController(actionstate.LoadingOlderBatch)

	if msg.Err != nil {
		msg.token.Report(errors.FetchFailed(opLoadPrevious, msg.Err))
		return nil
	}
	if !msg.token.Alive() {
		return nil
	}

	// A newer snapshot already holds this page, so it says nothing about
	// whether history is exhausted.
	if p.env.Pipeline.Superseded(msg.Snapshot.Revision) {
		p.log.Debug("page superseded", "revision", msg.Snapshot.Revision)
		return nil
	}
	if !p.addsOlder(msg.Snapshot.Groups) {
		p.exhausted.set(msg.token)
		p.log.Info("history exhausted")
		return nil
	}
	p.env.Pipeline.ApplySnapshot(msg.Snapshot, true, nil)
	return nil
}

// addsOlder reports whether the oldest item of next is new, measured against
// the latest target the pipeline knows about.
func (p *Pagination) addsOlder(next []content.Group) bool {
	base, ok := p.env.Pipeline.Pending()
	if !ok {
		base = p.env.Pipeline.Current()
	}
	for _, g := range next {
		if len(g.Items) > 0 {
			_, known := content.FindItem(base, g.Items[0].ID)
			return !known
		}
	}
	return false
}

// lifetimeFlag is a bool that only holds for the screen lifetime it was set
// in. Reactivating the screen clears it.
type lifetimeFlag struct {
	on         bool
	generation uint64
}

func (f *lifetimeFlag) get(s *screen.Screen) bool {
	return f.on && f.generation == s.Generation()
}

// set raises the flag for the lifetime tok was captured in.
func (f *lifetimeFlag) set(tok screen.Token) {
	f.on, f.generation = true, tok.Generation()
}
