// Package pipeline applies new transcript snapshots to the rendering surface.
//
// Every snapshot, whether it comes from a local action or is pushed by the
// chat controller, goes through Pipeline.Apply. While any interface action is
// in flight the surface is left alone and only the most recent target is kept;
// it is applied once the interface flag set empties.
//
// Controller snapshots carry a revision. A snapshot older than the current or
// pending target is dropped, so a late load or send result cannot hide a
// message that was pushed after it.
package pipeline

import (
	"log/slog"

	"github.com/zhubert/scrollback/internal/actionstate"
	"github.com/zhubert/scrollback/internal/content"
	"github.com/zhubert/scrollback/internal/layout"
	"github.com/zhubert/scrollback/internal/logger"
	"github.com/zhubert/scrollback/internal/screen"
)

// applyTag identifies the single deferred apply in the interface reaction queue.
const applyTag = "apply"

// Surface is the rendering surface a changeset is applied to.
type Surface interface {
	// Active reports whether the surface is on screen and laid out.
	Active() bool
	// Apply reconciles the surface to groups using cs. It calls done once the
	// surface has finished, which may be after an animation.
	Apply(cs content.Changeset, groups []content.Group, animated bool, done func())
	// Reload replaces everything on the surface without animation.
	Reload(groups []content.Group)
	// Interacting reports whether the reader is away from the live bottom of
	// the transcript.
	Interacting() bool
}

// Positioner captures and restores the reader's position.
type Positioner interface {
	CaptureLast() (layout.Snapshot, bool)
	Restore(s layout.Snapshot) bool
}

type request struct {
	groups     []content.Group
	animated   bool
	onComplete []func()
}

func (r *request) done() {
	for _, fn := range r.onComplete {
		fn()
	}
}

// Pipeline owns the authoritative snapshot of the transcript.
type Pipeline struct {
	screen   *screen.Screen
	surface  Surface
	position Positioner

	current  []content.Group
	revision uint64
	pending  *request

	log *slog.Logger
}

// New creates a pipeline gated on the interface flags of s.
func New(s *screen.Screen, surface Surface, position Positioner) *Pipeline {
	return &Pipeline{
		screen:   s,
		surface:  surface,
		position: position,
		log:      logger.WithComponent("pipeline"),
	}
}

// Current returns the authoritative snapshot. Callers must not modify it.
func (p *Pipeline) Current() []content.Group {
	return p.current
}

// Pending returns the deferred target, if one is waiting for the interface
// flags to clear.
func (p *Pipeline) Pending() ([]content.Group, bool) {
	if !p.hasPending() {
		return nil, false
	}
	return p.pending.groups, true
}

func (p *Pipeline) hasPending() bool {
	// The reaction disappears when the screen is torn down; the request goes
	// with it.
	if p.pending != nil && !p.screen.Interface().HasReaction(applyTag) {
		p.pending = nil
	}
	return p.pending != nil
}

// Revision returns the newest controller revision accepted so far, whether
// it is displayed or still pending.
func (p *Pipeline) Revision() uint64 {
	return p.revision
}

// Superseded reports whether a snapshot stamped rev is older than one the
// pipeline already accepted. Unversioned snapshots are never superseded.
func (p *Pipeline) Superseded(rev uint64) bool {
	return rev != 0 && rev < p.revision
}

// ContentUpdated is the push path from the chat controller.
func (p *Pipeline) ContentUpdated(s content.Snapshot) {
	p.ApplySnapshot(s, true, nil)
}

// ApplySnapshot applies a controller snapshot. A superseded snapshot is
// dropped; onComplete still runs, once the newer target has been applied.
func (p *Pipeline) ApplySnapshot(s content.Snapshot, animated bool, onComplete func()) {
	if p.Superseded(s.Revision) {
		p.log.Debug("superseded snapshot dropped", "revision", s.Revision, "latest", p.revision)
		if onComplete == nil {
			return
		}
		if p.hasPending() {
			p.pending.onComplete = append(p.pending.onComplete, onComplete)
			return
		}
		onComplete()
		return
	}
	p.revision = max(p.revision, s.Revision)
	p.Apply(s.Groups, animated, onComplete)
}

// Apply makes groups the displayed snapshot. onComplete may be nil.
func (p *Pipeline) Apply(groups []content.Group, animated bool, onComplete func()) {
	req := &request{groups: groups, animated: animated}
	if onComplete != nil {
		req.onComplete = append(req.onComplete, onComplete)
	}

	if !p.surface.Active() {
		p.current = groups
		p.log.Debug("surface inactive, snapshot stored", "groups", len(groups))
		req.done()
		return
	}

	iface := p.screen.Interface()
	if !iface.IsEmpty() {
		p.deferApply(req)
		return
	}

	p.run(req)
}

func (p *Pipeline) deferApply(req *request) {
	if p.hasPending() {
		// Last write wins; earlier callers still hear about completion.
		req.onComplete = append(p.pending.onComplete, req.onComplete...)
	}
	p.pending = req

	iface := p.screen.Interface()
	_, coalesced := iface.UpsertReaction(actionstate.OnEmpty, actionstate.FireOnce, applyTag, req, p.flush)
	p.log.Debug("apply deferred", "blocked_by", iface.Flags(), "coalesced", coalesced, "groups", len(req.groups))
}

func (p *Pipeline) flush(payload any) {
	req, ok := payload.(*request)
	if !ok || req != p.pending {
		return
	}
	p.pending = nil
	if !p.surface.Active() {
		p.current = req.groups
		req.done()
		return
	}
	p.run(req)
}

func (p *Pipeline) run(req *request) {
	cs := content.Diff(p.current, req.groups)
	p.current = req.groups

	if cs.IsEmpty() {
		p.log.Debug("nothing changed")
		req.done()
		return
	}

	if cs.HasLeadingInsertions() && p.surface.Interacting() {
		snap, ok := p.position.CaptureLast()
		p.surface.Reload(req.groups)
		if ok {
			p.position.Restore(snap)
		}
		p.log.Debug("leading insert while interacting, reloaded", "changes", cs.String(), "anchored", ok)
		req.done()
		return
	}

	p.log.Debug("applying changeset", "changes", cs.String(), "animated", req.animated)
	p.surface.Apply(cs, req.groups, req.animated, req.done)
}
