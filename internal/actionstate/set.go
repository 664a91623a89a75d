// Package actionstate tracks which coordinated operations are in flight and
// runs deferred reactions when that set becomes empty (or non-empty).
//
// A Set is owned by one execution context (the Bubble Tea update loop) and is
// not safe for concurrent use. Reactions may mutate the set they belong to;
// the drain loop tolerates that.
package actionstate

import (
	"log/slog"
	"slices"
	"time"

	"github.com/zhubert/scrollback/internal/logger"
)

// Trigger selects which transition fires a reaction.
type Trigger int

const (
	// OnEmpty fires when the last flag is removed.
	OnEmpty Trigger = iota
	// OnNonEmpty fires when the first flag is inserted.
	OnNonEmpty
)

func (t Trigger) String() string {
	if t == OnNonEmpty {
		return "onNonEmpty"
	}
	return "onEmpty"
}

// FireMode controls whether a reaction survives firing.
type FireMode int

const (
	// FireOnce reactions are dequeued right before their handler runs.
	FireOnce FireMode = iota
	// FireAlways reactions stay queued and fire on every matching transition.
	FireAlways
)

// ReactionID identifies a queued reaction.
type ReactionID uint64

// Handler receives the payload stored with its reaction.
type Handler func(payload any)

type reaction struct {
	id      ReactionID
	tag     string
	trigger Trigger
	mode    FireMode
	payload any
	handler Handler
	firing  bool
}

// Held describes one flag that is currently set.
type Held[T comparable] struct {
	Flag  T
	Since time.Time
}

// Set is a set of in-progress flags plus the queue of reactions waiting on it.
type Set[T comparable] struct {
	name      string
	held      map[T]time.Time
	order     []T
	reactions []*reaction
	nextID    ReactionID
	now       func() time.Time
	log       *slog.Logger
}

// New creates an empty set. The name only appears in logs.
func New[T comparable](name string) *Set[T] {
	return &Set[T]{
		name: name,
		held: make(map[T]time.Time),
		now:  time.Now,
		log:  logger.WithComponent("actionstate").With("set", name),
	}
}

// SetClock replaces the time source used to stamp flags.
func (s *Set[T]) SetClock(now func() time.Time) {
	s.now = now
}

// Name returns the name given to New.
func (s *Set[T]) Name() string {
	return s.name
}

// Insert marks flag as in progress. Inserting a held flag is a no-op.
func (s *Set[T]) Insert(flag T) {
	if _, ok := s.held[flag]; ok {
		return
	}
	wasEmpty := len(s.held) == 0
	s.held[flag] = s.now()
	s.order = append(s.order, flag)
	s.log.Debug("flag inserted", "flag", flag, "active", len(s.held))

	if wasEmpty {
		s.drain(OnNonEmpty)
	}
}

// Remove clears flag. Removing a flag that is not held is a no-op.
// If the set becomes empty, OnEmpty reactions fire before Remove returns.
func (s *Set[T]) Remove(flag T) {
	if _, ok := s.held[flag]; !ok {
		return
	}
	delete(s.held, flag)
	if i := slices.Index(s.order, flag); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.log.Debug("flag removed", "flag", flag, "active", len(s.held))

	if len(s.held) == 0 {
		s.drain(OnEmpty)
	}
}

// IsEmpty reports whether no flag is held.
func (s *Set[T]) IsEmpty() bool {
	return len(s.held) == 0
}

// Contains reports whether flag is held.
func (s *Set[T]) Contains(flag T) bool {
	_, ok := s.held[flag]
	return ok
}

// Len returns the number of held flags.
func (s *Set[T]) Len() int {
	return len(s.held)
}

// Flags returns the held flags in insertion order.
func (s *Set[T]) Flags() []T {
	return slices.Clone(s.order)
}

// HeldSince returns when flag was inserted.
func (s *Set[T]) HeldSince(flag T) (time.Time, bool) {
	t, ok := s.held[flag]
	return t, ok
}

// Stale returns the flags held for longer than timeout as of now.
func (s *Set[T]) Stale(now time.Time, timeout time.Duration) []Held[T] {
	var stale []Held[T]
	for _, flag := range s.order {
		since := s.held[flag]
		if now.Sub(since) > timeout {
			stale = append(stale, Held[T]{Flag: flag, Since: since})
		}
	}
	return stale
}

// AddReaction queues handler to run with payload on the next transition
// matching trigger. It never fires against the current state, even when the
// set already satisfies trigger.
func (s *Set[T]) AddReaction(trigger Trigger, mode FireMode, tag string, payload any, handler Handler) ReactionID {
	s.nextID++
	r := &reaction{
		id:      s.nextID,
		tag:     tag,
		trigger: trigger,
		mode:    mode,
		payload: payload,
		handler: handler,
	}
	s.reactions = append(s.reactions, r)
	s.log.Debug("reaction added", "id", r.id, "tag", tag, "trigger", trigger, "pending", len(s.reactions))
	return r.id
}

// UpsertReaction replaces the payload and handler of the queued reaction with
// the same tag and trigger, keeping its place in the queue. If there is none,
// it behaves like AddReaction. The second result reports whether an existing
// reaction was replaced.
func (s *Set[T]) UpsertReaction(trigger Trigger, mode FireMode, tag string, payload any, handler Handler) (ReactionID, bool) {
	for _, r := range s.reactions {
		if r.tag == tag && r.trigger == trigger {
			r.mode = mode
			r.payload = payload
			r.handler = handler
			s.log.Debug("reaction coalesced", "id", r.id, "tag", tag)
			return r.id, true
		}
	}
	return s.AddReaction(trigger, mode, tag, payload, handler), false
}

// RemoveReaction drops a queued reaction. Unknown ids are ignored.
func (s *Set[T]) RemoveReaction(id ReactionID) {
	if i := s.indexOf(id); i >= 0 {
		s.reactions = slices.Delete(s.reactions, i, i+1)
	}
}

// PendingReactions returns the number of queued reactions.
func (s *Set[T]) PendingReactions() int {
	return len(s.reactions)
}

// HasReaction reports whether a reaction with tag is queued.
func (s *Set[T]) HasReaction(tag string) bool {
	return slices.ContainsFunc(s.reactions, func(r *reaction) bool { return r.tag == tag })
}

// Clear drops every flag and reaction without firing anything.
func (s *Set[T]) Clear() {
	clear(s.held)
	s.order = nil
	s.reactions = nil
}

func (s *Set[T]) indexOf(id ReactionID) int {
	return slices.IndexFunc(s.reactions, func(r *reaction) bool { return r.id == id })
}

func (s *Set[T]) satisfies(trigger Trigger) bool {
	if trigger == OnEmpty {
		return len(s.held) == 0
	}
	return len(s.held) > 0
}

// drain runs the reactions that were queued for trigger at the moment of the
// transition, in registration order. Reactions added by handlers wait for the
// next transition. If a handler flips the set back, the rest stay queued.
func (s *Set[T]) drain(trigger Trigger) {
	var ids []ReactionID
	for _, r := range s.reactions {
		if r.trigger == trigger {
			ids = append(ids, r.id)
		}
	}
	if len(ids) == 0 {
		return
	}
	s.log.Debug("draining reactions", "trigger", trigger, "count", len(ids))

	for _, id := range ids {
		if !s.satisfies(trigger) {
			return
		}
		i := s.indexOf(id)
		if i < 0 {
			// Fired by a nested drain or removed by an earlier handler.
			continue
		}
		r := s.reactions[i]
		if r.firing {
			continue
		}
		if r.mode == FireOnce {
			s.reactions = slices.Delete(s.reactions, i, i+1)
		}
		r.firing = true
		r.handler(r.payload)
		r.firing = false
	}
}
