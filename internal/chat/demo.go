package chat

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zhubert/scrollback/internal/content"
	"github.com/zhubert/scrollback/internal/logger"
)

// ErrInjected is returned by the demo controller when failure injection
// triggers.
var ErrInjected = errors.New("injected failure")

// LocalAuthor is the author name used for messages sent through the demo.
const LocalAuthor = "you"

// DemoOptions configures the demo controller.
type DemoOptions struct {
	Pages      int           // pages of history, including the first one shown
	PageSize   int           // messages per page
	Latency    time.Duration // delay before every load or send returns
	ReplyDelay time.Duration // delay before the echo reply is pushed
	FailRate   float64       // probability in [0,1] that a call fails
	Seed       uint64
	Now        func() time.Time
}

// DefaultDemoOptions returns the options used when nothing is configured.
func DefaultDemoOptions() DemoOptions {
	return DemoOptions{
		Pages:      5,
		PageSize:   20,
		Latency:    400 * time.Millisecond,
		ReplyDelay: 1200 * time.Millisecond,
		Seed:       1,
	}
}

// Demo is an in-memory Controller with generated, paged history and an echo
// responder.
type Demo struct {
	opts DemoOptions

	mu      sync.Mutex
	items   []content.Item // oldest first
	first   int            // index of the oldest item handed out
	rev     uint64
	rng     *rand.Rand
	updates chan content.Snapshot
	done    chan struct{}
	closed  bool
	wg      sync.WaitGroup

	log *slog.Logger
}

// NewDemo creates a demo controller. Zero fields in opts fall back to
// DefaultDemoOptions, except FailRate and the delays.
func NewDemo(opts DemoOptions) *Demo {
	def := DefaultDemoOptions()
	if opts.Pages <= 0 {
		opts.Pages = def.Pages
	}
	if opts.PageSize <= 0 {
		opts.PageSize = def.PageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	d := &Demo{
		opts:    opts,
		rng:     rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		updates: make(chan content.Snapshot, 8),
		done:    make(chan struct{}),
		log:     logger.WithComponent("chat.demo"),
	}
	d.items = generateHistory(d.rng, opts.Now(), opts.Pages*opts.PageSize)
	d.first = len(d.items)
	return d
}

// LoadInitialMessages returns the newest page.
func (d *Demo) LoadInitialMessages(ctx context.Context) (content.Snapshot, error) {
	if err := d.wait(ctx); err != nil {
		return content.Snapshot{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.first = max(0, len(d.items)-d.opts.PageSize)
	d.log.Debug("initial page", "from", d.first, "total", len(d.items))
	return d.snapshotLocked(), nil
}

// LoadPreviousMessages reveals one more page of older history. When history
// is exhausted the snapshot is returned unchanged.
func (d *Demo) LoadPreviousMessages(ctx context.Context) (content.Snapshot, error) {
	if err := d.wait(ctx); err != nil {
		return content.Snapshot{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.first = max(0, d.first-d.opts.PageSize)
	d.log.Debug("previous page", "from", d.first, "total", len(d.items))
	return d.snapshotLocked(), nil
}

// SendMessage appends an outgoing message and schedules an echo reply.
func (d *Demo) SendMessage(ctx context.Context, text string) (content.Snapshot, error) {
	if err := d.wait(ctx); err != nil {
		return content.Snapshot{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return content.Snapshot{}, context.Canceled
	}

	sent := content.Item{
		ID:        uuid.NewString(),
		Author:    LocalAuthor,
		Body:      text,
		Timestamp: d.opts.Now(),
		Outgoing:  true,
		Status:    content.StatusSent,
	}
	d.items = append(d.items, sent)
	d.first = min(d.first, len(d.items)-1)

	d.wg.Add(1)
	go d.reply(sent)

	return d.snapshotLocked(), nil
}

// Updates implements Controller.
func (d *Demo) Updates() <-chan content.Snapshot {
	return d.updates
}

// Close stops pending replies and closes the updates channel.
func (d *Demo) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.done)
	d.mu.Unlock()

	d.wg.Wait()
	close(d.updates)
}

// Receive appends an incoming message from author and pushes the new
// snapshot, as if another participant had written it. It is a no-op after
// Close.
func (d *Demo) Receive(author, body string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.items = append(d.items, content.Item{
		ID:        uuid.NewString(),
		Author:    author,
		Body:      body,
		Timestamp: d.opts.Now(),
	})
	snap := d.snapshotLocked()
	d.wg.Add(1)
	d.mu.Unlock()

	defer d.wg.Done()
	d.push(snap)
}

// Exhausted reports whether all generated history has been handed out.
func (d *Demo) Exhausted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.first == 0
}

func (d *Demo) reply(to content.Item) {
	defer d.wg.Done()

	t := time.NewTimer(d.opts.ReplyDelay)
	defer t.Stop()
	select {
	case <-d.done:
		return
	case <-t.C:
	}

	d.mu.Lock()
	for i := range d.items {
		if d.items[i].ID == to.ID {
			d.items[i].Status = content.StatusDelivered
		}
	}
	d.items = append(d.items, content.Item{
		ID:        uuid.NewString(),
		Author:    "echo",
		Body:      echoBody(to.Body),
		Timestamp: d.opts.Now(),
	})
	snap := d.snapshotLocked()
	d.mu.Unlock()

	d.push(snap)
}

// push delivers snap, replacing an undelivered older snapshot if the buffer
// is full. Snapshots are complete, so only the newest one matters.
func (d *Demo) push(snap content.Snapshot) {
	for {
		select {
		case d.updates <- snap:
			return
		default:
		}
		select {
		case <-d.updates:
			d.log.Debug("dropped superseded update")
		default:
		}
	}
}

// wait applies the configured latency and failure injection.
func (d *Demo) wait(ctx context.Context) error {
	if d.opts.Latency > 0 {
		t := time.NewTimer(d.opts.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	if d.opts.FailRate > 0 {
		d.mu.Lock()
		fail := d.rng.Float64() < d.opts.FailRate
		d.mu.Unlock()
		if fail {
			return ErrInjected
		}
	}
	return nil
}

// snapshotLocked groups the visible items by calendar day and stamps the
// result with the next revision.
func (d *Demo) snapshotLocked() content.Snapshot {
	var groups []content.Group
	for _, it := range d.items[d.first:] {
		id := it.Timestamp.Format(time.DateOnly)
		if n := len(groups); n == 0 || groups[n-1].ID != id {
			groups = append(groups, content.Group{
				ID:    id,
				Title: it.Timestamp.Format("Monday, January 2"),
			})
		}
		g := &groups[len(groups)-1]
		g.Items = append(g.Items, it)
	}
	d.rev++
	return content.Snapshot{Revision: d.rev, Groups: groups}
}

func echoBody(text string) string {
	if strings.Contains(text, "```") {
		return "Nice snippet. Here it is back:\n\n" + text
	}
	return "echo: " + text
}
