package ui

import (
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/content"
	"github.com/zhubert/scrollback/internal/layout"
	"github.com/zhubert/scrollback/internal/logger"
)

// HighlightTickMsg advances the highlight of newly inserted messages.
type HighlightTickMsg time.Time

// HighlightTick returns a command that sends a highlight tick
func HighlightTick() tea.Cmd {
	return tea.Tick(HighlightInterval, func(t time.Time) tea.Msg {
		return HighlightTickMsg(t)
	})
}

// Transcript is the scrollable message list. It is the rendering surface the
// pipeline applies snapshots to and the viewport the layout measures against.
//
// The transcript fills Span(); the composer covers the bottom BottomInset()
// rows of it, so only VisibleHeight() rows of content are shown.
type Transcript struct {
	viewport viewport.Model
	layout   *layout.Layout

	groups []content.Group
	items  map[string]content.Item
	cache  map[string]renderedItem

	top    int
	width  int
	height int
	inset  int
	dirty  bool

	loading   bool
	animate   bool
	highlight map[string]int
	pending   []func()
	ticking   bool
	wantTick  bool

	sel selection

	log *slog.Logger
}

// NewTranscript creates an empty transcript. With animate false, snapshots
// are applied without highlighting and complete immediately.
func NewTranscript(animate bool) *Transcript {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	t := &Transcript{
		viewport:  vp,
		items:     make(map[string]content.Item),
		cache:     make(map[string]renderedItem),
		highlight: make(map[string]int),
		animate:   animate,
		loading:   true,
		log:       logger.WithComponent("transcript"),
	}
	t.layout = layout.New(t, t.measure)
	t.sel.clear()
	return t
}

// measure is the layout's Measurer; it renders through the cache so the
// measured height is exactly the drawn height.
func (t *Transcript) measure(item content.Item, width int) int {
	return len(t.render(item, width).lines)
}

func (t *Transcript) render(item content.Item, width int) renderedItem {
	fp := item.Fingerprint()
	if r, ok := t.cache[item.ID]; ok && r.width == width && r.fingerprint == fp {
		return r
	}
	r := renderItem(item, width)
	t.cache[item.ID] = r
	return r
}

// Layout exposes the line geometry of the transcript.
func (t *Transcript) Layout() *layout.Layout {
	return t.layout
}

// Groups returns the snapshot on screen.
func (t *Transcript) Groups() []content.Group {
	return t.groups
}

// SetLoading toggles the placeholder shown while the transcript is empty.
func (t *Transcript) SetLoading(loading bool) {
	t.loading = loading
}

// SetTop places the transcript at screen row y.
func (t *Transcript) SetTop(y int) {
	t.top = y
}

// SetSize sets the width and the full height of the transcript, including
// the rows under the composer.
func (t *Transcript) SetSize(width, height int) {
	if width != t.width || height != t.height {
		t.sel.clear()
	}
	t.width = max(0, width)
	t.height = max(0, height)
	t.inset = min(t.inset, t.height)
	t.layout.SetWidth(t.width)
	t.viewport.SetWidth(t.width)
	t.viewport.SetHeight(t.VisibleHeight())
	t.dirty = true
}

// Span returns the screen rows the transcript occupies.
func (t *Transcript) Span() layout.Span {
	return layout.Span{Y: t.top, Height: t.height}
}

// BottomInset returns the rows covered by the composer.
func (t *Transcript) BottomInset() int {
	return t.inset
}

// SetBottomInset sets the rows covered by the composer. The content does
// not change; only the visible window shrinks or grows.
func (t *Transcript) SetBottomInset(lines int) {
	t.inset = min(max(0, lines), t.height)
	t.viewport.SetHeight(t.VisibleHeight())
}

// VisibleHeight returns the rows of content actually shown.
func (t *Transcript) VisibleHeight() int {
	return max(0, t.height-t.inset)
}

// Offset returns the first visible content line.
func (t *Transcript) Offset() int {
	return t.viewport.YOffset()
}

// SetOffset scrolls to offset, clamped to the content.
func (t *Transcript) SetOffset(offset int) {
	t.sync()
	t.viewport.SetYOffset(t.layout.ClampOffset(offset))
}

// MaxOffset returns the offset that shows the last line at the bottom.
func (t *Transcript) MaxOffset() int {
	return t.layout.MaxOffset()
}

// AtTop reports whether the first line is visible.
func (t *Transcript) AtTop() bool {
	return t.Offset() <= 0
}

// Capture records the reader's position against edge.
func (t *Transcript) Capture(edge layout.Edge) (layout.Snapshot, bool) {
	return t.layout.Capture(edge)
}

// CaptureLast records the position of the newest item.
func (t *Transcript) CaptureLast() (layout.Snapshot, bool) {
	return t.layout.CaptureLast()
}

// Restore puts the reader back where s was captured.
func (t *Transcript) Restore(s layout.Snapshot) bool {
	return t.layout.Restore(s)
}

// Invalidate drops every measurement and rendering so the next query
// re-renders with the current width and theme.
func (t *Transcript) Invalidate() {
	t.sel.clear()
	clear(t.cache)
	t.layout.Invalidate()
	t.dirty = true
}

// SetAnimate turns highlighting of applied changes on or off. A highlight
// already running finishes normally.
func (t *Transcript) SetAnimate(animate bool) {
	t.animate = animate
}

// Active reports whether the transcript has been sized.
func (t *Transcript) Active() bool {
	return t.width > 0 && t.height > 0
}

// Interacting reports whether the reader has scrolled away from the bottom.
func (t *Transcript) Interacting() bool {
	return t.Offset() < t.MaxOffset()
}

// Reload replaces the content without animation, keeping the offset.
func (t *Transcript) Reload(groups []content.Group) {
	offset := t.Offset()
	t.setGroups(groups)
	t.SetOffset(offset)
}

// Apply reconciles the transcript to groups. A reader pinned to the bottom
// stays there. When animated, inserted and updated items are highlighted
// for a few ticks and done runs after the highlight fades.
func (t *Transcript) Apply(cs content.Changeset, groups []content.Group, animated bool, done func()) {
	pinned := !t.Interacting()
	offset := t.Offset()
	t.setGroups(groups)
	if pinned {
		t.SetOffset(t.MaxOffset())
	} else {
		t.SetOffset(offset)
	}
	t.log.Debug("applied", "changes", cs.String(), "animated", animated, "pinned", pinned)

	if !animated || !t.animate || !t.markHighlights(cs, groups) {
		if done != nil {
			done()
		}
		return
	}
	if done != nil {
		t.pending = append(t.pending, done)
	}
	if !t.ticking {
		t.wantTick = true
	}
}

func (t *Transcript) markHighlights(cs content.Changeset, groups []content.Group) bool {
	marked := false
	for _, paths := range [][]content.IndexPath{cs.InsertedItems, cs.UpdatedItems} {
		for _, p := range paths {
			if p.Group < len(groups) && p.Item < len(groups[p.Group].Items) {
				t.highlight[groups[p.Group].Items[p.Item].ID] = HighlightFrames
				marked = true
			}
		}
	}
	if marked {
		t.dirty = true
	}
	return marked
}

// AnimationCmd returns the tick that drives a newly started highlight, or
// nil if none is needed. Call it after every update.
func (t *Transcript) AnimationCmd() tea.Cmd {
	if !t.wantTick {
		return nil
	}
	t.wantTick = false
	t.ticking = true
	return HighlightTick()
}

// Animating reports whether any item is highlighted.
func (t *Transcript) Animating() bool {
	return len(t.highlight) > 0
}

// Tick advances the highlight. Completion callbacks run once every
// highlight has faded.
func (t *Transcript) Tick() tea.Cmd {
	for id, n := range t.highlight {
		if n <= 1 {
			delete(t.highlight, id)
		} else {
			t.highlight[id] = n - 1
		}
	}
	t.dirty = true
	t.sync()

	if len(t.highlight) > 0 {
		return HighlightTick()
	}
	t.ticking = false
	t.finish()
	return nil
}

// finish runs pending completion callbacks, including any queued by the
// callbacks themselves.
func (t *Transcript) finish() {
	for len(t.pending) > 0 {
		pending := t.pending
		t.pending = nil
		for _, fn := range pending {
			fn()
		}
	}
}

func (t *Transcript) setGroups(groups []content.Group) {
	t.sel.clear()
	t.groups = groups
	clear(t.items)
	for _, g := range groups {
		for _, it := range g.Items {
			t.items[it.ID] = it
		}
	}
	for id := range t.cache {
		if _, ok := t.items[id]; !ok {
			delete(t.cache, id)
		}
	}
	for id := range t.highlight {
		if _, ok := t.items[id]; !ok {
			delete(t.highlight, id)
		}
	}
	t.layout.SetContent(groups)
	t.dirty = true
}

// sync redraws the viewport content from the layout frames.
func (t *Transcript) sync() {
	if !t.dirty {
		return
	}
	t.dirty = false

	frames := t.layout.Frames()
	lines := make([]string, 0, t.layout.ContentSize())
	for _, f := range frames {
		switch f.Kind {
		case layout.FrameHeader:
			lines = append(lines, renderGroupHeader(t.groups[f.Group].Title, t.width))
		case layout.FrameItem:
			item := t.items[f.ID]
			gutter := renderGutter(item, t.highlight[item.ID] > 0)
			rendered := t.render(item, t.width).lines
			for i := range f.Height {
				line := ""
				if i < len(rendered) {
					line = rendered[i]
				}
				lines = append(lines, gutter+line)
			}
			for range layout.ItemSpacing {
				lines = append(lines, "")
			}
		}
	}
	t.viewport.SetContentLines(lines)
}

// Update handles scroll keys and mouse wheel events.
func (t *Transcript) Update(msg tea.Msg) tea.Cmd {
	t.sync()
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

// View renders the visible rows of the transcript.
func (t *Transcript) View() string {
	if len(t.groups) == 0 {
		placeholder := emptyTranscript(t.width, t.loading)
		return placeholder + strings.Repeat("\n", max(0, t.VisibleHeight()-1))
	}
	t.sync()
	return t.selectionView(t.viewport.View())
}
