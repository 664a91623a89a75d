// Package layout computes line geometry for a transcript and preserves the
// reader's visual position across changes to that geometry.
//
// Geometry is measured in terminal lines. Every group contributes a header
// frame followed by one frame per item; items are separated by a blank line.
package layout

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/zhubert/scrollback/internal/content"
	"github.com/zhubert/scrollback/internal/logger"
)

// Viewport is the scrollable window the layout is measured against.
type Viewport interface {
	// Offset is the index of the first visible content line.
	Offset() int
	SetOffset(offset int)
	// VisibleHeight is the number of content lines not covered by insets.
	VisibleHeight() int
}

// Measurer returns the number of lines item occupies at width.
type Measurer func(item content.Item, width int) int

// FrameKind distinguishes group headers from items.
type FrameKind int

const (
	FrameHeader FrameKind = iota
	FrameItem
)

// Frame is the vertical extent of one header or item.
type Frame struct {
	Kind   FrameKind
	ID     string // group ID for headers, item ID for items
	Group  int
	Top    int
	Height int
}

// Bottom returns the first line below the frame.
func (f Frame) Bottom() int {
	return f.Top + f.Height
}

const (
	// HeaderHeight is the number of lines a group header takes.
	HeaderHeight = 1
	// ItemSpacing is the number of blank lines after each item.
	ItemSpacing = 1
)

// Layout lays out a snapshot and implements position capture and restore.
type Layout struct {
	viewport Viewport
	measure  Measurer
	width    int

	groups []content.Group
	frames []Frame
	items  map[string]int
	size   int
	valid  bool

	log *slog.Logger
}

// New creates a layout bound to vp. A nil measure uses WrapMeasurer.
func New(vp Viewport, measure Measurer) *Layout {
	if measure == nil {
		measure = WrapMeasurer
	}
	return &Layout{
		viewport: vp,
		measure:  measure,
		items:    make(map[string]int),
		log:      logger.WithComponent("layout"),
	}
}

// WrapMeasurer measures an item as one author line plus its wrapped body.
func WrapMeasurer(item content.Item, width int) int {
	if width <= 0 {
		return 1 + strings.Count(item.Body, "\n") + 1
	}
	wrapped := ansi.Wrap(item.Body, width, "")
	return 1 + strings.Count(wrapped, "\n") + 1
}

// SetContent replaces the snapshot being laid out.
func (l *Layout) SetContent(groups []content.Group) {
	l.groups = groups
	l.valid = false
}

// SetWidth changes the wrap width.
func (l *Layout) SetWidth(width int) {
	if width == l.width {
		return
	}
	l.width = width
	l.valid = false
}

// Width returns the wrap width.
func (l *Layout) Width() int {
	return l.width
}

// Invalidate forces the next query to re-measure every item.
func (l *Layout) Invalidate() {
	l.valid = false
}

// ContentSize returns the total number of content lines.
func (l *Layout) ContentSize() int {
	l.ensure()
	return l.size
}

// Frames returns the computed frames in display order.
func (l *Layout) Frames() []Frame {
	l.ensure()
	return l.frames
}

// FrameOf returns the frame of the item with id.
func (l *Layout) FrameOf(id string) (Frame, bool) {
	l.ensure()
	i, ok := l.items[id]
	if !ok {
		return Frame{}, false
	}
	return l.frames[i], true
}

// MaxOffset returns the largest valid viewport offset.
func (l *Layout) MaxOffset() int {
	return max(0, l.ContentSize()-l.viewport.VisibleHeight())
}

// ClampOffset limits offset to the scrollable range.
func (l *Layout) ClampOffset(offset int) int {
	return min(max(offset, 0), l.MaxOffset())
}

func (l *Layout) ensure() {
	if l.valid {
		return
	}
	l.frames = l.frames[:0]
	clear(l.items)

	line := 0
	for gi, g := range l.groups {
		l.frames = append(l.frames, Frame{Kind: FrameHeader, ID: g.ID, Group: gi, Top: line, Height: HeaderHeight})
		line += HeaderHeight
		for _, it := range g.Items {
			h := max(1, l.measure(it, l.width))
			if _, dup := l.items[it.ID]; !dup {
				l.items[it.ID] = len(l.frames)
			}
			l.frames = append(l.frames, Frame{Kind: FrameItem, ID: it.ID, Group: gi, Top: line, Height: h})
			line += h + ItemSpacing
		}
	}
	l.size = line
	l.valid = true
	l.log.Debug("layout computed", "frames", len(l.frames), "size", l.size, "width", l.width)
}
