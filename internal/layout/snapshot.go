package layout

import "fmt"

// Edge names the top or bottom edge of an item or of the viewport.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

func (e Edge) String() string {
	if e == EdgeBottom {
		return "bottom"
	}
	return "top"
}

// Snapshot pins one item edge at a line distance from a viewport edge.
// Delta is itemEdgeLine - viewportEdgeLine at capture time.
type Snapshot struct {
	ItemID       string
	ItemEdge     Edge
	ViewportEdge Edge
	Delta        int
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%s.%s@viewport.%s%+d", s.ItemID, s.ItemEdge, s.ViewportEdge, s.Delta)
}

func (l *Layout) viewportEdgeLine(edge Edge) int {
	if edge == EdgeBottom {
		return l.viewport.Offset() + l.viewport.VisibleHeight()
	}
	return l.viewport.Offset()
}

func itemEdgeLine(f Frame, edge Edge) int {
	if edge == EdgeBottom {
		return f.Bottom()
	}
	return f.Top
}

// Capture records the item touching the given viewport edge, using the same
// edge of the item. It reports false when nothing is laid out yet or the
// viewport has no height.
func (l *Layout) Capture(edge Edge) (Snapshot, bool) {
	l.ensure()
	if l.viewport.VisibleHeight() <= 0 {
		return Snapshot{}, false
	}

	line := l.viewportEdgeLine(edge)
	anchor := -1
	if edge == EdgeTop {
		for i, f := range l.frames {
			if f.Kind == FrameItem && f.Bottom() > line {
				anchor = i
				break
			}
		}
	} else {
		for i := len(l.frames) - 1; i >= 0; i-- {
			if f := l.frames[i]; f.Kind == FrameItem && f.Top < line {
				anchor = i
				break
			}
		}
	}
	if anchor < 0 {
		return Snapshot{}, false
	}

	f := l.frames[anchor]
	return Snapshot{
		ItemID:       f.ID,
		ItemEdge:     edge,
		ViewportEdge: edge,
		Delta:        itemEdgeLine(f, edge) - line,
	}, true
}

// CaptureItem records a specific item edge against a viewport edge.
func (l *Layout) CaptureItem(id string, itemEdge, viewportEdge Edge) (Snapshot, bool) {
	f, ok := l.FrameOf(id)
	if !ok || l.viewport.VisibleHeight() <= 0 {
		return Snapshot{}, false
	}
	return Snapshot{
		ItemID:       id,
		ItemEdge:     itemEdge,
		ViewportEdge: viewportEdge,
		Delta:        itemEdgeLine(f, itemEdge) - l.viewportEdgeLine(viewportEdge),
	}, true
}

// CaptureLast pins the bottom edge of the last item to the viewport bottom.
func (l *Layout) CaptureLast() (Snapshot, bool) {
	l.ensure()
	for i := len(l.frames) - 1; i >= 0; i-- {
		if l.frames[i].Kind == FrameItem {
			return l.CaptureItem(l.frames[i].ID, EdgeBottom, EdgeBottom)
		}
	}
	return Snapshot{}, false
}

// Restore scrolls so the snapshot's item edge is back at its recorded
// distance from the viewport edge, clamped to the scrollable range. A
// snapshot whose item no longer exists is ignored and Restore reports false.
func (l *Layout) Restore(s Snapshot) bool {
	f, ok := l.FrameOf(s.ItemID)
	if !ok {
		l.log.Debug("restore skipped, anchor gone", "snapshot", s.String())
		return false
	}

	offset := itemEdgeLine(f, s.ItemEdge) - s.Delta
	if s.ViewportEdge == EdgeBottom {
		offset -= l.viewport.VisibleHeight()
	}
	offset = l.ClampOffset(offset)
	l.viewport.SetOffset(offset)
	l.log.Debug("position restored", "snapshot", s.String(), "offset", offset)
	return true
}
