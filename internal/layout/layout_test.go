package layout

import (
	"testing"

	"github.com/zhubert/scrollback/internal/content"
)

// fakeViewport is a minimal Viewport.
type fakeViewport struct {
	offset  int
	visible int
}

func (v *fakeViewport) Offset() int          { return v.offset }
func (v *fakeViewport) SetOffset(offset int) { v.offset = offset }
func (v *fakeViewport) VisibleHeight() int   { return v.visible }

// fixedMeasure makes every item h lines tall.
func fixedMeasure(h int) Measurer {
	return func(content.Item, int) int { return h }
}

func groups(itemIDs ...[]string) []content.Group {
	var out []content.Group
	for i, ids := range itemIDs {
		g := content.Group{ID: string(rune('a' + i))}
		for _, id := range ids {
			g.Items = append(g.Items, content.Item{ID: id, Body: id})
		}
		out = append(out, g)
	}
	return out
}

func TestLayout_Frames(t *testing.T) {
	vp := &fakeViewport{visible: 10}
	l := New(vp, fixedMeasure(2))
	l.SetContent(groups([]string{"m1", "m2"}, []string{"m3"}))

	// header(1) m1(2)+1 m2(2)+1 header(1) m3(2)+1
	if got := l.ContentSize(); got != 11 {
		t.Fatalf("ContentSize() = %d, want 11", got)
	}

	f, ok := l.FrameOf("m3")
	if !ok {
		t.Fatal("m3 frame missing")
	}
	if f.Top != 8 || f.Height != 2 {
		t.Errorf("m3 frame = %+v, want top 8 height 2", f)
	}
	if _, ok := l.FrameOf("missing"); ok {
		t.Error("FrameOf should not find unknown ids")
	}
}

func TestLayout_WidthInvalidates(t *testing.T) {
	vp := &fakeViewport{visible: 10}
	l := New(vp, func(_ content.Item, width int) int {
		if width < 20 {
			return 4
		}
		return 1
	})
	l.SetContent(groups([]string{"m1"}))
	l.SetWidth(40)
	wide := l.ContentSize()
	l.SetWidth(10)
	narrow := l.ContentSize()

	if narrow <= wide {
		t.Errorf("narrow size %d should exceed wide size %d", narrow, wide)
	}
}

func TestWrapMeasurer(t *testing.T) {
	it := content.Item{Body: "one two three four five six"}
	if got := WrapMeasurer(it, 100); got != 2 {
		t.Errorf("WrapMeasurer wide = %d, want 2", got)
	}
	if got := WrapMeasurer(it, 9); got <= 2 {
		t.Errorf("WrapMeasurer narrow = %d, want > 2", got)
	}
	if got := WrapMeasurer(content.Item{Body: "a\nb"}, 0); got != 3 {
		t.Errorf("WrapMeasurer zero width = %d, want 3", got)
	}
}

func TestCapture_NothingLaidOut(t *testing.T) {
	l := New(&fakeViewport{visible: 10}, fixedMeasure(2))
	if _, ok := l.Capture(EdgeBottom); ok {
		t.Error("Capture should report false with no content")
	}
	if _, ok := l.CaptureLast(); ok {
		t.Error("CaptureLast should report false with no content")
	}

	l.SetContent(groups([]string{"m1"}))
	l.viewport = &fakeViewport{visible: 0}
	if _, ok := l.Capture(EdgeTop); ok {
		t.Error("Capture should report false with a zero-height viewport")
	}
}

func TestCapture_Edges(t *testing.T) {
	// Items are 3 lines, so frames sit at 1,5,9,13,17 with size 21.
	vp := &fakeViewport{visible: 6, offset: 6}
	l := New(vp, fixedMeasure(3))
	l.SetContent(groups([]string{"m1", "m2", "m3", "m4", "m5"}))

	top, ok := l.Capture(EdgeTop)
	if !ok || top.ItemID != "m2" || top.Delta != -1 {
		t.Errorf("Capture(top) = %v, %v; want m2 delta -1", top, ok)
	}

	bottom, ok := l.Capture(EdgeBottom)
	if !ok || bottom.ItemID != "m3" || bottom.Delta != 0 {
		t.Errorf("Capture(bottom) = %v, %v; want m3 delta 0", bottom, ok)
	}
}

func TestRestore_AfterPrepend(t *testing.T) {
	vp := &fakeViewport{visible: 6}
	l := New(vp, fixedMeasure(3))
	l.SetContent(groups([]string{"m3", "m4", "m5"}))
	vp.SetOffset(l.MaxOffset())

	snap, ok := l.CaptureLast()
	if !ok {
		t.Fatal("CaptureLast failed")
	}
	before := l.ContentSize() - vp.Offset()

	l.SetContent(groups([]string{"m1", "m2", "m3", "m4", "m5"}))
	if !l.Restore(snap) {
		t.Fatal("Restore failed")
	}
	after := l.ContentSize() - vp.Offset()
	if before != after {
		t.Errorf("distance from bottom changed: %d -> %d", before, after)
	}
}

func TestRestore_InsetChangeKeepsBottom(t *testing.T) {
	vp := &fakeViewport{visible: 10}
	l := New(vp, fixedMeasure(3))
	l.SetContent(groups([]string{"m1", "m2", "m3", "m4", "m5", "m6"}))
	vp.SetOffset(l.MaxOffset())

	snap, _ := l.Capture(EdgeBottom)
	vp.visible = 6 // composer grew by four lines
	l.Restore(snap)

	if vp.Offset() != l.MaxOffset() {
		t.Errorf("offset = %d, want pinned to bottom %d", vp.Offset(), l.MaxOffset())
	}
}

func TestRestore_Idempotent(t *testing.T) {
	vp := &fakeViewport{visible: 5, offset: 4}
	l := New(vp, fixedMeasure(2))
	l.SetContent(groups([]string{"m1", "m2", "m3", "m4"}, []string{"m5", "m6"}))

	snap, ok := l.Capture(EdgeTop)
	if !ok {
		t.Fatal("Capture failed")
	}
	l.SetWidth(5)
	l.Restore(snap)
	once := vp.Offset()
	l.Restore(snap)
	if vp.Offset() != once {
		t.Errorf("second Restore moved offset %d -> %d", once, vp.Offset())
	}
}

func TestRestore_StaleSnapshotIsNoop(t *testing.T) {
	vp := &fakeViewport{visible: 5, offset: 3}
	l := New(vp, fixedMeasure(2))
	l.SetContent(groups([]string{"m1", "m2", "m3"}))

	snap := Snapshot{ItemID: "deleted", ItemEdge: EdgeBottom, ViewportEdge: EdgeBottom}
	if l.Restore(snap) {
		t.Error("Restore of a missing anchor should report false")
	}
	if vp.Offset() != 3 {
		t.Errorf("offset changed to %d", vp.Offset())
	}
}

func TestRestore_Clamps(t *testing.T) {
	vp := &fakeViewport{visible: 5}
	l := New(vp, fixedMeasure(2))
	l.SetContent(groups([]string{"m1", "m2"}))

	l.Restore(Snapshot{ItemID: "m1", ItemEdge: EdgeTop, ViewportEdge: EdgeTop, Delta: 50})
	if vp.Offset() != 0 {
		t.Errorf("offset = %d, want clamped to 0", vp.Offset())
	}
	l.Restore(Snapshot{ItemID: "m2", ItemEdge: EdgeTop, ViewportEdge: EdgeTop, Delta: -50})
	if vp.Offset() != l.MaxOffset() {
		t.Errorf("offset = %d, want clamped to %d", vp.Offset(), l.MaxOffset())
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		name       string
		a, b       Span
		intersects bool
		overlap    int
	}{
		{"disjoint", Span{0, 5}, Span{5, 3}, false, 0},
		{"bottom overlap", Span{0, 10}, Span{7, 3}, true, 3},
		{"contained", Span{0, 10}, Span{2, 2}, true, 2},
		{"partial above", Span{5, 10}, Span{0, 8}, true, 3},
		{"empty", Span{0, 10}, Span{3, 0}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.intersects {
				t.Errorf("Intersects = %v, want %v", got, tt.intersects)
			}
			if got := tt.a.Overlap(tt.b); got != tt.overlap {
				t.Errorf("Overlap = %d, want %d", got, tt.overlap)
			}
		})
	}
}
