package layout

// Span is a vertical range of terminal rows in screen coordinates.
type Span struct {
	Y      int
	Height int
}

// Bottom returns the first row below the span.
func (s Span) Bottom() int {
	return s.Y + s.Height
}

// Empty reports whether the span covers no rows.
func (s Span) Empty() bool {
	return s.Height <= 0
}

// Intersects reports whether the two spans share at least one row.
func (s Span) Intersects(o Span) bool {
	if s.Empty() || o.Empty() {
		return false
	}
	return s.Y < o.Bottom() && o.Y < s.Bottom()
}

// Overlap returns the number of rows the spans share.
func (s Span) Overlap(o Span) int {
	if !s.Intersects(o) {
		return 0
	}
	return min(s.Bottom(), o.Bottom()) - max(s.Y, o.Y)
}
