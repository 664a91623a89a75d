package ui

import (
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
	"github.com/zhubert/scrollback/internal/clipboard"
)

// SelectionCopiedMsg reports the result of copying a selection to the
// system clipboard.
type SelectionCopiedMsg struct {
	Text string
	Err  error
}

// SelectionFlashTickMsg ends the copy flash of a selection.
type SelectionFlashTickMsg time.Time

// SelectionFlashTick returns a command that ends the copy flash.
func SelectionFlashTick() tea.Cmd {
	return tea.Tick(SelectionFlashDuration, func(t time.Time) tea.Msg {
		return SelectionFlashTickMsg(t)
	})
}

// selection is a range of visible transcript cells. Lines count from the
// first visible row; the range is only meaningful at the offset it was made.
type selection struct {
	startCol, startLine int
	endCol, endLine     int
	active              bool
	offset              int
	flash               bool

	lastClick    time.Time
	lastX, lastY int
	clicks       int
}

func (s *selection) clear() {
	s.startCol, s.startLine = -1, -1
	s.endCol, s.endLine = -1, -1
	s.active = false
	s.flash = false
}

// area returns the range in reading order.
func (s *selection) area() (startCol, startLine, endCol, endLine int) {
	startCol, startLine = s.startCol, s.startLine
	endCol, endLine = s.endCol, s.endLine
	if startLine > endLine || (startLine == endLine && startCol > endCol) {
		startCol, endCol = endCol, startCol
		startLine, endLine = endLine, startLine
	}
	return
}

// StartSelection begins a drag selection at a visible cell.
func (t *Transcript) StartSelection(col, line int) {
	t.sel.clear()
	t.sel.startCol, t.sel.startLine = col, line
	t.sel.endCol, t.sel.endLine = col, line
	t.sel.offset = t.Offset()
	t.sel.active = true
}

// ExtendSelection moves the end of a drag in progress.
func (t *Transcript) ExtendSelection(col, line int) {
	if !t.sel.active {
		return
	}
	t.sel.endCol, t.sel.endLine = col, line
}

// StopSelection ends the drag and keeps the selection on screen.
func (t *Transcript) StopSelection() {
	t.sel.active = false
}

// ClearSelection removes the selection.
func (t *Transcript) ClearSelection() {
	t.sel.clear()
}

// HasSelection reports whether a non-empty selection is on screen. Scrolling
// away from where it was made drops it.
func (t *Transcript) HasSelection() bool {
	s := &t.sel
	if s.startLine < 0 || s.offset != t.Offset() {
		return false
	}
	return s.startCol != s.endCol || s.startLine != s.endLine
}

// HandleMouse selects text with the left button. x and y are terminal
// coordinates. A release copies the selection; double and triple clicks
// select a word or a whole message and copy it straight away.
func (t *Transcript) HandleMouse(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			return nil
		}
		line := msg.Y - t.top
		if line < 0 || line >= t.VisibleHeight() || len(t.groups) == 0 {
			t.ClearSelection()
			return nil
		}
		return t.click(msg.X, line)

	case tea.MouseMotionMsg:
		if msg.Button != tea.MouseLeft || !t.sel.active {
			return nil
		}
		t.ExtendSelection(msg.X, t.clampLine(msg.Y-t.top))

	case tea.MouseReleaseMsg:
		if !t.sel.active {
			return nil
		}
		t.ExtendSelection(msg.X, t.clampLine(msg.Y-t.top))
		t.StopSelection()
		return t.CopySelection()
	}
	return nil
}

func (t *Transcript) clampLine(line int) int {
	return min(max(0, line), max(0, t.VisibleHeight()-1))
}

func (t *Transcript) click(x, line int) tea.Cmd {
	now := time.Now()
	s := &t.sel
	if now.Sub(s.lastClick) <= doubleClickThreshold &&
		abs(x-s.lastX) <= clickTolerance &&
		abs(line-s.lastY) <= clickTolerance {
		s.clicks++
	} else {
		s.clicks = 1
	}
	s.lastClick, s.lastX, s.lastY = now, x, line

	switch s.clicks {
	case 2:
		t.SelectWord(x, line)
		return t.CopySelection()
	case 3:
		t.SelectMessage(line)
		s.clicks = 0
		return t.CopySelection()
	default:
		t.StartSelection(x, line)
		return nil
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// visibleLines returns the rendered rows on screen without styling.
func (t *Transcript) visibleLines() []string {
	t.sync()
	lines := strings.Split(t.viewport.View(), "\n")
	for i, l := range lines {
		lines[i] = ansi.Strip(l)
	}
	return lines
}

// SelectWord selects the word under a visible cell.
func (t *Transcript) SelectWord(col, line int) {
	lines := t.visibleLines()
	if line < 0 || line >= len(lines) || col < 0 {
		return
	}

	rest, state := lines[line], -1
	start := 0
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		end := start + uniseg.StringWidth(word)
		if col < end {
			if strings.TrimSpace(word) == "" {
				return
			}
			t.StartSelection(start, line)
			t.ExtendSelection(end, line)
			t.StopSelection()
			return
		}
		start = end
	}
}

// SelectMessage selects the block of non-blank rows around a visible row,
// which is one message or a day header.
func (t *Transcript) SelectMessage(line int) {
	lines := t.visibleLines()
	if line < 0 || line >= len(lines) || strings.TrimSpace(lines[line]) == "" {
		return
	}

	first, last := line, line
	for first > 0 && strings.TrimSpace(lines[first-1]) != "" {
		first--
	}
	for last < len(lines)-1 && strings.TrimSpace(lines[last+1]) != "" {
		last++
	}

	t.StartSelection(0, first)
	t.ExtendSelection(ansi.StringWidth(lines[last]), last)
	t.StopSelection()
}

// SelectedText returns the selected text without styling. The message gutter
// is never part of it.
func (t *Transcript) SelectedText() string {
	if !t.HasSelection() {
		return ""
	}
	lines := t.visibleLines()
	startCol, startLine, endCol, endLine := t.sel.area()

	var b strings.Builder
	for y := startLine; y <= endLine && y < len(lines); y++ {
		from, to := GutterWidth, ansi.StringWidth(lines[y])
		if y == startLine {
			from = max(from, startCol)
		}
		if y == endLine {
			to = min(to, endCol)
		}
		if from < to {
			b.WriteString(strings.TrimRight(ansi.Cut(lines[y], from, to), " "))
		}
		if y < endLine {
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// CopySelection copies the selection through the terminal and the system
// clipboard and flashes it.
func (t *Transcript) CopySelection() tea.Cmd {
	text := t.SelectedText()
	if text == "" {
		return nil
	}
	t.sel.flash = true

	return tea.Batch(
		// OSC 52, for terminals over ssh
		tea.SetClipboard(text),
		func() tea.Msg {
			return SelectionCopiedMsg{Text: text, Err: clipboard.WriteText(text)}
		},
		SelectionFlashTick(),
	)
}

// EndSelectionFlash returns a copied selection to the normal highlight.
func (t *Transcript) EndSelectionFlash() {
	t.sel.flash = false
}

// selectionView paints the selection over the rendered rows.
func (t *Transcript) selectionView(view string) string {
	if !t.HasSelection() {
		return view
	}
	width, height := t.width, t.VisibleHeight()
	if width <= 0 || height <= 0 {
		return view
	}

	area := uv.Rect(0, 0, width, height)
	scr := uv.NewScreenBuffer(area.Dx(), area.Dy())
	uv.NewStyledString(view).Draw(scr, area)

	style := TextSelectionStyle
	if t.sel.flash {
		style = TextSelectionFlashStyle
	}
	var bg, fg color.Color = style.GetBackground(), style.GetForeground()

	startCol, startLine, endCol, endLine := t.sel.area()
	for y := startLine; y <= endLine && y < height; y++ {
		from, to := 0, width
		if y == startLine {
			from = startCol
		}
		if y == endLine {
			to = endCol
		}
		for x := max(0, from); x < to && x < width; x++ {
			if cell := scr.CellAt(x, y); cell != nil {
				cell = cell.Clone()
				cell.Style.Bg = bg
				cell.Style.Fg = fg
				scr.SetCell(x, y, cell)
			}
		}
	}
	return scr.Render()
}
