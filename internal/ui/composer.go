package ui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"
	"github.com/zhubert/scrollback/internal/keys"
	"github.com/zhubert/scrollback/internal/layout"
)

// FrameWillChangeMsg announces the composer's next frame in screen rows.
// Duration is how long the change takes to settle.
type FrameWillChangeMsg struct {
	Frame    layout.Span
	Duration time.Duration
}

// Composer is the message input docked over the bottom of the transcript.
// It grows with its content while focused and collapses to a single line
// when blurred, announcing every change of height with a FrameWillChangeMsg.
type Composer struct {
	input     textarea.Model
	width     int
	bounds    layout.Span
	lines     int
	announced layout.Span
	duration  time.Duration
}

// NewComposer creates a composer whose frame changes take duration.
func NewComposer(duration time.Duration) *Composer {
	ti := textarea.New()
	ti.Placeholder = "Write a message..."
	ti.CharLimit = 0
	ti.ShowLineNumbers = false
	ti.Prompt = ""
	ti.KeyMap.InsertNewline = key.NewBinding(
		key.WithKeys(keys.ShiftEnter, keys.AltEnter, keys.CtrlJ),
		key.WithHelp("shift+enter", "newline"),
	)
	ti.SetHeight(ComposerMinLines)

	return &Composer{
		input:    ti,
		lines:    ComposerMinLines,
		duration: duration,
	}
}

// SetBounds sets the composer width and the rows it docks into. The
// composer sits at the bottom of bounds.
func (c *Composer) SetBounds(width int, bounds layout.Span) tea.Cmd {
	c.width = width
	c.bounds = bounds
	c.input.SetWidth(max(1, GetViewContext().InnerWidth(width)-InputPaddingWidth))
	return c.relayout()
}

// Frame returns the rows the composer currently covers.
func (c *Composer) Frame() layout.Span {
	h := min(c.Height(), c.bounds.Height)
	return layout.Span{Y: c.bounds.Bottom() - h, Height: h}
}

// Height returns the composer height including its border.
func (c *Composer) Height() int {
	return c.lines + ComposerBorderHeight
}

// Focus expands the composer to fit its content.
func (c *Composer) Focus() tea.Cmd {
	return tea.Batch(c.input.Focus(), c.relayout())
}

// Blur collapses the composer to one line.
func (c *Composer) Blur() tea.Cmd {
	c.input.Blur()
	return c.relayout()
}

// Focused reports whether the composer has keyboard focus.
func (c *Composer) Focused() bool {
	return c.input.Focused()
}

// Value returns the text being composed.
func (c *Composer) Value() string {
	return c.input.Value()
}

// SetValue replaces the text being composed.
func (c *Composer) SetValue(s string) tea.Cmd {
	c.input.SetValue(s)
	return c.relayout()
}

// Reset clears the input, collapsing the composer.
func (c *Composer) Reset() tea.Cmd {
	c.input.Reset()
	return c.relayout()
}

// Update forwards input to the textarea and resizes to the new content.
func (c *Composer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return tea.Batch(cmd, c.relayout())
}

// relayout sets the textarea height for the current content and focus,
// returning the frame announcement if the frame moved.
func (c *Composer) relayout() tea.Cmd {
	lines := ComposerMinLines
	if c.input.Focused() {
		lines = visualLines(c.input.Value(), c.input.Width())
	}
	lines = min(max(lines, ComposerMinLines), ComposerMaxLines)
	if lines != c.lines {
		c.lines = lines
		c.input.SetHeight(lines)
	}

	frame := c.Frame()
	if frame == c.announced {
		return nil
	}
	c.announced = frame
	msg := FrameWillChangeMsg{Frame: frame, Duration: c.duration}
	return func() tea.Msg { return msg }
}

// visualLines counts the rows text occupies when soft wrapped at width.
func visualLines(text string, width int) int {
	if width <= 0 {
		return strings.Count(text, "\n") + 1
	}
	n := 0
	for _, line := range strings.Split(text, "\n") {
		w := runewidth.StringWidth(line)
		n += max(1, (w+width-1)/width)
	}
	return n
}

// Cursor returns the terminal cursor for the textarea, offset to the
// composer's position on screen.
func (c *Composer) Cursor() *tea.Cursor {
	if !c.input.Focused() {
		return nil
	}
	cur := c.input.Cursor()
	if cur == nil {
		return nil
	}
	// Border and padding on the left, border on top
	cur.X += 1 + InputPaddingWidth/2
	cur.Y += c.Frame().Y + 1
	return cur
}

// View renders the composer with its border.
func (c *Composer) View() string {
	style := ChatInputStyle
	if c.input.Focused() {
		style = ChatInputFocusedStyle
	}
	return style.Width(c.width).Render(c.input.View())
}
