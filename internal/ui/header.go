package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Header represents the top header bar
type Header struct {
	width int
	title string
	busy  []string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetTitle sets the conversation name to display
func (h *Header) SetTitle(title string) {
	h.title = title
}

// SetBusy sets the in-progress actions shown after the title
func (h *Header) SetBusy(busy []string) {
	h.busy = busy
}

// View renders the header
func (h *Header) View() string {
	titleText := " scrollback"
	var rightText, mutedText string
	if h.title != "" {
		rightText = h.title
	}
	if len(h.busy) > 0 {
		mutedText = " (" + strings.Join(h.busy, ", ") + ")"
	}
	rightText += mutedText + " "

	// Drop the title before the busy list when space runs out
	paddingLen := h.width - len([]rune(titleText)) - len([]rune(rightText))
	if paddingLen < 0 && h.title != "" {
		rightText = strings.TrimPrefix(rightText, h.title)
		paddingLen = h.width - len([]rune(titleText)) - len([]rune(rightText))
	}
	paddingLen = max(0, paddingLen)

	fullContent := titleText + strings.Repeat(" ", paddingLen) + rightText
	mutedStart := -1
	if mutedText != "" {
		mutedStart = len([]rune(fullContent)) - len([]rune(mutedText)) - 1
	}
	return h.renderGradient(fullContent, mutedStart)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders the content with a theme-aware gradient background.
// Runes from mutedStart on use the muted text color; -1 mutes nothing.
func (h *Header) renderGradient(content string, mutedStart int) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)

	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Bold(i < 11) // " scrollback"

		if mutedStart >= 0 && i >= mutedStart {
			style = style.Foreground(mutedColor).Italic(true)
		} else {
			style = style.Foreground(textColor)
		}

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
