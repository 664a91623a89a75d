package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/zhubert/scrollback/internal/ui"
)

// View renders the app. This is the core Bubble Tea view function.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.ReportFocus = true
	v.MouseMode = tea.MouseModeCellMotion
	v.WindowTitle = "scrollback"

	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}

	v.SetContent(m.render())
	v.Cursor = m.composer.Cursor()
	return v
}

// RenderToString renders the current view as a string.
// This is useful for demos and testing.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	return m.render()
}

func (m *Model) render() string {
	// Update footer context for conditional bindings
	m.updateFooterContext()

	if m.modal.IsVisible() {
		return m.modal.View(m.width, m.height)
	}

	ctx := ui.GetViewContext()
	contentHeight := ctx.ContentHeight
	composerHeight := min(m.composer.Height(), contentHeight)

	// The transcript's bottom inset follows the composer one message later;
	// size the visible rows from the composer so the frame never jumps.
	body := m.composer.View()
	if rows := contentHeight - composerHeight; rows > 0 {
		transcript := lipgloss.NewStyle().
			Height(rows).
			MaxHeight(rows).
			Render(m.transcript.View())
		body = lipgloss.JoinVertical(lipgloss.Left, transcript, body)
	}
	body = lipgloss.NewStyle().MaxHeight(contentHeight).Render(body)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		body,
		m.footer.View(),
	)
}

func (m *Model) updateFooterContext() {
	_, scrolling := m.coords.Scroll.Scrolling()
	m.footer.SetContext(m.composer.Focused(), scrolling)
}
