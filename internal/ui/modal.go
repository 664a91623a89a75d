package ui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/zhubert/scrollback/internal/ui/modals"
)

// modalFrameWidth and modalFrameHeight are the border plus padding of
// ModalStyle.
const (
	modalFrameWidth  = 6
	modalFrameHeight = 4
	modalMinWidth    = 20
)

// Modal hosts at most one dialog over the transcript.
// The State field is nil when no modal is visible.
type Modal struct {
	State modals.ModalState
	error string
}

// NewModal creates a new modal
func NewModal() *Modal {
	return &Modal{}
}

// Show displays a modal with the given state
func (m *Modal) Show(state modals.ModalState) {
	m.State = state
	m.error = ""
}

// Hide hides the modal
func (m *Modal) Hide() {
	m.State = nil
	m.error = ""
}

// IsVisible returns whether the modal is visible
func (m *Modal) IsVisible() bool {
	return m.State != nil
}

// SetError sets an error message
func (m *Modal) SetError(err string) {
	m.error = err
}

// GetError returns the current error message
func (m *Modal) GetError() string {
	return m.error
}

// Update handles messages by delegating to the current state
func (m *Modal) Update(msg tea.Msg) tea.Cmd {
	if m.State == nil {
		return nil
	}
	var cmd tea.Cmd
	m.State, cmd = m.State.Update(msg)
	return cmd
}

// View renders the modal centered in a screen of the given size, or "" when
// nothing is shown. The modal is narrowed to fit small screens.
func (m *Modal) View(screenWidth, screenHeight int) string {
	if m.State == nil {
		return ""
	}

	width := modals.ModalWidth
	if pw, ok := m.State.(modals.ModalWithPreferredWidth); ok {
		width = pw.PreferredWidth()
	}
	width = max(modalMinWidth, min(width, screenWidth-modalFrameWidth))
	if sized, ok := m.State.(modals.ModalWithSize); ok {
		sized.SetSize(width, screenHeight-modalFrameHeight)
	}

	content := m.State.Render()
	if m.error != "" {
		content += "\n" + FlashErrorStyle.Render(m.error)
	}

	content = lipgloss.NewStyle().Width(width).Render(content)
	box := ModalStyle.MaxHeight(max(1, screenHeight)).Render(content)

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}
