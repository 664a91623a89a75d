package app

import (
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/coordinator"
	"github.com/zhubert/scrollback/internal/ui"
	"github.com/zhubert/scrollback/internal/ui/modals"
)

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmds = append(cmds, m.handleResize(msg.Width, msg.Height))

	case tea.FocusMsg:
		m.termFocused = true

	case tea.BlurMsg:
		m.termFocused = false

	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseWheelMsg:
		if m.modal.IsVisible() {
			cmds = append(cmds, m.modal.Update(msg))
		} else {
			cmds = append(cmds, m.scrollTranscript(msg))
		}

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg:
		if !m.modal.IsVisible() {
			cmds = append(cmds, m.transcript.HandleMouse(msg))
		}

	case ui.SelectionCopiedMsg:
		cmds = append(cmds, m.handleSelectionCopied(msg))

	case ui.SelectionFlashTickMsg:
		m.transcript.EndSelectionFlash()

	case tea.PasteMsg:
		if m.composer.Focused() {
			cmds = append(cmds, m.composer.Update(msg))
		}

	case ui.FrameWillChangeMsg:
		cmds = append(cmds, m.coords.Keyboard.FrameWillChange(msg.Frame, msg.Duration))

	case ui.HighlightTickMsg:
		cmds = append(cmds, m.transcript.Tick())

	case ui.FlashTickMsg:
		if !m.footer.ClearIfExpired() && m.footer.HasFlash() {
			cmds = append(cmds, ui.FlashTick())
		}

	case ContentPushedMsg:
		cmds = append(cmds, m.handleContentPushed(msg))

	case modals.HelpShortcutTriggeredMsg:
		cmds = append(cmds, m.handleHelpShortcut(msg.Key))

	case copiedMsg:
		cmds = append(cmds, m.handleCopied(msg))

	case coordinator.InitialLoadedMsg:
		m.transcript.SetLoading(false)
		cmds = append(cmds, m.route(msg))

	case coordinator.SentMsg:
		if msg.Err != nil && m.composer.Value() == "" {
			cmds = append(cmds, m.composer.SetValue(m.draft))
		}
		cmds = append(cmds, m.route(msg))

	default:
		if cmd, handled := m.coords.Update(msg); handled {
			cmds = append(cmds, cmd)
		} else if m.modal.IsVisible() {
			// huh forms run their own commands
			cmds = append(cmds, m.modal.Update(msg))
		} else if m.composer.Focused() {
			// Cursor blink and other textarea internals
			cmds = append(cmds, m.composer.Update(msg))
		}
	}

	// A surface update may have started a highlight
	cmds = append(cmds, m.transcript.AnimationCmd())
	if m.flashPending {
		m.flashPending = false
		cmds = append(cmds, ui.FlashTick())
	}
	m.header.SetBusy(m.coords.Busy())

	return m, tea.Batch(cmds...)
}

// route hands coordinator result messages back to their coordinator.
func (m *Model) route(msg tea.Msg) tea.Cmd {
	cmd, handled := m.coords.Update(msg)
	if !handled {
		return nil
	}
	return cmd
}

// handleResize lays the screen out for a new terminal size. The transcript
// fills the rows between header and footer and the composer docks over its
// bottom rows.
func (m *Model) handleResize(width, height int) tea.Cmd {
	m.width = width
	m.height = height

	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(width, height)
	width = ctx.TerminalWidth
	span := ctx.ContentSpan()

	m.header.SetWidth(width)
	m.footer.SetWidth(width)
	m.transcript.SetTop(span.Y)

	wasActive := m.transcript.Active()
	resize := m.coords.Resize.Resize(width, span.Height)
	if !wasActive && m.transcript.Active() {
		// Snapshots that arrived before the first size were only stored
		m.transcript.Reload(m.pipeline.Current())
		m.transcript.SetOffset(m.transcript.MaxOffset())
	}

	return tea.Batch(resize, m.composer.SetBounds(width, span))
}

// scrollTranscript forwards a scroll key or wheel event to the transcript and
// loads older history once the top is reached.
func (m *Model) scrollTranscript(msg tea.Msg) tea.Cmd {
	m.coords.Scroll.Cancel()
	cmd := m.transcript.Update(msg)
	if m.transcript.AtTop() {
		return tea.Batch(cmd, m.coords.Pagination.LoadPrevious())
	}
	return cmd
}
