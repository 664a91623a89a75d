package app

import (
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/clipboard"
	"github.com/zhubert/scrollback/internal/content"
	"github.com/zhubert/scrollback/internal/errors"
	"github.com/zhubert/scrollback/internal/keys"
	"github.com/zhubert/scrollback/internal/layout"
	"github.com/zhubert/scrollback/internal/ui"
)

// copiedMsg reports the result of copying a message to the clipboard.
type copiedMsg struct {
	author string
	err    error
}

// handleKey dispatches a key press. While the composer is focused it gets
// every key except the ones that send, blur or page the transcript.
func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == keys.CtrlC {
		return tea.Quit
	}

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	if m.composer.Focused() {
		switch key {
		case keys.Enter:
			return m.send()
		case keys.Escape:
			return m.composer.Blur()
		case keys.PgUp, keys.PgDown:
			return m.scrollTranscript(msg)
		}
		return m.composer.Update(msg)
	}

	switch key {
	case "q":
		return tea.Quit
	case "i", keys.Enter:
		return m.composer.Focus()
	case keys.Escape:
		if _, scrolling := m.coords.Scroll.Scrolling(); scrolling {
			m.coords.Scroll.Cancel()
		} else {
			m.footer.ClearFlash()
		}
		return nil
	case "g", keys.Home, keys.CtrlT:
		return m.coords.Scroll.ScrollToTop()
	case "G", keys.End, keys.CtrlB:
		return m.coords.Scroll.ScrollToBottom()
	case "y", keys.CtrlY:
		return m.copyBottomMessage()
	case "r":
		return m.retryInitialLoad()
	case "?":
		return m.openHelp()
	case ",":
		return m.openSettings()
	case keys.CtrlL:
		return m.openLogs()
	}
	return m.scrollTranscript(msg)
}

// send hands the composer text to the send coordinator and clears the
// composer so it collapses while the send is delayed.
func (m *Model) send() tea.Cmd {
	text := m.composer.Value()
	cmd, err := m.coords.Send.Send(text)
	if err != nil {
		if errors.Is(err, errors.KindInvalid) {
			return nil
		}
		return m.ShowFlashError(err.Error())
	}
	if cmd == nil {
		return m.ShowFlashInfo("Still sending the previous message")
	}

	m.draft = text
	return tea.Batch(cmd, m.composer.Reset())
}

// retryInitialLoad starts the first load again after a failure.
func (m *Model) retryInitialLoad() tea.Cmd {
	if m.coords.Initial.Done() {
		return nil
	}
	cmd := m.coords.Initial.Start()
	if cmd != nil {
		m.footer.ClearFlash()
		m.transcript.SetLoading(true)
	}
	return cmd
}

// copyBottomMessage copies the message anchored at the bottom of the visible
// transcript to the clipboard.
func (m *Model) copyBottomMessage() tea.Cmd {
	snap, ok := m.transcript.Capture(layout.EdgeBottom)
	if !ok {
		return nil
	}
	groups := m.transcript.Groups()
	path, ok := content.FindItem(groups, snap.ItemID)
	if !ok {
		return nil
	}
	item := groups[path.Group].Items[path.Item]

	return func() tea.Msg {
		return copiedMsg{author: item.Author, err: clipboard.WriteText(item.Body)}
	}
}

func (m *Model) handleSelectionCopied(msg ui.SelectionCopiedMsg) tea.Cmd {
	if msg.Err != nil {
		// The terminal may still have taken it over OSC 52
		m.log.Warn("copy selection failed", "error", msg.Err)
		return m.ShowFlashWarning("Copied through the terminal only")
	}
	return m.ShowFlashSuccess("Copied selection")
}

func (m *Model) handleCopied(msg copiedMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warn("copy failed", "error", msg.err)
		return m.ShowFlashError("Couldn't copy: clipboard unavailable")
	}
	return m.ShowFlashSuccess("Copied message from " + msg.author)
}
