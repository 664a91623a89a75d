package app

import (
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/content"
	"github.com/zhubert/scrollback/internal/notification"
)

// listenForUpdates creates a command that waits for the next snapshot pushed
// by the controller. It is re-issued after every ContentPushedMsg.
func (m *Model) listenForUpdates() tea.Cmd {
	ch := m.controller.Updates()
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			// Controller closed, stop listening
			return nil
		}
		return ContentPushedMsg{Snapshot: snap}
	}
}

// handleContentPushed routes a pushed snapshot through the pipeline and
// notifies about new incoming messages while the terminal is unfocused.
func (m *Model) handleContentPushed(msg ContentPushedMsg) tea.Cmd {
	var notify tea.Cmd
	if !m.pipeline.Superseded(msg.Snapshot.Revision) {
		notify = m.notifyCmd(msg.Snapshot.Groups)
	}
	m.pipeline.ContentUpdated(msg.Snapshot)
	return tea.Batch(notify, m.listenForUpdates())
}

// notifyCmd returns a command sending a desktop notification for the newest
// incoming item of next, if it is not in the current snapshot.
func (m *Model) notifyCmd(next []content.Group) tea.Cmd {
	if m.termFocused || !m.config.GetNotificationsEnabled() {
		return nil
	}

	base, ok := m.pipeline.Pending()
	if !ok {
		base = m.pipeline.Current()
	}
	last, ok := content.LastItem(next)
	if !ok || last.Outgoing {
		return nil
	}
	if _, known := content.FindItem(base, last.ID); known {
		return nil
	}

	author, body := last.Author, last.Body
	return func() tea.Msg {
		_ = notification.MessageReceived(author, body)
		return nil
	}
}
