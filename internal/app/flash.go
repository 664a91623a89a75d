package app

import (
	stderrors "errors"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/errors"
	"github.com/zhubert/scrollback/internal/ui"
)

// ShowFlash displays a flash message in the footer and returns a command to start the auto-dismiss timer
func (m *Model) ShowFlash(text string, flashType ui.FlashType) tea.Cmd {
	m.footer.SetFlash(text, flashType)
	return ui.FlashTick()
}

// ShowFlashError displays an error flash message
func (m *Model) ShowFlashError(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashError)
}

// ShowFlashWarning displays a warning flash message
func (m *Model) ShowFlashWarning(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashWarning)
}

// ShowFlashInfo displays an info flash message
func (m *Model) ShowFlashInfo(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashInfo)
}

// ShowFlashSuccess displays a success flash message
func (m *Model) ShowFlashSuccess(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashSuccess)
}

// showError is the screen's error sink. It runs inside Update, so the
// dismiss timer is started by Update once the message is handled.
func (m *Model) showError(err error) {
	flashType := ui.FlashError
	if errors.Is(err, errors.KindStuckFlag) {
		flashType = ui.FlashWarning
	}
	m.footer.SetFlash(errorText(err), flashType)
	m.flashPending = true
}

// errorText turns a reported error into footer text.
func errorText(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return err.Error()
	}

	cause := e.Err.Error()
	switch e.Op {
	case "coordinator.InitialLoad":
		return "Couldn't load messages: " + cause + " (r to retry)"
	case "coordinator.LoadPrevious":
		return "Couldn't load older messages: " + cause
	case "coordinator.Send":
		return "Message not sent: " + cause
	}
	if e.Kind == errors.KindStuckFlag {
		return "Stuck: " + cause
	}
	return err.Error()
}
