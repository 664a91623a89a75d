package app

import (
	"os"
	"path/filepath"
	"slices"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/keys"
	"github.com/zhubert/scrollback/internal/logger"
	"github.com/zhubert/scrollback/internal/ui"
	"github.com/zhubert/scrollback/internal/ui/modals"
)

// helpSections lists the shortcuts shown by the help modal. Keys are the
// strings handleKey matches, so a selected row can be replayed.
func helpSections() []modals.HelpSection {
	return []modals.HelpSection{
		{
			Title: "Transcript",
			Shortcuts: []modals.HelpShortcut{
				{Key: keys.PgUp, Desc: "Scroll up a page"},
				{Key: keys.PgDown, Desc: "Scroll down a page"},
				{Key: "g", Desc: "Scroll to the top, loading older history"},
				{Key: "G", Desc: "Jump to the newest message"},
				{Key: "y", Desc: "Copy the message at the bottom"},
				{Key: "r", Desc: "Retry a failed first load"},
			},
		},
		{
			Title: "Composer",
			Shortcuts: []modals.HelpShortcut{
				{Key: "i", Desc: "Write a message"},
			},
		},
		{
			Title: "General",
			Shortcuts: []modals.HelpShortcut{
				{Key: ",", Desc: "Settings"},
				{Key: keys.CtrlL, Desc: "View debug logs"},
				{Key: "q", Desc: "Quit"},
			},
		},
	}
}

// namedKeys maps help keys that are not a single printable rune back to
// key presses.
var namedKeys = map[string]tea.KeyPressMsg{
	keys.PgUp:   {Code: tea.KeyPgUp},
	keys.PgDown: {Code: tea.KeyPgDown},
	keys.Home:   {Code: tea.KeyHome},
	keys.End:    {Code: tea.KeyEnd},
	keys.CtrlL:  {Code: 'l', Mod: tea.ModCtrl},
}

func (m *Model) openHelp() tea.Cmd {
	m.modal.Show(modals.NewHelpState(helpSections()))
	return nil
}

func (m *Model) openSettings() tea.Cmd {
	names := ui.ThemeNames()
	themes := make([]string, len(names))
	display := make([]string, len(names))
	for i, n := range names {
		themes[i] = string(n)
		display[i] = ui.GetTheme(n).Name
	}

	m.modal.Show(modals.NewSettingsState(
		themes, display,
		string(ui.CurrentThemeName()),
		m.config.GetNotificationsEnabled(),
		m.config.GetAnimationsEnabled(),
	))
	return nil
}

func (m *Model) openLogs() tea.Cmd {
	m.modal.Show(modals.NewLogsState(logFiles()))
	return nil
}

// logFiles lists the active debug log followed by any others next to the
// default path, skipping files that don't exist.
func logFiles() []modals.LogFile {
	var paths []string
	if p := logger.Path(); p != "" {
		paths = append(paths, p)
	}
	if matches, err := filepath.Glob(logger.DefaultLogPath + "*"); err == nil {
		paths = append(paths, matches...)
	}

	files := []modals.LogFile{}
	var seen []string
	for _, p := range paths {
		if slices.Contains(seen, p) {
			continue
		}
		seen = append(seen, p)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		files = append(files, modals.LogFile{Name: filepath.Base(p), Path: p})
	}
	return files
}

// handleModalKey routes a key press to the visible modal.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	switch state := m.modal.State.(type) {
	case *modals.HelpState:
		if state.IsFiltering() {
			return m.modal.Update(msg)
		}
		switch key {
		case keys.Escape, "?", "q":
			m.modal.Hide()
			return nil
		}

	case *modals.LogsState:
		if key == keys.Escape || key == "q" || key == keys.CtrlL {
			m.modal.Hide()
			return nil
		}

	case *modals.SettingsState:
		switch key {
		case keys.Escape:
			m.modal.Hide()
			return nil
		case keys.Enter:
			return m.saveSettings(state)
		}
	}

	return m.modal.Update(msg)
}

// handleHelpShortcut closes the help modal and runs the chosen shortcut as
// if its key had been pressed.
func (m *Model) handleHelpShortcut(key string) tea.Cmd {
	m.modal.Hide()
	msg, ok := namedKeys[key]
	if !ok {
		r := []rune(key)
		if len(r) != 1 {
			return nil
		}
		msg = tea.KeyPressMsg{Code: r[0], Text: key}
	}
	return m.handleKey(msg)
}

// saveSettings applies the settings form and writes the config file.
func (m *Model) saveSettings(s *modals.SettingsState) tea.Cmd {
	if s.ThemeChanged() {
		m.config.SetTheme(s.SelectedTheme())
		ui.SetThemeByName(s.SelectedTheme())
		m.transcript.Invalidate()
	}
	m.config.SetNotificationsEnabled(s.NotificationsEnabled())
	m.config.SetAnimationsEnabled(s.HighlightsEnabled())
	m.transcript.SetAnimate(s.HighlightsEnabled())

	if m.config.FilePath() != "" {
		if err := m.config.Save(); err != nil {
			m.log.Warn("failed to save settings", "error", err)
			m.modal.SetError("Couldn't save settings: " + err.Error())
			return nil
		}
	}

	m.modal.Hide()
	return m.ShowFlashSuccess("Settings saved")
}
