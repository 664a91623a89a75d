package modals

import (
	"slices"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

const (
	optionNotifications = "notifications"
	optionHighlights    = "highlights"
)

// SettingsState edits the preferences stored in the config file.
type SettingsState struct {
	selectedTheme string
	OriginalTheme string

	// MultiSelect binding
	options []string

	form           *huh.Form
	availableWidth int
}

func (*SettingsState) modalState() {}

func (s *SettingsState) PreferredWidth() int { return ModalWidthWide }

// SetSize updates the available width for rendering content.
func (s *SettingsState) SetSize(width, height int) {
	s.availableWidth = width
	s.form.WithWidth(s.contentWidth())
}

func (s *SettingsState) contentWidth() int {
	if s.availableWidth > 0 {
		return max(10, s.availableWidth-10)
	}
	return ModalWidthWide - 10
}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next field  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// SelectedTheme returns the selected theme key.
func (s *SettingsState) SelectedTheme() string {
	return s.selectedTheme
}

// ThemeChanged reports whether the selected theme differs from the original.
func (s *SettingsState) ThemeChanged() bool {
	return s.selectedTheme != s.OriginalTheme
}

// NotificationsEnabled reports whether desktop notifications are checked.
func (s *SettingsState) NotificationsEnabled() bool {
	return slices.Contains(s.options, optionNotifications)
}

// HighlightsEnabled reports whether new-message highlighting is checked.
func (s *SettingsState) HighlightsEnabled() bool {
	return slices.Contains(s.options, optionHighlights)
}

// NewSettingsState creates a SettingsState showing the current values.
// themes and themeDisplayNames are parallel slices.
func NewSettingsState(themes, themeDisplayNames []string, currentTheme string, notifications, highlights bool) *SettingsState {
	s := &SettingsState{
		selectedTheme:  currentTheme,
		OriginalTheme:  currentTheme,
		availableWidth: ModalWidthWide,
	}

	themeOptions := make([]huh.Option[string], len(themes))
	for i := range themes {
		name := themes[i]
		if i < len(themeDisplayNames) {
			name = themeDisplayNames[i]
		}
		themeOptions[i] = huh.NewOption(name, themes[i])
	}

	general := []huh.Option[string]{
		huh.NewOption("Desktop notifications while unfocused", optionNotifications).Selected(notifications),
		huh.NewOption("Highlight new messages", optionHighlights).Selected(highlights),
	}
	if notifications {
		s.options = append(s.options, optionNotifications)
	}
	if highlights {
		s.options = append(s.options, optionHighlights)
	}

	s.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOptions...).
			Value(&s.selectedTheme),
		huh.NewMultiSelect[string]().
			Title("Options").
			Options(general...).
			Height(len(general)).
			Value(&s.options),
	)).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(s.contentWidth()).
		WithLayout(huh.LayoutStack)

	// Initialize eagerly so the first render is complete
	s.form.Init()
	return s
}
