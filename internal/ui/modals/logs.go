package modals

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// LogFile is a log the viewer can show.
type LogFile struct {
	Name string
	Path string
}

// LogsState shows the debug log, following its tail by default.
type LogsState struct {
	files      []LogFile
	index      int
	viewport   viewport.Model
	followTail bool
}

func (*LogsState) modalState() {}

// PreferredWidth asks for as much room as the screen allows.
func (s *LogsState) PreferredWidth() int { return 1 << 10 }

func (s *LogsState) Title() string { return "Logs" }

func (s *LogsState) Help() string {
	return "up/down: scroll  left/right: file  f: follow  r: refresh  Esc: close"
}

// SetSize fits the viewport to the room the modal is given.
func (s *LogsState) SetSize(width, height int) {
	// Title with margin, nav bar, help with margin
	const overhead = 5
	s.viewport.SetWidth(width)
	s.viewport.SetHeight(max(1, height-overhead))
	if s.followTail {
		s.viewport.GotoBottom()
	}
}

func (s *LogsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.renderNavBar(), s.viewport.View(), help)
}

func (s *LogsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "left", "h":
			if s.index > 0 {
				s.index--
				s.reload()
			}
			return s, nil
		case "right", "l":
			if s.index < len(s.files)-1 {
				s.index++
				s.reload()
			}
			return s, nil
		case "f":
			s.followTail = !s.followTail
			if s.followTail {
				s.viewport.GotoBottom()
			}
			return s, nil
		case "r":
			s.reload()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	if !s.viewport.AtBottom() {
		s.followTail = false
	}
	return s, cmd
}

// FollowTail reports whether the viewer sticks to the newest lines.
func (s *LogsState) FollowTail() bool {
	return s.followTail
}

// CurrentFile returns the file being shown, or nil when there are none.
func (s *LogsState) CurrentFile() *LogFile {
	if len(s.files) == 0 {
		return nil
	}
	return &s.files[s.index]
}

func (s *LogsState) reload() {
	file := s.CurrentFile()
	if file == nil {
		s.viewport.SetContent("No log files found")
		return
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		s.viewport.SetContent(fmt.Sprintf("Error reading log file: %v", err))
		return
	}

	s.viewport.SetContent(highlightLog(string(data)))
	if s.followTail {
		s.viewport.GotoBottom()
	} else {
		s.viewport.GotoTop()
	}
}

func (s *LogsState) renderNavBar() string {
	file := s.CurrentFile()
	if file == nil {
		return lipgloss.NewStyle().Foreground(ColorTextMuted).Render("No log files found")
	}

	arrow := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	muted := lipgloss.NewStyle().Foreground(ColorTextMuted)

	left, right := "  ", "  "
	if s.index > 0 {
		left = "← "
	}
	if s.index < len(s.files)-1 {
		right = " →"
	}

	follow := muted.Render("[f: follow]")
	if s.followTail {
		follow = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).Render("[Follow]")
	}

	return arrow.Render(left) +
		lipgloss.NewStyle().Foreground(ColorText).Bold(true).Render(file.Name) + " " +
		muted.Render(fmt.Sprintf("(%d of %d)", s.index+1, len(s.files))) +
		arrow.Render(right) + " " + follow
}

// highlightLog colors the level and message of each slog text line.
func highlightLog(content string) string {
	levels := []struct {
		token string
		style lipgloss.Style
	}{
		{"level=ERROR", lipgloss.NewStyle().Foreground(ColorError).Bold(true)},
		{"level=WARN", lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)},
		{"level=INFO", lipgloss.NewStyle().Foreground(ColorInfo)},
		{"level=DEBUG", lipgloss.NewStyle().Foreground(ColorTextMuted)},
	}
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
	valueStyle := lipgloss.NewStyle().Foreground(ColorText)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for i, line := range lines {
		for _, l := range levels {
			if strings.Contains(line, l.token) {
				line = strings.Replace(line, l.token, l.style.Render(l.token), 1)
				break
			}
		}

		// Quoted msg values only; bare ones are a single word
		if idx := strings.Index(line, `msg="`); idx >= 0 {
			rest := line[idx+len(`msg=`):]
			if end := strings.Index(rest[1:], `"`); end >= 0 {
				quoted := rest[:end+2]
				line = line[:idx] + keyStyle.Render("msg=") + valueStyle.Render(quoted) + rest[end+2:]
			}
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// NewLogsState creates a viewer over files, showing the first one.
func NewLogsState(files []LogFile) *LogsState {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	vp.SoftWrap = true
	vp.SetWidth(ModalWidthWide)
	vp.SetHeight(HelpModalMaxVisible)

	s := &LogsState{files: files, viewport: vp, followTail: true}
	s.reload()
	return s
}
