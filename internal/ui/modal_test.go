package ui

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/zhubert/scrollback/internal/ui/modals"
)

func testHelp() *modals.HelpState {
	return modals.NewHelpState([]modals.HelpSection{
		{Title: "Reading", Shortcuts: []modals.HelpShortcut{{Key: "g", Desc: "Scroll to top"}}},
	})
}

func TestModal_ShowHide(t *testing.T) {
	modal := NewModal()
	if modal.IsVisible() {
		t.Error("new modal should be hidden")
	}

	modal.Show(testHelp())
	if !modal.IsVisible() {
		t.Error("modal should be visible after Show")
	}

	modal.SetError("boom")
	modal.Hide()
	if modal.IsVisible() || modal.GetError() != "" {
		t.Error("Hide should clear the state and the error")
	}
}

func TestModal_Error(t *testing.T) {
	modal := NewModal()
	modal.Show(testHelp())
	modal.SetError("Couldn't save settings")

	if modal.GetError() != "Couldn't save settings" {
		t.Errorf("GetError() = %q", modal.GetError())
	}
	if !strings.Contains(modal.View(80, 24), "Couldn't save settings") {
		t.Error("View should include the error")
	}

	// Showing a new modal starts without an error
	modal.Show(testHelp())
	if modal.GetError() != "" {
		t.Error("Show should clear the error")
	}
}

func TestModal_View(t *testing.T) {
	modal := NewModal()
	if modal.View(80, 24) != "" {
		t.Error("View should return empty string when not visible")
	}

	modal.Show(testHelp())
	if !strings.Contains(modal.View(80, 24), "Keyboard Shortcuts") {
		t.Error("View should render the modal")
	}
}

func TestModal_View_FitsScreen(t *testing.T) {
	tests := []struct {
		name          string
		state         modals.ModalState
		width, height int
	}{
		{"help wide screen", testHelp(), 200, 40},
		{"help narrow screen", testHelp(), 50, 30},
		{"settings narrow screen", modals.NewSettingsState([]string{"nord"}, []string{"Nord"}, "nord", true, true), 60, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modal := NewModal()
			modal.Show(tt.state)

			view := modal.View(tt.width, tt.height)
			if view == "" {
				t.Fatal("View should render")
			}
			for i, line := range strings.Split(view, "\n") {
				if w := lipgloss.Width(line); w > tt.width {
					t.Errorf("line %d is %d wide, screen is %d", i, w, tt.width)
				}
			}
		})
	}
}
