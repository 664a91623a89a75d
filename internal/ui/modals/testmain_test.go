package modals

import (
	"os"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/zhubert/scrollback/internal/logger"
)

func TestMain(m *testing.M) {
	// Disable logging during tests to avoid polluting /tmp/scrollback-debug.log
	logger.Reset()
	logger.Init(os.DevNull)

	white := lipgloss.Color("#FFFFFF")
	SetStyles(lipgloss.NewStyle(), lipgloss.NewStyle(), white, white, white, white, white, white, white, white, white)

	code := m.Run()

	logger.Reset()
	os.Exit(code)
}
