package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestLogger creates a temp log file and initializes the logger with it.
func setupTestLogger(t *testing.T) string {
	t.Helper()
	Reset()

	logPath := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	t.Cleanup(Reset)
	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestInit_WritesHeader(t *testing.T) {
	logPath := setupTestLogger(t)

	if !strings.Contains(readLog(t, logPath), "Logger initialized") {
		t.Error("log file should contain the initialization line")
	}
	if Path() != logPath {
		t.Errorf("Path() = %q, want %q", Path(), logPath)
	}
}

func TestInit_SecondCallIsNoop(t *testing.T) {
	logPath := setupTestLogger(t)

	other := filepath.Join(t.TempDir(), "other.log")
	if err := Init(other); err != nil {
		t.Fatalf("second Init returned error: %v", err)
	}
	if Path() != logPath {
		t.Errorf("Path() = %q after second Init, want %q", Path(), logPath)
	}
}

func TestInit_BadPath(t *testing.T) {
	Reset()
	defer Reset()

	if err := Init(filepath.Join(t.TempDir(), "missing", "dir", "x.log")); err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		write     func(string, ...any)
		wantFound bool
	}{
		{"debug hidden at info", false, Debug, false},
		{"debug shown at debug", true, Debug, true},
		{"info shown", false, Info, true},
		{"warn shown", false, Warn, true},
		{"error shown", false, Error, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath := setupTestLogger(t)
			SetDebug(tt.debug)

			marker := "marker-" + strings.ReplaceAll(tt.name, " ", "-")
			tt.write("%s %d", marker, 42)

			found := strings.Contains(readLog(t, logPath), marker+" 42")
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	logPath := setupTestLogger(t)

	WithComponent("pipeline").Info("apply deferred", "pending", 2)

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=pipeline") {
		t.Errorf("expected component attribute in log, got:\n%s", content)
	}
	if !strings.Contains(content, "pending=2") {
		t.Errorf("expected structured attribute in log, got:\n%s", content)
	}
}

func TestWithComponent_AfterClose(t *testing.T) {
	setupTestLogger(t)
	Close()

	// Must not panic with no open file.
	WithComponent("ui").Debug("after close")
}
