package demo

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// VHSConfig configures tape generation.
type VHSConfig struct {
	Output   string // Rendered file, e.g. demo.gif
	Command  string // Binary to launch (default: scrollback)
	Width    int    // Terminal columns
	Height   int    // Terminal rows
	FontSize int
	Padding  int
	Theme    string
}

// DefaultVHSConfig returns the default VHS configuration.
func DefaultVHSConfig() VHSConfig {
	return VHSConfig{
		Output:   "demo.gif",
		Command:  "scrollback",
		Width:    100,
		Height:   30,
		FontSize: 16,
		Padding:  20,
		Theme:    "Catppuccin Mocha",
	}
}

// vhsKeys maps scenario key names to VHS key commands.
var vhsKeys = map[string]string{
	"enter":     "Enter",
	"esc":       "Escape",
	"escape":    "Escape",
	"tab":       "Tab",
	"backspace": "Backspace",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"pgup":      "PageUp",
	"pgdown":    "PageDown",
	"space":     "Space",
	"ctrl+c":    "Ctrl+C",
	"ctrl+t":    "Ctrl+T",
	"ctrl+b":    "Ctrl+B",
	"ctrl+y":    "Ctrl+Y",
}

// GenerateVHSTape writes a VHS tape that replays the scenario's input
// against the real binary. Steps VHS cannot express, such as incoming
// messages and resizes, are kept as comments.
func GenerateVHSTape(w io.Writer, scenario *Scenario, cfg VHSConfig) error {
	if err := scenario.Validate(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	if cfg.Command == "" {
		cfg.Command = "scrollback"
	}
	if cfg.Width <= 0 {
		cfg.Width = scenario.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = scenario.Height
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = 16
	}

	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	p("# %s: %s", scenario.Name, scenario.Description)
	p("Output %s", cfg.Output)
	p("")
	p("Set FontSize %d", cfg.FontSize)
	// Cells are roughly 0.6em wide and 1.2em tall
	p("Set Width %d", cfg.Width*cfg.FontSize*6/10+2*cfg.Padding)
	p("Set Height %d", cfg.Height*cfg.FontSize*12/10+2*cfg.Padding)
	p("Set Padding %d", cfg.Padding)
	if cfg.Theme != "" {
		p("Set Theme %s", vhsString(cfg.Theme))
	}
	p("Set TypingSpeed 50ms")
	p("")

	opts := scenario.Chat
	p("Hide")
	p("Type %s", vhsString(fmt.Sprintf("%s --seed %d --pages %d --page-size %d --latency %s",
		cfg.Command, opts.Seed, opts.Pages, opts.PageSize, opts.Latency)))
	p("Enter")
	p("Sleep 1s")
	p("Show")
	p("")

	for i, step := range scenario.Steps {
		if step.Description != "" {
			p("# %s", step.Description)
		}
		switch step.Type {
		case StepWait:
			p("Sleep %s", vhsDuration(step.Duration))
		case StepKey:
			if k, ok := vhsKeys[step.Key]; ok {
				p("%s", k)
			} else {
				p("Type %s", vhsString(step.Key))
			}
			p("Sleep 150ms")
		case StepTypeText:
			p("Type %s", vhsString(step.Text))
		case StepCapture:
			p("Screenshot %s-%02d.png", scenario.Name, i)
		case StepAnnotate:
			p("# %s", step.Annotation)
		case StepIncoming:
			p("# incoming from %s: %s", step.Author, firstLine(step.Text))
		case StepResize:
			p("# resize to %dx%d", step.Width, step.Height)
		case StepBlur, StepFocus:
			p("# %s", step.Type)
		}
	}

	return bw.Flush()
}

// vhsString quotes s with a delimiter it does not contain.
func vhsString(s string) string {
	for _, q := range []string{`"`, `'`, "`"} {
		if !strings.Contains(s, q) {
			return q + s + q
		}
	}
	return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
}

func vhsDuration(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
