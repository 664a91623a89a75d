package demo

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateVHSTape(t *testing.T) {
	scenario := &Scenario{
		Name:        "tape",
		Description: "A tape",
		Width:       80,
		Height:      24,
		Steps: []Step{
			KeyWithDesc("i", "Focus"),
			Type(`say "hi"`),
			Key("enter"),
			Wait(1500 * time.Millisecond),
			Incoming("maya", "hello\nthere"),
			Resize(60, 20),
			Capture(),
		},
	}

	var b strings.Builder
	cfg := DefaultVHSConfig()
	cfg.Output = "tape.gif"
	if err := GenerateVHSTape(&b, scenario, cfg); err != nil {
		t.Fatalf("GenerateVHSTape() error = %v", err)
	}
	tape := b.String()

	for _, want := range []string{
		"Output tape.gif",
		"Set FontSize 16",
		`Type "scrollback --seed 42 --pages 4 --page-size 15 --latency 300ms"`,
		"# Focus\nType \"i\"",
		`Type 'say "hi"'`,
		"Enter\nSleep 150ms",
		"Sleep 1500ms",
		"# incoming from maya: hello\n",
		"# resize to 60x20",
		"Screenshot tape-06.png",
	} {
		if !strings.Contains(tape, want) {
			t.Errorf("tape missing %q:\n%s", want, tape)
		}
	}
}

func TestVHSString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "x"`, "`it's \"x\"`"},
		{"`a` 'b' \"c\"", `"` + "`a` 'b' 'c'" + `"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := vhsString(tt.in); got != tt.want {
				t.Errorf("vhsString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVHSDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{2 * time.Second, "2s"},
		{1500 * time.Millisecond, "1500ms"},
		{0, "0s"},
	}

	for _, tt := range tests {
		if got := vhsDuration(tt.d); got != tt.want {
			t.Errorf("vhsDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
