// Package demo drives scripted scenarios through the scrollback app without a
// terminal and captures the frames it renders. The captured frames feed the
// asciinema and VHS generators used for documentation recordings.
package demo

import (
	"strconv"
	"time"

	"github.com/zhubert/scrollback/internal/chat"
)

// StepType represents the type of action in a demo step.
type StepType int

const (
	// StepWait lets the app run for a duration, then captures a frame.
	StepWait StepType = iota
	// StepKey sends a single key press.
	StepKey
	// StepTypeText types a string character by character.
	StepTypeText
	// StepResize changes the terminal size.
	StepResize
	// StepIncoming delivers a message from another participant.
	StepIncoming
	// StepBlur and StepFocus toggle terminal focus.
	StepBlur
	StepFocus
	// StepCapture captures the current frame (for selective capture).
	StepCapture
	// StepAnnotate adds an annotation/caption to the next captured frame.
	StepAnnotate
)

func (t StepType) String() string {
	switch t {
	case StepWait:
		return "wait"
	case StepKey:
		return "key"
	case StepTypeText:
		return "type"
	case StepResize:
		return "resize"
	case StepIncoming:
		return "incoming"
	case StepBlur:
		return "blur"
	case StepFocus:
		return "focus"
	case StepCapture:
		return "capture"
	case StepAnnotate:
		return "annotate"
	}
	return "unknown"
}

// Step represents a single action in a demo scenario.
type Step struct {
	Type        StepType
	Description string // Human-readable description of what this step does

	// For StepKey
	Key string

	// For StepTypeText and StepIncoming
	Text string

	// For StepIncoming
	Author string

	// For StepWait
	Duration time.Duration

	// For StepResize
	Width, Height int

	// For StepAnnotate
	Annotation string
}

// Scenario defines a complete demo scenario.
type Scenario struct {
	Name        string
	Description string
	Width       int // Terminal width (default 100)
	Height      int // Terminal height (default 30)

	// Chat configures the demo conversation. Nil uses DefaultChat.
	Chat *chat.DemoOptions

	Steps []Step
}

// DefaultChat returns the conversation used by scenarios that don't set one:
// a few pages of history and quick replies so recordings stay short.
func DefaultChat() *chat.DemoOptions {
	opts := chat.DefaultDemoOptions()
	opts.Pages = 4
	opts.PageSize = 15
	opts.Latency = 300 * time.Millisecond
	opts.ReplyDelay = 900 * time.Millisecond
	opts.Seed = 42
	return &opts
}

// Validate checks that the scenario is valid and fills in defaults.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "Name", Message: "scenario name is required"}
	}
	if s.Width <= 0 {
		s.Width = 100
	}
	if s.Height <= 0 {
		s.Height = 30
	}
	if s.Chat == nil {
		s.Chat = DefaultChat()
	}
	for i, step := range s.Steps {
		switch step.Type {
		case StepKey:
			if step.Key == "" {
				return &ValidationError{Field: stepField(i), Message: "key step needs a key"}
			}
			if _, err := parseKey(step.Key); err != nil {
				return &ValidationError{Field: stepField(i), Message: err.Error()}
			}
		case StepResize:
			if step.Width <= 0 || step.Height <= 0 {
				return &ValidationError{Field: stepField(i), Message: "resize needs a positive size"}
			}
		case StepIncoming:
			if step.Author == "" {
				return &ValidationError{Field: stepField(i), Message: "incoming message needs an author"}
			}
		case StepWait:
			if step.Duration < 0 {
				return &ValidationError{Field: stepField(i), Message: "negative wait"}
			}
		}
	}
	return nil
}

func stepField(i int) string {
	return "Steps[" + strconv.Itoa(i) + "]"
}

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + ": " + e.Message
}

// Step builder functions for fluent scenario construction

// Wait creates a wait step.
func Wait(d time.Duration) Step {
	return Step{
		Type:     StepWait,
		Duration: d,
	}
}

// Key creates a key press step.
func Key(key string) Step {
	return Step{
		Type: StepKey,
		Key:  key,
	}
}

// KeyWithDesc creates a key press step with a description.
func KeyWithDesc(key, description string) Step {
	return Step{
		Type:        StepKey,
		Key:         key,
		Description: description,
	}
}

// Type creates a text typing step.
func Type(text string) Step {
	return Step{
		Type: StepTypeText,
		Text: text,
	}
}

// TypeWithDesc creates a text typing step with a description.
func TypeWithDesc(text, description string) Step {
	return Step{
		Type:        StepTypeText,
		Text:        text,
		Description: description,
	}
}

// Resize creates a terminal resize step.
func Resize(width, height int) Step {
	return Step{
		Type:   StepResize,
		Width:  width,
		Height: height,
	}
}

// Incoming creates a step that delivers a message from author.
func Incoming(author, text string) Step {
	return Step{
		Type:   StepIncoming,
		Author: author,
		Text:   text,
	}
}

// Blur creates a step that moves terminal focus away from the app.
func Blur() Step {
	return Step{Type: StepBlur}
}

// Focus creates a step that gives terminal focus back to the app.
func Focus() Step {
	return Step{Type: StepFocus}
}

// Annotate creates an annotation step.
func Annotate(text string) Step {
	return Step{
		Type:       StepAnnotate,
		Annotation: text,
	}
}

// Capture creates a capture step.
func Capture() Step {
	return Step{
		Type: StepCapture,
	}
}
