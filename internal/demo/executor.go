package demo

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/app"
	"github.com/zhubert/scrollback/internal/chat"
	"github.com/zhubert/scrollback/internal/config"
	"github.com/zhubert/scrollback/internal/logger"
)

// Frame represents a captured frame from the demo.
type Frame struct {
	Content    string        // ANSI-encoded terminal content
	Delay      time.Duration // Delay before this frame
	Annotation string        // Optional annotation/caption
	StepIndex  int           // Index of the step that produced this frame
	Width      int           // Terminal size when the frame was captured
	Height     int
}

// ExecutorConfig configures the demo executor.
type ExecutorConfig struct {
	// CaptureEveryStep captures a frame after every key and typed character
	CaptureEveryStep bool

	// TypeDelay is the time the app runs after each typed character (default: 50ms)
	TypeDelay time.Duration

	// KeyDelay is the time the app runs after key presses and events (default: 150ms)
	KeyDelay time.Duration

	// StartDelay is the time allowed for the first page to load before the
	// first frame (default: 1s)
	StartDelay time.Duration
}

// DefaultExecutorConfig returns the default executor configuration.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		CaptureEveryStep: false, // Don't capture every step by default for cleaner demos
		TypeDelay:        50 * time.Millisecond,
		KeyDelay:         150 * time.Millisecond,
		StartDelay:       time.Second,
	}
}

// Executor runs demo scenarios and captures frames. It plays the role of the
// Bubble Tea runtime: commands run on their own goroutines and their
// messages are fed back through Update on the executor's goroutine.
type Executor struct {
	config ExecutorConfig
	model  *app.Model
	chat   *chat.Demo
	frames []Frame

	width, height     int
	currentAnnotation string
	quit              bool

	msgs chan tea.Msg
	stop chan struct{}

	log *slog.Logger
}

// NewExecutor creates a new demo executor.
func NewExecutor(cfg ExecutorConfig) *Executor {
	return &Executor{
		config: cfg,
		log:    logger.WithComponent("Demo"),
	}
}

// Run executes a scenario and returns the captured frames. A scenario that
// quits the app ends early with the frames captured so far.
func (e *Executor) Run(scenario *Scenario) ([]Frame, error) {
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	e.setup(scenario)
	defer e.teardown()

	// Let the first page arrive, then capture the opening frame
	e.pump(e.config.StartDelay)
	e.captureFrame(0, e.config.StartDelay)

	for i, step := range scenario.Steps {
		if e.quit {
			e.log.Info("scenario quit the app", "scenario", scenario.Name, "step", i)
			break
		}
		if err := e.executeStep(i, step); err != nil {
			return nil, fmt.Errorf("step %d failed: %w", i, err)
		}
	}

	return e.frames, nil
}

// setup creates the model and conversation for the scenario and starts it.
func (e *Executor) setup(scenario *Scenario) {
	cfg := config.Default()
	cfg.SetNotificationsEnabled(false)

	e.frames = nil
	e.quit = false
	e.currentAnnotation = ""
	e.msgs = make(chan tea.Msg, 64)
	e.stop = make(chan struct{})
	e.chat = chat.NewDemo(*scenario.Chat)
	e.model = app.New(cfg, e.chat, "demo")
	e.model.SetTitle(scenario.Name)

	e.log.Debug("starting scenario", "scenario", scenario.Name, "width", scenario.Width, "height", scenario.Height)
	e.dispatch(e.model.Init())
	e.resize(scenario.Width, scenario.Height)
}

// teardown stops the model and releases pending command goroutines.
func (e *Executor) teardown() {
	close(e.stop)
	e.model.Close()
}

func (e *Executor) executeStep(index int, step Step) error {
	switch step.Type {
	case StepWait:
		e.pump(step.Duration)
		e.captureFrame(index, step.Duration)

	case StepKey:
		msg, err := parseKey(step.Key)
		if err != nil {
			return err
		}
		e.send(msg)
		e.pump(e.config.KeyDelay)
		if e.config.CaptureEveryStep {
			e.captureFrame(index, e.config.KeyDelay)
		}

	case StepTypeText:
		for _, ch := range step.Text {
			e.send(tea.KeyPressMsg{Code: ch, Text: string(ch)})
			e.pump(e.config.TypeDelay)
			if e.config.CaptureEveryStep {
				e.captureFrame(index, e.config.TypeDelay)
			}
		}

	case StepResize:
		e.resize(step.Width, step.Height)
		e.pump(e.config.KeyDelay)
		e.captureFrame(index, e.config.KeyDelay)

	case StepIncoming:
		e.chat.Receive(step.Author, step.Text)
		e.pump(e.config.KeyDelay)
		e.captureFrame(index, e.config.KeyDelay)

	case StepBlur:
		e.send(tea.BlurMsg{})
		e.pump(0)

	case StepFocus:
		e.send(tea.FocusMsg{})
		e.pump(0)

	case StepAnnotate:
		e.currentAnnotation = step.Annotation
		// Don't capture, annotation applies to next frame

	case StepCapture:
		e.pump(0)
		e.captureFrame(index, 0)

	default:
		return fmt.Errorf("unknown step type %v", step.Type)
	}

	return nil
}

func (e *Executor) resize(width, height int) {
	e.width = width
	e.height = height
	e.send(tea.WindowSizeMsg{Width: width, Height: height})
}

// captureFrame captures the current view as a frame.
func (e *Executor) captureFrame(stepIndex int, delay time.Duration) {
	frame := Frame{
		Content:    e.model.RenderToString(),
		Delay:      delay,
		Annotation: e.currentAnnotation,
		StepIndex:  stepIndex,
		Width:      e.width,
		Height:     e.height,
	}
	e.frames = append(e.frames, frame)

	// Clear annotation after use
	e.currentAnnotation = ""
}

// send delivers msg to the model immediately.
func (e *Executor) send(msg tea.Msg) {
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, cmd := range msg {
			e.dispatch(cmd)
		}
	case tea.QuitMsg:
		e.quit = true
	default:
		_, cmd := e.model.Update(msg)
		e.dispatch(cmd)
	}
}

// dispatch runs cmd in the background and queues its message.
func (e *Executor) dispatch(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		select {
		case e.msgs <- msg:
		case <-e.stop:
		}
	}()
}

// pump feeds queued messages to the model for d. With d of zero it only
// drains what is already queued.
func (e *Executor) pump(d time.Duration) {
	if d <= 0 {
		for {
			select {
			case msg := <-e.msgs:
				e.send(msg)
			default:
				return
			}
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	for !e.quit {
		select {
		case msg := <-e.msgs:
			e.send(msg)
		case <-timer.C:
			return
		}
	}
}

// namedKeys are the key names a scenario may use besides single characters.
var namedKeys = map[string]rune{
	"enter":     tea.KeyEnter,
	"tab":       tea.KeyTab,
	"esc":       tea.KeyEscape,
	"escape":    tea.KeyEscape,
	"backspace": tea.KeyBackspace,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"space":     tea.KeySpace,
}

var keyMods = map[string]tea.KeyMod{
	"ctrl":  tea.ModCtrl,
	"alt":   tea.ModAlt,
	"shift": tea.ModShift,
}

// parseKey converts a key string such as "g", "pgup" or "ctrl+l" to a key
// press. Modifiers are joined to the key with "+".
func parseKey(key string) (tea.KeyPressMsg, error) {
	if utf8.RuneCountInString(key) == 1 {
		r, _ := utf8.DecodeRuneInString(key)
		return tea.KeyPressMsg{Code: r, Text: key}, nil
	}

	parts := strings.Split(key, "+")
	name := parts[len(parts)-1]
	var msg tea.KeyPressMsg
	for _, p := range parts[:len(parts)-1] {
		mod, ok := keyMods[p]
		if !ok {
			return tea.KeyPressMsg{}, fmt.Errorf("unknown modifier %q in key %q", p, key)
		}
		msg.Mod |= mod
	}

	if code, ok := namedKeys[name]; ok {
		msg.Code = code
		if code == tea.KeySpace && msg.Mod == 0 {
			msg.Text = " "
		}
		return msg, nil
	}
	if utf8.RuneCountInString(name) != 1 {
		return tea.KeyPressMsg{}, fmt.Errorf("unknown key %q", key)
	}
	msg.Code, _ = utf8.DecodeRuneInString(name)
	return msg, nil
}
