package app

import (
	"context"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/chat"
	"github.com/zhubert/scrollback/internal/config"
	"github.com/zhubert/scrollback/internal/content"
	"github.com/zhubert/scrollback/internal/coordinator"
	"github.com/zhubert/scrollback/internal/logger"
	"github.com/zhubert/scrollback/internal/pipeline"
	"github.com/zhubert/scrollback/internal/screen"
	"github.com/zhubert/scrollback/internal/ui"
)

// DefaultTitle is shown in the header until SetTitle is called.
const DefaultTitle = "demo"

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	version string // App version (injected at build time)

	header     *ui.Header
	footer     *ui.Footer
	transcript *ui.Transcript
	composer   *ui.Composer
	modal      *ui.Modal

	screen     *screen.Screen
	pipeline   *pipeline.Pipeline
	coords     *coordinator.Coordinators
	controller chat.Controller

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int

	// Terminal focus, from tea.FocusMsg and tea.BlurMsg
	termFocused bool

	// Text of the last send, restored into the composer if it fails
	draft string

	// Set by the error sink; the flash timer starts at the end of Update
	flashPending bool

	log *slog.Logger
}

// ContentPushedMsg carries a snapshot pushed by the controller.
type ContentPushedMsg struct {
	Snapshot content.Snapshot
}

// New creates a new app model
func New(cfg *config.Config, controller chat.Controller, version string) *Model {
	// Load saved theme from config, or use default
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	timing := cfg.GetTiming()
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		config:      cfg,
		version:     version,
		header:      ui.NewHeader(),
		footer:      ui.NewFooter(),
		transcript:  ui.NewTranscript(cfg.GetAnimationsEnabled()),
		composer:    ui.NewComposer(timing.Composer()),
		modal:       ui.NewModal(),
		controller:  controller,
		ctx:         ctx,
		cancel:      cancel,
		termFocused: true,
		log:         logger.WithComponent("app"),
	}
	m.header.SetTitle(DefaultTitle)
	m.transcript.SetLoading(true)

	m.screen = screen.New(m.showError)
	m.pipeline = pipeline.New(m.screen, m.transcript, m.transcript)
	m.coords = coordinator.New(ctx, coordinator.Deps{
		Screen:     m.screen,
		Pipeline:   m.pipeline,
		Controller: controller,
		View:       m.transcript,
		Timing: coordinator.Timing{
			SendDelay:        timing.SendDelay(),
			Transition:       timing.Transition(),
			ScrollInterval:   timing.ScrollInterval(),
			ScrollStep:       timing.ScrollStep,
			StuckTimeout:     timing.StuckTimeout(),
			WatchdogInterval: timing.WatchdogInterval(),
		},
	})

	return m
}

// SetTitle sets the conversation name shown in the header.
func (m *Model) SetTitle(title string) {
	m.header.SetTitle(title)
}

// Init activates the screen, loads the first batch and starts listening for
// pushed updates.
func (m *Model) Init() tea.Cmd {
	m.screen.Activate()
	return tea.Batch(
		m.coords.Initial.Start(),
		m.coords.Watchdog.Start(),
		m.listenForUpdates(),
	)
}

// Close tears the screen down and stops the controller. In-flight work
// still releases its flags but no longer touches the transcript.
func (m *Model) Close() {
	m.screen.Deactivate()
	m.cancel()
	if c, ok := m.controller.(interface{ Close() }); ok {
		c.Close()
	}
}

// Transcript returns the transcript surface.
func (m *Model) Transcript() *ui.Transcript {
	return m.transcript
}

// Composer returns the message composer.
func (m *Model) Composer() *ui.Composer {
	return m.composer
}

// Footer returns the footer.
func (m *Model) Footer() *ui.Footer {
	return m.footer
}

// Modal returns the modal host.
func (m *Model) Modal() *ui.Modal {
	return m.modal
}

// Coordinators returns the coordinators driving the transcript.
func (m *Model) Coordinators() *coordinator.Coordinators {
	return m.coords
}

// Pipeline returns the content update pipeline.
func (m *Model) Pipeline() *pipeline.Pipeline {
	return m.pipeline
}

// Screen returns the screen whose flag sets gate the pipeline.
func (m *Model) Screen() *screen.Screen {
	return m.screen
}
