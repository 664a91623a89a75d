package app

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/chat"
	"github.com/zhubert/scrollback/internal/config"
	"github.com/zhubert/scrollback/internal/content"
)

// cmdTimeout bounds how long a command may block before its result is
// dropped. Listeners and flash timers outlive it on purpose.
const cmdTimeout = 100 * time.Millisecond

var errOffline = stderrors.New("offline")

// flakyDemo is a demo controller whose calls can be made to fail.
type flakyDemo struct {
	*chat.Demo

	mu          sync.Mutex
	failInitial int // number of initial loads that fail
	failSend    bool
}

func (f *flakyDemo) LoadInitialMessages(ctx context.Context) (content.Snapshot, error) {
	f.mu.Lock()
	fail := f.failInitial > 0
	if fail {
		f.failInitial--
	}
	f.mu.Unlock()
	if fail {
		return content.Snapshot{}, errOffline
	}
	return f.Demo.LoadInitialMessages(ctx)
}

func (f *flakyDemo) SendMessage(ctx context.Context, text string) (content.Snapshot, error) {
	f.mu.Lock()
	fail := f.failSend
	f.mu.Unlock()
	if fail {
		return content.Snapshot{}, errOffline
	}
	return f.Demo.SendMessage(ctx, text)
}

type harness struct {
	t     *testing.T
	m     *Model
	ctl   *flakyDemo
	quit  bool
	width int
}

// testConfig returns a config with every delay at zero and no highlight
// animation, so commands settle immediately.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.AnimationsDisabled = true
	cfg.Timing = config.Timing{ScrollStep: 1000}
	return cfg
}

func newHarness(t *testing.T, setup func(*flakyDemo)) *harness {
	t.Helper()
	ctl := &flakyDemo{Demo: chat.NewDemo(chat.DemoOptions{
		Pages:      3,
		PageSize:   10,
		ReplyDelay: time.Hour,
		Seed:       7,
	})}
	if setup != nil {
		setup(ctl)
	}

	h := &harness{t: t, ctl: ctl, m: New(testConfig(), ctl, "test")}
	t.Cleanup(h.m.Close)

	h.run(h.m.Init())
	h.resize(80, 24)
	return h
}

// run executes cmd and feeds every resulting message back through Update
// until nothing is left.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 10_000 {
			h.t.Fatal("commands did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := execCmd(c)
		if !ok {
			continue
		}
		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			h.quit = true
		default:
			_, next := h.m.Update(msg)
			queue = append(queue, next)
		}
	}
}

// send delivers msg and runs whatever it returns.
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	_, cmd := h.m.Update(msg)
	h.run(cmd)
}

func (h *harness) resize(width, height int) {
	h.t.Helper()
	h.width = width
	h.send(tea.WindowSizeMsg{Width: width, Height: height})
}

func (h *harness) press(key string) {
	h.t.Helper()
	h.send(keyPress(key))
}

func (h *harness) typeText(text string) {
	h.t.Helper()
	for _, r := range text {
		h.send(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func execCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "pgup":
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "ctrl+c":
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	default:
		return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
	}
}

// lastItem returns the newest item on the transcript.
func (h *harness) lastItem() content.Item {
	h.t.Helper()
	item, ok := content.LastItem(h.m.Transcript().Groups())
	if !ok {
		h.t.Fatal("transcript is empty")
	}
	return item
}

func (h *harness) assertPinned() {
	h.t.Helper()
	tr := h.m.Transcript()
	if tr.Offset() != tr.MaxOffset() {
		h.t.Errorf("offset = %d, want bottom %d", tr.Offset(), tr.MaxOffset())
	}
}

func (h *harness) assertIdle() {
	h.t.Helper()
	if flags := h.m.Screen().Interface().Flags(); len(flags) != 0 {
		h.t.Errorf("interface flags still held: %v", flags)
	}
	if flags := h.m.Screen().Controller().Flags(); len(flags) != 0 {
		h.t.Errorf("controller flags still held: %v", flags)
	}
}
