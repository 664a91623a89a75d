package coordinator

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/actionstate"
	"github.com/zhubert/scrollback/internal/content"
	"github.com/zhubert/scrollback/internal/errors"
	"github.com/zhubert/scrollback/internal/layout"
	"github.com/zhubert/scrollback/internal/pipeline"
	"github.com/zhubert/scrollback/internal/screen"
)

// fakeView is a transcript backed by a real layout with 2-line items. It
// implements View and pipeline.Surface.
type fakeView struct {
	*layout.Layout
	offset int
	width  int
	height int
	inset  int

	applies int
	reloads int
}

func newFakeView(height int) *fakeView {
	v := &fakeView{width: 40, height: height}
	v.Layout = layout.New(v, func(content.Item, int) int { return 2 })
	return v
}

func (v *fakeView) Offset() int          { return v.offset }
func (v *fakeView) SetOffset(offset int) { v.offset = v.ClampOffset(offset) }
func (v *fakeView) VisibleHeight() int   { return v.height - v.inset }
func (v *fakeView) Span() layout.Span    { return layout.Span{Y: 1, Height: v.height} }
func (v *fakeView) BottomInset() int     { return v.inset }
func (v *fakeView) SetBottomInset(n int) { v.inset = n }

func (v *fakeView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.SetWidth(width)
}

func (v *fakeView) Active() bool      { return v.height > 0 }
func (v *fakeView) Interacting() bool { return v.offset < v.MaxOffset() }

func (v *fakeView) Apply(_ content.Changeset, groups []content.Group, _ bool, done func()) {
	v.applies++
	pinned := !v.Interacting()
	v.SetContent(groups)
	if pinned {
		v.offset = v.MaxOffset()
	}
	done()
}

func (v *fakeView) Reload(groups []content.Group) {
	v.reloads++
	v.SetContent(groups)
}

// fakeController serves pages of numbered items.
type fakeController struct {
	mu            sync.Mutex
	pageSize      int
	total         int
	first         int
	rev           uint64
	err           error
	sendErr       error
	initialCalls  int
	previousCalls int
	sent          []string
}

func newFakeController(total, pageSize int) *fakeController {
	return &fakeController{total: total, pageSize: pageSize, first: total}
}

func (c *fakeController) snapshot() content.Snapshot {
	g := content.Group{ID: "day"}
	for i := c.first; i < c.total; i++ {
		g.Items = append(g.Items, content.Item{ID: fmt.Sprintf("m%03d", i), Body: "hi"})
	}
	for i, text := range c.sent {
		g.Items = append(g.Items, content.Item{ID: fmt.Sprintf("s%03d", i), Body: text, Outgoing: true})
	}
	c.rev++
	return content.Snapshot{Revision: c.rev, Groups: []content.Group{g}}
}

func (c *fakeController) LoadInitialMessages(context.Context) (content.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initialCalls++
	if c.err != nil {
		return content.Snapshot{}, c.err
	}
	c.first = max(0, c.total-c.pageSize)
	return c.snapshot(), nil
}

func (c *fakeController) LoadPreviousMessages(context.Context) (content.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previousCalls++
	if c.err != nil {
		return content.Snapshot{}, c.err
	}
	c.first = max(0, c.first-c.pageSize)
	return c.snapshot(), nil
}

func (c *fakeController) SendMessage(_ context.Context, text string) (content.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return content.Snapshot{}, c.sendErr
	}
	c.sent = append(c.sent, text)
	return c.snapshot(), nil
}

func (c *fakeController) Updates() <-chan content.Snapshot { return nil }

type harness struct {
	t        *testing.T
	screen   *screen.Screen
	view     *fakeView
	ctl      *fakeController
	pipeline *pipeline.Pipeline
	c        *Coordinators
	errs     []error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, view: newFakeView(10), ctl: newFakeController(30, 10)}
	h.screen = screen.New(func(err error) { h.errs = append(h.errs, err) })
	h.screen.Activate()
	h.pipeline = pipeline.New(h.screen, h.view, h.view.Layout)
	h.c = New(context.Background(), Deps{
		Screen:     h.screen,
		Pipeline:   h.pipeline,
		Controller: h.ctl,
		View:       h.view,
		Timing: Timing{
			SendDelay:        time.Millisecond,
			Transition:       time.Millisecond,
			ScrollInterval:   time.Millisecond,
			ScrollStep:       1,
			StuckTimeout:     time.Second,
			WatchdogInterval: time.Millisecond,
		},
	})
	return h
}

// run executes cmd and feeds every resulting coordinator message back until
// nothing is left.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 1000 {
			h.t.Fatal("command chain did not settle")
		}
		msg := cmd()
		if msg == nil {
			return
		}
		next, ok := h.c.Update(msg)
		if !ok {
			h.t.Fatalf("unrouted message %T", msg)
		}
		cmd = next
	}
}

func (h *harness) loadInitial() {
	h.t.Helper()
	h.run(h.c.Initial.Start())
	if !h.c.Initial.Done() {
		h.t.Fatalf("initial load failed: %v", h.errs)
	}
}

func TestInitial_LoadsAndPinsBottom(t *testing.T) {
	h := newHarness(t)
	cmd := h.c.Initial.Start()
	if !h.screen.Controller().Contains(actionstate.LoadingInitialBatch) {
		t.Fatal("loadingInitialBatch should be held while loading")
	}
	if h.c.Initial.Phase() != PhaseWorking {
		t.Errorf("phase = %s, want working", h.c.Initial.Phase())
	}
	if h.c.Initial.Start() != nil {
		t.Error("second Start while loading should be a no-op")
	}

	h.run(cmd)

	if !h.screen.Controller().IsEmpty() {
		t.Error("flag should be released")
	}
	if h.c.Initial.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle", h.c.Initial.Phase())
	}
	if n := content.CountItems(h.pipeline.Current()); n != 10 {
		t.Errorf("current items = %d, want 10", n)
	}
	if h.view.Offset() != h.view.MaxOffset() {
		t.Errorf("offset = %d, want bottom %d", h.view.Offset(), h.view.MaxOffset())
	}
	if h.ctl.initialCalls != 1 {
		t.Errorf("initial calls = %d, want 1", h.ctl.initialCalls)
	}
}

func TestInitial_FailureReleasesAndReports(t *testing.T) {
	h := newHarness(t)
	h.ctl.err = stderrors.New("offline")

	h.run(h.c.Initial.Start())

	if !h.screen.Controller().IsEmpty() {
		t.Error("flag must be released on failure")
	}
	if h.c.Initial.Done() {
		t.Error("failed load should not count as done")
	}
	if len(h.errs) != 1 || !errors.Is(h.errs[0], errors.KindFetch) {
		t.Fatalf("errs = %v, want one fetch error", h.errs)
	}

	h.ctl.err = nil
	h.run(h.c.Initial.Start())
	if !h.c.Initial.Done() {
		t.Error("Start should retry after a failure")
	}
}

func TestInitial_DeadScreenReleasesWithoutApplying(t *testing.T) {
	h := newHarness(t)
	cmd := h.c.Initial.Start()
	msg := cmd()

	h.screen.Deactivate()
	h.c.Update(msg)

	if h.view.applies != 0 || h.c.Initial.Done() {
		t.Error("result for a dead screen must not touch the view")
	}
	if h.c.Initial.Phase() != PhaseIdle {
		t.Error("coordinator should return to idle")
	}
}

func TestPagination_GuardedByInitialBatch(t *testing.T) {
	h := newHarness(t)
	if h.c.Pagination.LoadPrevious() != nil {
		t.Error("pagination before the initial batch should be a no-op")
	}
	if h.ctl.previousCalls != 0 {
		t.Error("controller should not be called")
	}
}

func TestPagination_TriggeredTwiceInOneTick(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()

	first := h.c.Pagination.LoadPrevious()
	second := h.c.Pagination.LoadPrevious()
	if first == nil {
		t.Fatal("first trigger should start a load")
	}
	if second != nil {
		t.Error("second trigger while loading should be a no-op")
	}
	h.run(first)
	h.run(second)

	if h.ctl.previousCalls != 1 {
		t.Errorf("LoadPreviousMessages calls = %d, want 1", h.ctl.previousCalls)
	}
	if n := content.CountItems(h.pipeline.Current()); n != 20 {
		t.Errorf("items after one page = %d, want 20", n)
	}
	if !h.screen.Controller().IsEmpty() {
		t.Error("loadingOlderBatch should be released")
	}
}

func TestPagination_ReleasesOnFailure(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()
	h.ctl.err = stderrors.New("timeout")

	h.run(h.c.Pagination.LoadPrevious())
	if h.screen.Controller().Contains(actionstate.LoadingOlderBatch) {
		t.Fatal("flag must be released on failure")
	}
	if len(h.errs) != 1 {
		t.Errorf("errs = %v, want one", h.errs)
	}

	h.ctl.err = nil
	if h.c.Pagination.LoadPrevious() == nil {
		t.Error("pagination should be possible again after a failure")
	}
}

func TestPagination_Exhausts(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()

	for range 2 {
		h.run(h.c.Pagination.LoadPrevious())
	}
	if h.c.Pagination.Exhausted() {
		t.Fatal("not exhausted while pages keep adding items")
	}
	h.run(h.c.Pagination.LoadPrevious())
	if !h.c.Pagination.Exhausted() {
		t.Fatal("a page with nothing older should exhaust history")
	}
	if h.c.Pagination.LoadPrevious() != nil {
		t.Error("exhausted history should not load again")
	}
	if h.ctl.previousCalls != 3 {
		t.Errorf("previous calls = %d, want 3", h.ctl.previousCalls)
	}
}

func TestPagination_SupersededPageDoesNotExhaust(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()

	msg := h.c.Pagination.LoadPrevious()()
	// A push taken after the page already contains it.
	h.pipeline.ContentUpdated(h.ctl.snapshot())
	h.c.Update(msg)

	if h.c.Pagination.Exhausted() {
		t.Error("a superseded page should not exhaust history")
	}
	if n := content.CountItems(h.pipeline.Current()); n != 20 {
		t.Errorf("items = %d, want 20", n)
	}
	if !h.screen.Controller().IsEmpty() {
		t.Error("loadingOlderBatch should be released")
	}
}

func TestCoordinators_ResetWithScreenLifetime(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()
	for range 3 {
		h.run(h.c.Pagination.LoadPrevious())
	}
	if !h.c.Pagination.Exhausted() {
		t.Fatal("history should be exhausted")
	}

	h.screen.Deactivate()
	h.screen.Activate()

	if h.c.Initial.Done() {
		t.Error("a new lifetime should need its own first batch")
	}
	if h.c.Pagination.Exhausted() {
		t.Error("a new lifetime should not inherit exhausted history")
	}
	h.loadInitial()
	if h.ctl.initialCalls != 2 {
		t.Errorf("initial calls = %d, want 2", h.ctl.initialCalls)
	}
	if h.c.Pagination.LoadPrevious() == nil {
		t.Error("pagination should be possible again")
	}
}

func TestPagination_KeepsReaderPositionWhileScrolledUp(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()
	h.view.SetOffset(5)
	anchor, ok := h.view.Capture(layout.EdgeBottom)
	if !ok {
		t.Fatal("capture failed")
	}
	before, _ := h.view.FrameOf(anchor.ItemID)
	fromBottomBefore := h.view.ContentSize() - before.Top

	h.run(h.c.Pagination.LoadPrevious())

	if h.view.reloads != 1 {
		t.Fatalf("reloads = %d, want the anchored reload", h.view.reloads)
	}
	after, _ := h.view.FrameOf(anchor.ItemID)
	if got := after.Top - h.view.Offset(); got != before.Top-5 {
		t.Errorf("anchor moved on screen: row %d, want %d", got, before.Top-5)
	}
	if h.view.ContentSize()-after.Top != fromBottomBefore {
		t.Error("anchor should keep its distance from the end")
	}
}

func TestSend_RejectsEmpty(t *testing.T) {
	h := newHarness(t)
	cmd, err := h.c.Send.Send("   ")
	if cmd != nil || !errors.Is(err, errors.KindInvalid) {
		t.Errorf("Send(blank) = %v, %v", cmd, err)
	}
	if !h.screen.Interface().IsEmpty() {
		t.Error("blank send must not acquire")
	}
}

func TestSend_HoldsFlagUntilSent(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()
	applies := h.view.applies

	cmd, err := h.c.Send.Send("hello")
	if err != nil || cmd == nil {
		t.Fatalf("Send = %v, %v", cmd, err)
	}
	if !h.screen.Interface().Contains(actionstate.SendingMessage) {
		t.Fatal("sendingMessage should be held")
	}
	if again, _ := h.c.Send.Send("again"); again != nil {
		t.Error("send while in flight should be a no-op")
	}

	// A push arriving mid-send waits for the send to finish.
	h.pipeline.ContentUpdated(h.ctl.snapshot())
	if h.view.applies != applies {
		t.Error("push should be deferred while sending")
	}

	h.run(cmd)

	if !h.screen.Interface().IsEmpty() {
		t.Error("flag should be released")
	}
	last, _ := content.LastItem(h.pipeline.Current())
	if last.Body != "hello" {
		t.Errorf("last item = %q, want the sent text", last.Body)
	}
	if h.view.Offset() != h.view.MaxOffset() {
		t.Error("view should end at the bottom after sending")
	}
	if len(h.ctl.sent) != 1 {
		t.Errorf("sent = %v", h.ctl.sent)
	}
}

func TestSend_KeepsReplyPushedWhileSending(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()

	cmd, err := h.c.Send.Send("hello")
	if err != nil {
		t.Fatal(err)
	}
	next, _ := h.c.Update(cmd())
	sent, ok := next().(SentMsg)
	if !ok {
		t.Fatal("expected the send result")
	}

	// The reply is pushed after the send snapshot was taken but before the
	// result is handled.
	reply := h.ctl.snapshot()
	g := &reply.Groups[0]
	g.Items = append(g.Items, content.Item{ID: "reply", Body: "echo: hello"})
	h.pipeline.ContentUpdated(reply)

	h.c.Update(sent)

	last, _ := content.LastItem(h.pipeline.Current())
	if last.ID != "reply" {
		t.Errorf("last item = %q, want the pushed reply", last.ID)
	}
	if h.view.Offset() != h.view.MaxOffset() {
		t.Error("view should end at the bottom after sending")
	}
	if !h.screen.Interface().IsEmpty() {
		t.Error("sendingMessage should be released")
	}
}

func TestSend_FailureReleases(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()
	h.ctl.sendErr = stderrors.New("rejected")

	cmd, _ := h.c.Send.Send("hello")
	h.run(cmd)

	if !h.screen.Interface().IsEmpty() {
		t.Error("flag must be released on failure")
	}
	if len(h.errs) != 1 || !errors.Is(h.errs[0], errors.KindFetch) {
		t.Errorf("errs = %v", h.errs)
	}
}

func TestSend_DeadScreenSkipsNetwork(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()
	cmd, _ := h.c.Send.Send("hello")
	msg := cmd()
	h.screen.Deactivate()

	next, _ := h.c.Update(msg)
	if next != nil {
		t.Error("no send should start for a dead screen")
	}
	if h.c.Send.Phase() != PhaseIdle {
		t.Error("send should return to idle")
	}
}

func TestKeyboard_FrameOutsideViewportIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()

	cmd := h.c.Keyboard.FrameWillChange(layout.Span{Y: 40, Height: 3}, time.Millisecond)
	if cmd != nil {
		t.Error("no did-change should be scheduled")
	}
	if h.screen.Interface().Contains(actionstate.ResizingForKeyboard) {
		t.Error("resizingForKeyboard must not be inserted")
	}
	if h.view.BottomInset() != 0 {
		t.Error("inset must not change")
	}
}

func TestKeyboard_InsetChangeKeepsBottom(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()

	// The transcript spans rows 1..10; a 3-row composer at row 8 covers 3.
	cmd := h.c.Keyboard.FrameWillChange(layout.Span{Y: 8, Height: 3}, time.Millisecond)
	if cmd == nil {
		t.Fatal("expected a scheduled did-change")
	}
	if !h.c.Keyboard.Resizing() || !h.screen.Interface().Contains(actionstate.ResizingForKeyboard) {
		t.Fatal("resizingForKeyboard should be held")
	}
	if h.view.BottomInset() != 3 {
		t.Errorf("inset = %d, want 3", h.view.BottomInset())
	}
	if h.view.Offset() != h.view.MaxOffset() {
		t.Errorf("offset = %d, want still pinned at %d", h.view.Offset(), h.view.MaxOffset())
	}

	if h.c.Keyboard.FrameWillChange(layout.Span{Y: 8, Height: 3}, time.Millisecond) != nil {
		t.Error("unchanged inset should be ignored")
	}

	h.run(cmd)
	if h.screen.Interface().Contains(actionstate.ResizingForKeyboard) {
		t.Error("did-change should release")
	}
}

func TestKeyboard_OnlyLatestDidChangeReleases(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()

	first := h.c.Keyboard.FrameWillChange(layout.Span{Y: 8, Height: 3}, time.Millisecond)
	second := h.c.Keyboard.FrameWillChange(layout.Span{Y: 6, Height: 5}, time.Millisecond)

	h.run(first)
	if !h.c.Keyboard.Resizing() {
		t.Fatal("superseded did-change released the flag")
	}
	h.run(second)
	if h.c.Keyboard.Resizing() {
		t.Error("latest did-change should release")
	}

	// A stray did-change with nothing in progress is a no-op.
	h.c.Keyboard.FrameDidChange(FrameDidChangeMsg{})
	if !h.screen.Interface().IsEmpty() {
		t.Error("stray did-change changed state")
	}
}

func TestResize_ReleasesOnLatestTransition(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()

	first := h.c.Resize.Resize(20, 8)
	second := h.c.Resize.Resize(30, 6)
	if h.view.height != 6 || h.view.width != 30 {
		t.Errorf("view size = %dx%d, want 30x6", h.view.width, h.view.height)
	}
	if h.view.Offset() != h.view.MaxOffset() {
		t.Error("bottom should stay pinned across resizes")
	}

	h.run(first)
	if !h.screen.Interface().Contains(actionstate.ResizingForFrameSize) {
		t.Fatal("earlier transition must not release")
	}
	h.run(second)
	if !h.screen.Interface().IsEmpty() {
		t.Error("latest transition should release")
	}
	if h.c.Resize.Phase() != PhaseIdle {
		t.Error("resize should be idle")
	}
}

func TestResize_DefersApply(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()
	applies := h.view.applies

	settle := h.c.Resize.Resize(30, 12)
	h.run(mustSend(t, h.c.Send, "during resize"))
	if h.view.applies != applies {
		t.Fatal("apply should wait for the resize transition")
	}
	if _, ok := h.pipeline.Pending(); !ok {
		t.Fatal("sent snapshot should be pending")
	}
	h.run(settle)
	if h.view.applies != applies+1 {
		t.Errorf("applies = %d, want exactly one more", h.view.applies-applies)
	}
}

func mustSend(t *testing.T, s *Send, text string) tea.Cmd {
	t.Helper()
	cmd, err := s.Send(text)
	if err != nil || cmd == nil {
		t.Fatalf("Send(%q) = %v, %v", text, cmd, err)
	}
	return cmd
}

func TestScroll_ToTopLoadsPrevious(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()

	cmd := h.c.Scroll.ScrollToTop()
	if !h.screen.Interface().Contains(actionstate.ScrollingToTop) {
		t.Fatal("scrollingToTop should be held")
	}
	if h.c.Scroll.ScrollToTop() != nil {
		t.Error("second scroll to top should be a no-op")
	}
	h.run(cmd)

	if h.screen.Interface().Contains(actionstate.ScrollingToTop) {
		t.Error("flag should be released at the top")
	}
	if h.ctl.previousCalls != 1 {
		t.Errorf("previous calls = %d, want 1", h.ctl.previousCalls)
	}
}

func TestScroll_ToBottom(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()
	h.view.SetOffset(0)

	h.run(h.c.Scroll.ScrollToBottom())
	if h.view.Offset() != h.view.MaxOffset() {
		t.Errorf("offset = %d, want %d", h.view.Offset(), h.view.MaxOffset())
	}
	if !h.screen.Interface().IsEmpty() {
		t.Error("flag should be released")
	}
	if h.ctl.previousCalls != 0 {
		t.Error("scroll to bottom must not paginate")
	}
}

func TestScroll_DirectionSwitchReleasesPrevious(t *testing.T) {
	h := newHarness(t)
	h.loadInitial()

	stale := h.c.Scroll.ScrollToTop()
	fresh := h.c.Scroll.ScrollToBottom()
	if h.screen.Interface().Contains(actionstate.ScrollingToTop) {
		t.Error("switching direction should release scrollingToTop")
	}
	h.run(stale)
	if !h.screen.Interface().Contains(actionstate.ScrollingToBottom) {
		t.Error("a stale step must not stop the new animation")
	}
	h.run(fresh)
	if !h.screen.Interface().IsEmpty() {
		t.Error("flags should be released")
	}

	h.c.Scroll.ScrollToTop()
	h.c.Scroll.Cancel()
	if !h.screen.Interface().IsEmpty() {
		t.Error("Cancel should release")
	}
}

func TestWatchdog_ReportsStuckFlagOnce(t *testing.T) {
	h := newHarness(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h.screen.Interface().SetClock(func() time.Time { return base })
	h.screen.Interface().Insert(actionstate.SendingMessage)

	h.c.Watchdog.Check(base.Add(500 * time.Millisecond))
	if len(h.errs) != 0 {
		t.Fatal("flag within timeout reported")
	}
	h.c.Watchdog.Check(base.Add(2 * time.Second))
	h.c.Watchdog.Check(base.Add(3 * time.Second))
	if len(h.errs) != 1 || !errors.Is(h.errs[0], errors.KindStuckFlag) {
		t.Fatalf("errs = %v, want one stuck flag error", h.errs)
	}
	if !h.screen.Interface().Contains(actionstate.SendingMessage) {
		t.Error("watchdog must not release flags")
	}
	if h.c.Watchdog.Start() == nil {
		t.Error("watchdog should schedule ticks when enabled")
	}
}

func TestCoordinators_BusyAndUnrouted(t *testing.T) {
	h := newHarness(t)
	if len(h.c.Busy()) != 0 {
		t.Errorf("Busy() = %v, want none", h.c.Busy())
	}
	h.c.Initial.Start()
	if busy := h.c.Busy(); len(busy) != 1 || busy[0] != "initial" {
		t.Errorf("Busy() = %v, want [initial]", busy)
	}
	if _, ok := h.c.Update(tea.KeyPressMsg{}); ok {
		t.Error("foreign messages should not be claimed")
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{
		PhaseIdle:      "idle",
		PhaseAcquiring: "acquiring",
		PhaseWorking:   "working",
		PhaseReleasing: "releasing",
	} {
		if p.String() != want {
			t.Errorf("%d.String() = %q, want %q", p, p.String(), want)
		}
	}
}
