package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zhubert/scrollback/internal/content"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newTestDemo(opts DemoOptions) *Demo {
	opts.Now = func() time.Time { return fixedNow }
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	return NewDemo(opts)
}

func TestDemo_Paging(t *testing.T) {
	d := newTestDemo(DemoOptions{Pages: 3, PageSize: 4})
	defer d.Close()
	ctx := context.Background()

	snap, err := d.LoadInitialMessages(ctx)
	if err != nil {
		t.Fatalf("LoadInitialMessages: %v", err)
	}
	if n := content.CountItems(snap.Groups); n != 4 {
		t.Fatalf("initial items = %d, want 4", n)
	}

	for want := 8; want <= 12; want += 4 {
		snap, err = d.LoadPreviousMessages(ctx)
		if err != nil {
			t.Fatalf("LoadPreviousMessages: %v", err)
		}
		if n := content.CountItems(snap.Groups); n != want {
			t.Errorf("items after page = %d, want %d", n, want)
		}
	}
	if !d.Exhausted() {
		t.Error("history should be exhausted after all pages")
	}

	again, _ := d.LoadPreviousMessages(ctx)
	if !content.Diff(snap.Groups, again.Groups).IsEmpty() {
		t.Error("loading past the start should not change the snapshot")
	}
}

func TestDemo_GroupsByDay(t *testing.T) {
	d := newTestDemo(DemoOptions{Pages: 1, PageSize: 60})
	defer d.Close()

	snap, err := d.LoadInitialMessages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	groups := snap.Groups
	if len(groups) < 2 {
		t.Fatalf("60 messages should span several days, got %d groups", len(groups))
	}

	var prev time.Time
	seen := map[string]bool{}
	for _, g := range groups {
		if seen[g.ID] {
			t.Errorf("group %s appears twice", g.ID)
		}
		seen[g.ID] = true
		for _, it := range g.Items {
			if it.Timestamp.Format(time.DateOnly) != g.ID {
				t.Errorf("item %s dated %s filed under %s", it.ID, it.Timestamp, g.ID)
			}
			if it.Timestamp.Before(prev) {
				t.Errorf("items out of order at %s", it.ID)
			}
			prev = it.Timestamp
		}
	}
}

func TestDemo_SendAndEchoReply(t *testing.T) {
	d := newTestDemo(DemoOptions{Pages: 1, PageSize: 2, ReplyDelay: time.Millisecond})
	defer d.Close()
	ctx := context.Background()

	if _, err := d.LoadInitialMessages(ctx); err != nil {
		t.Fatal(err)
	}
	snap, err := d.SendMessage(ctx, "hello")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	last, _ := content.LastItem(snap.Groups)
	if last.Body != "hello" || !last.Outgoing || last.Status != content.StatusSent {
		t.Errorf("last item = %+v, want the sent message", last)
	}

	select {
	case pushed := <-d.Updates():
		reply, _ := content.LastItem(pushed.Groups)
		if reply.Author != "echo" || !strings.Contains(reply.Body, "hello") {
			t.Errorf("reply = %+v", reply)
		}
		path, ok := content.FindItem(pushed.Groups, last.ID)
		if !ok {
			t.Fatal("sent message missing from pushed snapshot")
		}
		if st := pushed.Groups[path.Group].Items[path.Item].Status; st != content.StatusDelivered {
			t.Errorf("sent message status = %s, want delivered", st)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reply pushed")
	}
}

func TestDemo_FailureInjection(t *testing.T) {
	d := newTestDemo(DemoOptions{FailRate: 1})
	defer d.Close()

	if _, err := d.LoadInitialMessages(context.Background()); !errors.Is(err, ErrInjected) {
		t.Errorf("err = %v, want ErrInjected", err)
	}
}

func TestDemo_LatencyHonorsContext(t *testing.T) {
	d := newTestDemo(DemoOptions{Latency: time.Hour})
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.LoadPreviousMessages(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDemo_CloseStopsReplies(t *testing.T) {
	d := newTestDemo(DemoOptions{ReplyDelay: time.Hour})
	if _, err := d.SendMessage(context.Background(), "bye"); err != nil {
		t.Fatal(err)
	}
	d.Close()
	d.Close()

	if _, ok := <-d.Updates(); ok {
		t.Error("updates should be closed without a pending reply")
	}
	if _, err := d.SendMessage(context.Background(), "late"); err == nil {
		t.Error("send after Close should fail")
	}
}

func TestDemo_Receive(t *testing.T) {
	d := newTestDemo(DemoOptions{Pages: 1, PageSize: 3})
	if _, err := d.LoadInitialMessages(context.Background()); err != nil {
		t.Fatal(err)
	}

	d.Receive("ana", "are you there?")
	pushed := <-d.Updates()
	last, _ := content.LastItem(pushed.Groups)
	if last.Author != "ana" || last.Body != "are you there?" || last.Outgoing {
		t.Errorf("last item = %+v, want the received message", last)
	}
	if got := content.CountItems(pushed.Groups); got != 4 {
		t.Errorf("items = %d, want 4", got)
	}

	d.Close()
	d.Receive("ana", "late")
	if _, ok := <-d.Updates(); ok {
		t.Error("nothing should be pushed after Close")
	}
}

func TestDemo_PushKeepsNewest(t *testing.T) {
	d := newTestDemo(DemoOptions{})
	defer d.Close()

	for i := range cap(d.updates) + 3 {
		d.push(content.Snapshot{Revision: uint64(i + 1)})
	}
	var last content.Snapshot
	for len(d.updates) > 0 {
		last = <-d.updates
	}
	if want := uint64(cap(d.updates) + 3); last.Revision != want {
		t.Errorf("newest delivered = %d, want %d", last.Revision, want)
	}
}

func TestDemo_RevisionsIncrease(t *testing.T) {
	d := newTestDemo(DemoOptions{Pages: 2, PageSize: 3, ReplyDelay: time.Millisecond})
	defer d.Close()
	ctx := context.Background()

	initial, err := d.LoadInitialMessages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	sent, err := d.SendMessage(ctx, "hello")
	if err != nil {
		t.Fatal(err)
	}
	reply := <-d.Updates()
	page, err := d.LoadPreviousMessages(ctx)
	if err != nil {
		t.Fatal(err)
	}

	revs := []uint64{initial.Revision, sent.Revision, reply.Revision, page.Revision}
	for i := 1; i < len(revs); i++ {
		if revs[i] <= revs[i-1] {
			t.Fatalf("revisions %v should strictly increase", revs)
		}
	}
	if initial.Revision == 0 {
		t.Error("demo snapshots should never be unversioned")
	}
}

func TestEchoBody(t *testing.T) {
	if got := echoBody("hi"); got != "echo: hi" {
		t.Errorf("echoBody = %q", got)
	}
	if got := echoBody("```go\nx\n```"); !strings.HasPrefix(got, "Nice snippet") {
		t.Errorf("echoBody code = %q", got)
	}
}
