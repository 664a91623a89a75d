package content

import (
	"slices"
	"testing"
	"time"
)

func item(id string) Item {
	return Item{ID: id, Author: "ana", Body: "body " + id, Timestamp: time.Unix(1700000000, 0)}
}

func group(id string, ids ...string) Group {
	g := Group{ID: id, Title: "Day " + id}
	for _, i := range ids {
		g.Items = append(g.Items, item(i))
	}
	return g
}

func TestDiff_Identical(t *testing.T) {
	snap := []Group{group("g1", "m1", "m2"), group("g2", "m3")}
	cs := Diff(snap, Clone(snap))
	if !cs.IsEmpty() {
		t.Errorf("Diff of identical snapshots = %s, want empty", cs)
	}
}

func TestDiff_FirstBatch(t *testing.T) {
	cs := Diff(nil, []Group{group("g1", "m1")})

	if !slices.Equal(cs.InsertedGroups, []int{0}) {
		t.Errorf("InsertedGroups = %v, want [0]", cs.InsertedGroups)
	}
	if !slices.Equal(cs.InsertedItems, []IndexPath{{0, 0}}) {
		t.Errorf("InsertedItems = %v, want [0.0]", cs.InsertedItems)
	}
	if cs.HasLeadingInsertions() {
		t.Error("first batch is not a leading insertion")
	}
}

func TestDiff_AppendAtBottom(t *testing.T) {
	prev := []Group{group("g1", "m1", "m2")}
	next := []Group{group("g1", "m1", "m2", "m3")}

	cs := Diff(prev, next)
	if !slices.Equal(cs.InsertedItems, []IndexPath{{0, 2}}) {
		t.Errorf("InsertedItems = %v", cs.InsertedItems)
	}
	if cs.HasLeadingInsertions() || cs.HasGroupInsertions() {
		t.Error("append should not be leading and should not insert groups")
	}
	if cs.Count() != 1 {
		t.Errorf("Count() = %d, want 1", cs.Count())
	}
}

func TestDiff_PrependGroup(t *testing.T) {
	prev := []Group{group("g2", "m3")}
	next := []Group{group("g1", "m1", "m2"), group("g2", "m3")}

	cs := Diff(prev, next)
	if !slices.Equal(cs.InsertedGroups, []int{0}) {
		t.Errorf("InsertedGroups = %v", cs.InsertedGroups)
	}
	if !cs.HasLeadingInsertions() {
		t.Error("prepended group should be a leading insertion")
	}
	if len(cs.MovedGroups) != 0 {
		t.Errorf("index shift is not a move: %v", cs.MovedGroups)
	}
}

func TestDiff_PrependItemsIntoFirstGroup(t *testing.T) {
	prev := []Group{group("g1", "m3", "m4")}
	next := []Group{group("g1", "m1", "m2", "m3", "m4")}

	cs := Diff(prev, next)
	if !cs.HasLeadingInsertions() {
		t.Error("items inserted above the first visible item should be leading")
	}
	if cs.HasGroupInsertions() {
		t.Error("no group was inserted")
	}
	if len(cs.MovedItems) != 0 {
		t.Errorf("shifted items are not moves: %v", cs.MovedItems)
	}
}

func TestDiff_DeleteAndUpdate(t *testing.T) {
	prev := []Group{group("g1", "m1", "m2", "m3")}
	next := Clone(prev)
	next[0].Items = slices.Delete(next[0].Items, 0, 1)
	next[0].Items[0].Status = StatusDelivered

	cs := Diff(prev, next)
	if !slices.Equal(cs.DeletedItems, []IndexPath{{0, 0}}) {
		t.Errorf("DeletedItems = %v", cs.DeletedItems)
	}
	if !slices.Equal(cs.UpdatedItems, []IndexPath{{0, 0}}) {
		t.Errorf("UpdatedItems = %v, want new path 0.0", cs.UpdatedItems)
	}
}

func TestDiff_GroupTitleUpdate(t *testing.T) {
	prev := []Group{group("g1", "m1")}
	next := Clone(prev)
	next[0].Title = "Today"

	cs := Diff(prev, next)
	if !slices.Equal(cs.UpdatedGroups, []int{0}) {
		t.Errorf("UpdatedGroups = %v", cs.UpdatedGroups)
	}
}

func TestDiff_Moves(t *testing.T) {
	prev := []Group{group("g1", "m1", "m2", "m3"), group("g2", "m4")}
	next := []Group{group("g2", "m4", "m1"), group("g1", "m3", "m2")}

	cs := Diff(prev, next)

	if len(cs.MovedGroups) != 1 {
		t.Errorf("MovedGroups = %v, want one move", cs.MovedGroups)
	}

	wantItemMoves := map[string]bool{"0.0->0.1": false, "0.2->1.0": false}
	for _, mv := range cs.MovedItems {
		key := mv.From.String() + "->" + mv.To.String()
		if _, ok := wantItemMoves[key]; !ok {
			t.Errorf("unexpected item move %s", key)
		}
		wantItemMoves[key] = true
	}
	for key, seen := range wantItemMoves {
		if !seen {
			t.Errorf("missing item move %s", key)
		}
	}
}

func TestDiff_DuplicateIDsUseFirst(t *testing.T) {
	next := []Group{group("g1", "m1", "m1")}
	cs := Diff(nil, next)
	if len(cs.InsertedItems) != 1 {
		t.Errorf("InsertedItems = %v, want one entry for duplicated id", cs.InsertedItems)
	}
}

func TestFingerprint(t *testing.T) {
	a := item("m1")
	b := a
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("equal items must share a fingerprint")
	}
	b.Timestamp = b.Timestamp.Add(time.Second)
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("timestamp change should change the fingerprint")
	}
}

func TestHelpers(t *testing.T) {
	snap := []Group{group("g1", "m1"), group("g2"), group("g3", "m2", "m3")}

	if n := CountItems(snap); n != 3 {
		t.Errorf("CountItems = %d, want 3", n)
	}
	last, ok := LastItem(snap)
	if !ok || last.ID != "m3" {
		t.Errorf("LastItem = %v, %v", last.ID, ok)
	}
	if _, ok := LastItem([]Group{group("empty")}); ok {
		t.Error("LastItem of empty groups should report false")
	}
	path, ok := FindItem(snap, "m2")
	if !ok || path != (IndexPath{Group: 2, Item: 0}) {
		t.Errorf("FindItem = %v, %v", path, ok)
	}

	clone := Clone(snap)
	clone[2].Items[0].Body = "changed"
	if snap[2].Items[0].Body == "changed" {
		t.Error("Clone must not share item storage")
	}
}

func TestLongestIncreasing(t *testing.T) {
	tests := []struct {
		seq  []int
		keep int
	}{
		{nil, 0},
		{[]int{0, 1, 2}, 3},
		{[]int{2, 1, 0}, 1},
		{[]int{1, 0, 2, 3}, 3},
	}
	for _, tt := range tests {
		keep := longestIncreasing(tt.seq)
		n := 0
		for _, k := range keep {
			if k {
				n++
			}
		}
		if n != tt.keep {
			t.Errorf("longestIncreasing(%v) kept %d, want %d", tt.seq, n, tt.keep)
		}
	}
}
