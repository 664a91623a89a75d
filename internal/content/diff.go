package content

import (
	"fmt"
	"sort"
)

// IndexPath addresses an item inside a snapshot.
type IndexPath struct {
	Group int
	Item  int
}

func (p IndexPath) String() string {
	return fmt.Sprintf("%d.%d", p.Group, p.Item)
}

// GroupMove records a group that changed position.
type GroupMove struct {
	From, To int
}

// ItemMove records an item that changed position, possibly across groups.
type ItemMove struct {
	From, To IndexPath
}

// Changeset is the edit script that turns one snapshot into another.
// Deletions and move sources use indexes into the old snapshot; insertions,
// move targets and updates use indexes into the new one.
type Changeset struct {
	DeletedGroups  []int
	InsertedGroups []int
	MovedGroups    []GroupMove
	UpdatedGroups  []int

	DeletedItems  []IndexPath
	InsertedItems []IndexPath
	MovedItems    []ItemMove
	UpdatedItems  []IndexPath

	// leadingInsert is set when something was inserted ahead of the first
	// item that survived from the old snapshot.
	leadingInsert bool
}

// IsEmpty reports whether the two snapshots were identical.
func (c Changeset) IsEmpty() bool {
	return c.Count() == 0
}

// Count returns the total number of edits.
func (c Changeset) Count() int {
	return len(c.DeletedGroups) + len(c.InsertedGroups) + len(c.MovedGroups) + len(c.UpdatedGroups) +
		len(c.DeletedItems) + len(c.InsertedItems) + len(c.MovedItems) + len(c.UpdatedItems)
}

// HasGroupInsertions reports whether any group was inserted.
func (c Changeset) HasGroupInsertions() bool {
	return len(c.InsertedGroups) > 0
}

// HasLeadingInsertions reports whether content was inserted above everything
// that was already on screen, which is what loading older history looks like.
func (c Changeset) HasLeadingInsertions() bool {
	return c.leadingInsert
}

func (c Changeset) String() string {
	return fmt.Sprintf("groups(-%d +%d ~%d *%d) items(-%d +%d ~%d *%d)",
		len(c.DeletedGroups), len(c.InsertedGroups), len(c.MovedGroups), len(c.UpdatedGroups),
		len(c.DeletedItems), len(c.InsertedItems), len(c.MovedItems), len(c.UpdatedItems))
}

type itemLoc struct {
	path    IndexPath
	groupID string
	print   uint64
}

// Diff computes the edit script from prev to next, matching groups and items by
// ID. Items may move between groups. Duplicate IDs within one snapshot are
// resolved in favor of the first occurrence.
func Diff(prev, next []Group) Changeset {
	var cs Changeset

	oldGroups := indexGroups(prev)
	newGroups := indexGroups(next)

	for i, g := range prev {
		if _, ok := newGroups[g.ID]; !ok {
			cs.DeletedGroups = append(cs.DeletedGroups, i)
		}
	}

	// Old indexes of surviving groups, in new order.
	var survivors []int
	var survivorNew []int
	for j, g := range next {
		i, ok := oldGroups[g.ID]
		if !ok {
			cs.InsertedGroups = append(cs.InsertedGroups, j)
			continue
		}
		survivors = append(survivors, i)
		survivorNew = append(survivorNew, j)
		if prev[i].Title != g.Title {
			cs.UpdatedGroups = append(cs.UpdatedGroups, j)
		}
	}
	stable := longestIncreasing(survivors)
	for k, i := range survivors {
		if !stable[k] {
			cs.MovedGroups = append(cs.MovedGroups, GroupMove{From: i, To: survivorNew[k]})
		}
	}

	oldItems := indexItems(prev)
	newItems := indexItems(next)

	for id, loc := range oldItems {
		if _, ok := newItems[id]; !ok {
			cs.DeletedItems = append(cs.DeletedItems, loc.path)
		}
	}
	sortPaths(cs.DeletedItems)

	seenSurvivor := false
	for j, g := range next {
		var sameGroupOld []int
		var sameGroupNew []int
		for k, it := range g.Items {
			if first := newItems[it.ID]; first.path != (IndexPath{Group: j, Item: k}) {
				continue
			}
			newPath := IndexPath{Group: j, Item: k}
			loc, ok := oldItems[it.ID]
			if !ok {
				cs.InsertedItems = append(cs.InsertedItems, newPath)
				if !seenSurvivor && len(oldItems) > 0 {
					cs.leadingInsert = true
				}
				continue
			}
			seenSurvivor = true
			if loc.print != it.Fingerprint() {
				cs.UpdatedItems = append(cs.UpdatedItems, newPath)
			}
			if loc.groupID != g.ID {
				cs.MovedItems = append(cs.MovedItems, ItemMove{From: loc.path, To: newPath})
				continue
			}
			sameGroupOld = append(sameGroupOld, loc.path.Item)
			sameGroupNew = append(sameGroupNew, k)
		}
		stable := longestIncreasing(sameGroupOld)
		for n, oi := range sameGroupOld {
			if !stable[n] {
				cs.MovedItems = append(cs.MovedItems, ItemMove{
					From: IndexPath{Group: oldGroups[g.ID], Item: oi},
					To:   IndexPath{Group: j, Item: sameGroupNew[n]},
				})
			}
		}
	}

	// A new group ahead of the first surviving group counts as leading even
	// when it is empty.
	if len(survivorNew) > 0 && len(cs.InsertedGroups) > 0 && cs.InsertedGroups[0] < survivorNew[0] {
		cs.leadingInsert = true
	}

	return cs
}

func indexGroups(groups []Group) map[string]int {
	idx := make(map[string]int, len(groups))
	for i, g := range groups {
		if _, dup := idx[g.ID]; !dup {
			idx[g.ID] = i
		}
	}
	return idx
}

func indexItems(groups []Group) map[string]itemLoc {
	idx := make(map[string]itemLoc)
	for gi, g := range groups {
		for ii, it := range g.Items {
			if _, dup := idx[it.ID]; dup {
				continue
			}
			idx[it.ID] = itemLoc{
				path:    IndexPath{Group: gi, Item: ii},
				groupID: g.ID,
				print:   it.Fingerprint(),
			}
		}
	}
	return idx
}

func sortPaths(paths []IndexPath) {
	sort.Slice(paths, func(a, b int) bool {
		if paths[a].Group != paths[b].Group {
			return paths[a].Group < paths[b].Group
		}
		return paths[a].Item < paths[b].Item
	})
}

// longestIncreasing marks the members of one longest strictly increasing
// subsequence of seq. Unmarked positions are the minimal set of moves.
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}

	// tails[k] is the position ending the best subsequence of length k+1.
	tails := []int{}
	prev := make([]int, len(seq))
	for i, v := range seq {
		n := sort.Search(len(tails), func(k int) bool { return seq[tails[k]] >= v })
		if n > 0 {
			prev[i] = tails[n-1]
		} else {
			prev[i] = -1
		}
		if n == len(tails) {
			tails = append(tails, i)
		} else {
			tails[n] = i
		}
	}
	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		keep[i] = true
	}
	return keep
}
