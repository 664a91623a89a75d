// Package content defines the transcript snapshot model and the edit script
// computed between two snapshots.
//
// A snapshot is an ordered slice of Groups. Snapshots are values: once handed
// to the pipeline they are never mutated, only replaced.
package content

import (
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

// Status is the delivery state of an item.
type Status string

const (
	StatusSending   Status = "sending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// Item is one message in the transcript. ID is its stable identity; every
// other field takes part in change detection.
type Item struct {
	ID        string
	Author    string
	Body      string
	Timestamp time.Time
	Outgoing  bool
	Status    Status
}

// Group is an ordered, identity-stable cluster of items, such as one day.
type Group struct {
	ID    string
	Title string
	Items []Item
}

// fingerprintView flattens Item into plain fields for hashing.
type fingerprintView struct {
	ID        string
	Author    string
	Body      string
	Timestamp int64
	Outgoing  bool
	Status    string
}

// Fingerprint returns a hash of the item's value. Two items with the same ID
// and different fingerprints are reported as updated by Diff.
func (i Item) Fingerprint() uint64 {
	h, err := hashstructure.Hash(fingerprintView{
		ID:        i.ID,
		Author:    i.Author,
		Body:      i.Body,
		Timestamp: i.Timestamp.UnixNano(),
		Outgoing:  i.Outgoing,
		Status:    string(i.Status),
	}, hashstructure.FormatV2, nil)
	if err != nil {
		// Unreachable: every field of fingerprintView is hashable.
		return 0
	}
	return h
}

// Snapshot is a complete transcript state as produced by a controller.
// Revision grows with every snapshot the controller hands out, so of two
// snapshots the one with the higher revision is the newer. Zero means
// unversioned.
type Snapshot struct {
	Revision uint64
	Groups   []Group
}

// Clone returns a deep copy of groups so callers can build the next
// snapshot without touching the displayed one.
func Clone(groups []Group) []Group {
	if groups == nil {
		return nil
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{ID: g.ID, Title: g.Title, Items: append([]Item(nil), g.Items...)}
	}
	return out
}

// CountItems returns the total number of items across groups.
func CountItems(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Items)
	}
	return n
}

// LastItem returns the final item of the snapshot.
func LastItem(groups []Group) (Item, bool) {
	for gi := len(groups) - 1; gi >= 0; gi-- {
		if items := groups[gi].Items; len(items) > 0 {
			return items[len(items)-1], true
		}
	}
	return Item{}, false
}

// FindItem returns the index path of the item with id.
func FindItem(groups []Group, id string) (IndexPath, bool) {
	for gi, g := range groups {
		for ii, it := range g.Items {
			if it.ID == id {
				return IndexPath{Group: gi, Item: ii}, true
			}
		}
	}
	return IndexPath{}, false
}
