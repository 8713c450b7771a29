package cache

import (
	"fmt"
	"time"
)

// DefaultSnapshotTTL bounds how old a last-known collection may be before it
// is no longer offered as a fallback.
const DefaultSnapshotTTL = 7 * 24 * time.Hour

// Snapshot is the last successfully fetched collection for one resource.
type Snapshot[T any] struct {
	Items     []T       `json:"items"`
	Total     int       `json:"total"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Age reports how long ago the snapshot was taken.
func (s Snapshot[T]) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

func snapshotKey(resource string) string {
	return "collection:" + resource
}

// SaveSnapshot records items as the last-known collection for resource.
func SaveSnapshot[T any](c Cache, resource string, items []T, total int) error {
	if c == nil {
		return nil
	}

	snap := Snapshot[T]{Items: items, Total: total, FetchedAt: time.Now().UTC()}
	if err := c.Set(snapshotKey(resource), snap, DefaultSnapshotTTL); err != nil {
		return fmt.Errorf("save %s snapshot: %w", resource, err)
	}

	return nil
}

// LoadSnapshot returns the last-known collection for resource, if any.
func LoadSnapshot[T any](c Cache, resource string) (Snapshot[T], bool, error) {
	var snap Snapshot[T]

	if c == nil {
		return snap, false, nil
	}

	found, err := c.Get(snapshotKey(resource), &snap)
	if err != nil {
		return Snapshot[T]{}, false, fmt.Errorf("load %s snapshot: %w", resource, err)
	}

	return snap, found, nil
}

// DropSnapshots forgets the collections for the given resources, used on
// logout so another admin never sees the previous session's rows.
func DropSnapshots(c Cache, resources ...string) error {
	if c == nil {
		return nil
	}

	for _, r := range resources {
		if err := c.Delete(snapshotKey(r)); err != nil {
			return err
		}
	}

	return nil
}
