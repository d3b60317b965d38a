package domain

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	Layout    Layout     `json:"layout"`
	Current   *int       `json:"current,omitempty"`
	Direction *Direction `json:"direction,omitempty"`
	Epoch     *uint64    `json:"epoch,omitempty"`
	Total     *int       `json:"total,omitempty"`
}

// Diff calculates the difference between old and new.
// If old is nil, the diff carries every field of new (initial load).
// It returns nil when nothing changed.
func Diff(old, new *Snapshot) *SnapshotDiff {
	if new == nil {
		return nil
	}

	diff := &SnapshotDiff{Layout: new.Layout}

	if old == nil || old.Current != new.Current {
		diff.Current = &new.Current
	}
	if old == nil || old.Total != new.Total {
		diff.Total = &new.Total
	}
	if new.Direction != "" && (old == nil || old.Direction != new.Direction) {
		diff.Direction = &new.Direction
	}
	// A repeated target index still bumps the epoch and must replay.
	if new.Epoch != 0 && (old == nil || old.Epoch != new.Epoch) {
		diff.Epoch = &new.Epoch
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Current == nil &&
		d.Direction == nil &&
		d.Epoch == nil &&
		d.Total == nil
}
