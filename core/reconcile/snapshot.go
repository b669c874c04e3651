package reconcile

// SnapshotEntry is the part of a CRM record remembered between runs.
type SnapshotEntry struct {
	ID        string `json:"id"`
	UpdatedAt string `json:"updated_at"`
	Status    Status `json:"status"`
}

// Snapshot is the CRM record list seen by the previous run, keyed by record id.
type Snapshot struct {
	Entries []SnapshotEntry `json:"entries"`
	index   map[string]int
}

// NewSnapshot builds a snapshot from raw entries. Later duplicates win.
func NewSnapshot(entries []SnapshotEntry) Snapshot {
	s := Snapshot{Entries: entries, index: make(map[string]int, len(entries))}
	for i, e := range entries {
		s.index[e.ID] = i
	}
	return s
}

// SnapshotOf captures the current CRM record list.
func SnapshotOf(records []SourceRecord) Snapshot {
	entries := make([]SnapshotEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, EntryOf(r))
	}
	return NewSnapshot(entries)
}

// EntryOf returns the snapshot entry of a single record.
func EntryOf(r SourceRecord) SnapshotEntry {
	return SnapshotEntry{ID: r.ID, UpdatedAt: r.UpdatedAt, Status: r.Status}
}

// Empty reports whether no previous run was recorded.
func (s Snapshot) Empty() bool {
	return len(s.Entries) == 0
}

// Lookup returns the entry for a record id.
func (s Snapshot) Lookup(id string) (SnapshotEntry, bool) {
	if s.index == nil {
		s = NewSnapshot(s.Entries)
	}
	i, ok := s.index[id]
	if !ok {
		return SnapshotEntry{}, false
	}
	return s.Entries[i], true
}

// NeedsAttention reports whether a record is new or changed since the snapshot.
// With an empty snapshot every record needs attention.
func (s Snapshot) NeedsAttention(r SourceRecord) bool {
	if s.Empty() {
		return true
	}
	prev, ok := s.Lookup(r.ID)
	if !ok {
		return true
	}
	return prev.UpdatedAt != r.UpdatedAt
}
