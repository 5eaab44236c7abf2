// Package history keeps the append-only version log of one open template.
//
// A [Manager] deep-copies the live canvas into a [Snapshot] on every save and
// can copy any snapshot back into the canvas. Snapshots are never edited,
// reordered or removed; indexes are chronological (0 is the oldest) and stay
// valid for the life of the Manager.
//
// The Manager also derives the session's save state. It compares the canvas
// revision, and a metadata counter bumped by [Manager.MarkDirty], against the
// values recorded at the last save or load:
//
//	Clean --edit--> Dirty --save--> Saved --edit--> Dirty ...
package history

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/errors"
)

// State is the save state of a session.
type State int

const (
	// Clean means nothing has changed since the template was opened.
	Clean State = iota
	// Dirty means there are unsaved changes.
	Dirty
	// Saved means the live layout matches the newest snapshot.
	Saved
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Saved:
		return "saved"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "clean":
		*s = Clean
	case "dirty":
		*s = Dirty
	case "saved":
		*s = Saved
	default:
		return fmt.Errorf("unknown state %q", text)
	}
	return nil
}

// Snapshot is a frozen copy of a layout. Version is 1-based and increases by
// one per save.
type Snapshot struct {
	Version   int           `json:"version" bson:"version"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
	Name      string        `json:"name" bson:"name"`
	Label     string        `json:"label,omitempty" bson:"label,omitempty"`
	Layout    []canvas.Item `json:"layout" bson:"layout"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	s.Layout = canvas.CloneLayout(s.Layout)
	return s
}

// Entry is a snapshot with its chronological index.
type Entry struct {
	Index int `json:"index"`
	Snapshot
}

// Mark identifies the edit state a snapshot was captured at.
type Mark struct {
	layout uint64
	meta   uint64
}

// Manager owns the version log for one template. It is safe for concurrent
// use.
type Manager struct {
	mu      sync.Mutex
	model   *canvas.Model
	snaps   []Snapshot
	meta    uint64
	clean   Mark
	saved   bool
	pending string
	now     func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New creates a Manager for model with an empty log. The current layout is
// taken as the Clean baseline.
func New(model *canvas.Model, opts ...Option) *Manager {
	m := &Manager{model: model, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.clean = Mark{layout: model.Revision()}
	return m
}

// Seed replaces the log with previously persisted snapshots, oldest first,
// and resets the state to Clean. It is meant for loading a template, before
// any save.
func (m *Manager) Seed(snaps []Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps = make([]Snapshot, len(snaps))
	for i, s := range snaps {
		m.snaps[i] = s.Clone()
	}
	m.clean = m.markLocked()
	m.saved = false
	m.pending = ""
}

// Capture copies the live layout into a snapshot without recording it. The
// returned Mark is passed to Commit once the snapshot has been persisted.
func (m *Manager) Capture(name string) (Snapshot, Mark) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mark := m.markLocked()
	return Snapshot{
		Timestamp: m.now(),
		Name:      name,
		Label:     m.pending,
		Layout:    m.model.Items(),
	}, mark
}

// Commit appends a captured snapshot and assigns its version. The state
// becomes Saved only if nothing was edited since the capture; otherwise it
// stays Dirty.
func (m *Manager) Commit(s Snapshot, mark Mark) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s = s.Clone()
	s.Version = m.nextVersionLocked()
	m.snaps = append(m.snaps, s)
	if s.Label == m.pending {
		m.pending = ""
	}
	m.clean = mark
	m.saved = true
	return s.Clone()
}

// Save captures and commits in one step.
func (m *Manager) Save(name string) Snapshot {
	s, mark := m.Capture(name)
	return m.Commit(s, mark)
}

// Versions lists the log newest first. The live layout is never included.
func (m *Manager) Versions() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.snaps))
	for i, s := range m.snaps {
		out[len(m.snaps)-1-i] = Entry{Index: i, Snapshot: s.Clone()}
	}
	return out
}

// Snapshot returns a copy of the snapshot at a chronological index.
func (m *Manager) Snapshot(index int) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.snaps) {
		return Snapshot{}, errors.New(errors.ErrCodeVersionNotFound, "no version at index %d (have %d)", index, len(m.snaps))
	}
	return m.snaps[index].Clone(), nil
}

// Latest returns the newest snapshot.
func (m *Manager) Latest() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snaps) == 0 {
		return Snapshot{}, false
	}
	return m.snaps[len(m.snaps)-1].Clone(), true
}

// Len returns the number of snapshots.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snaps)
}

// Restore replaces the live layout with a copy of the snapshot at index and
// clears the selection. The session becomes Dirty and the next save is
// labelled "Restored from version N". An out-of-range index fails with
// errors.ErrCodeVersionNotFound and leaves the layout untouched.
func (m *Manager) Restore(index int) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.snaps) {
		return Snapshot{}, errors.New(errors.ErrCodeVersionNotFound, "no version at index %d (have %d)", index, len(m.snaps))
	}
	s := m.snaps[index]
	m.model.Replace(s.Layout)
	m.pending = fmt.Sprintf("Restored from version %d", s.Version)
	return s.Clone(), nil
}

// MarkDirty records a change that does not touch the layout, such as a
// rename.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta++
}

// MarkClean takes the current state as the new Clean baseline.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clean = m.markLocked()
	m.saved = false
}

// State reports whether there are unsaved changes.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markLocked() != m.clean {
		return Dirty
	}
	if m.saved {
		return Saved
	}
	return Clean
}

// PendingLabel returns the label the next save will carry.
func (m *Manager) PendingLabel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

func (m *Manager) markLocked() Mark {
	return Mark{layout: m.model.Revision(), meta: m.meta}
}

func (m *Manager) nextVersionLocked() int {
	if len(m.snaps) == 0 {
		return 1
	}
	return slices.MaxFunc(m.snaps, func(a, b Snapshot) int { return a.Version - b.Version }).Version + 1
}
