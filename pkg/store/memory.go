package store

import (
	"context"
	"sync"
	"time"

	"github.com/logsmart/designer/pkg/history"
	"github.com/logsmart/designer/pkg/template"
)

// MemoryStore keeps templates in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[string]template.Template
	snaps     map[string][]history.Snapshot
	now       func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		templates: make(map[string]template.Template),
		snaps:     make(map[string][]history.Snapshot),
		now:       time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (template.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return template.Template{}, notFound(id)
	}
	return t.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, t template.Template) (template.Template, error) {
	if err := validate(t); err != nil {
		return template.Template{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, other := range s.templates {
		if other.Name == t.Name && id != t.ID {
			return template.Template{}, conflict(t.Name)
		}
	}
	var prev *template.Template
	if old, ok := s.templates[t.ID]; ok {
		prev = &old
	}
	t = prepare(t, prev, s.now())
	s.templates[t.ID] = t
	return t.Clone(), nil
}

func (s *MemoryStore) LoadHistory(ctx context.Context, id string) ([]history.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshots(s.snaps[id]), nil
}

func (s *MemoryStore) AppendSnapshot(ctx context.Context, id string, snap history.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[id] = append(s.snaps[id], snap.Clone())
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.templates, id)
	delete(s.snaps, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, summarize(t))
	}
	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
