package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/history"
	"github.com/logsmart/designer/pkg/template"
)

const historySuffix = ".history.json"

// FileStore is a file-based template store for CLI use.
// Each template is stored as <id>.json with its version log in
// <id>.history.json, both in a single directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/designer/templates/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "designer", "templates")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create template dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

func (s *FileStore) templatePath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) historyPath(id string) string {
	return filepath.Join(s.baseDir, id+historySuffix)
}

func (s *FileStore) Load(ctx context.Context, id string) (template.Template, error) {
	if err := errors.ValidateTemplateID(id); err != nil {
		return template.Template{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok, err := s.readLocked(id)
	if err != nil {
		return template.Template{}, err
	}
	if !ok {
		return template.Template{}, notFound(id)
	}
	return t, nil
}

func (s *FileStore) readLocked(id string) (template.Template, bool, error) {
	data, err := os.ReadFile(s.templatePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return template.Template{}, false, nil
		}
		return template.Template{}, false, fmt.Errorf("read template file: %w", err)
	}
	var t template.Template
	if err := json.Unmarshal(data, &t); err != nil {
		return template.Template{}, false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse template %s", id)
	}
	return t, true, nil
}

func (s *FileStore) Save(ctx context.Context, t template.Template) (template.Template, error) {
	if err := validate(t); err != nil {
		return template.Template{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.listLocked()
	if err != nil {
		return template.Template{}, err
	}
	var prev *template.Template
	for i := range all {
		if all[i].Name == t.Name && all[i].ID != t.ID {
			return template.Template{}, conflict(t.Name)
		}
		if t.ID != "" && all[i].ID == t.ID {
			prev = &all[i]
		}
	}

	t = prepare(t, prev, s.now())
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return template.Template{}, fmt.Errorf("marshal template: %w", err)
	}
	if err := writeFile(s.templatePath(t.ID), data); err != nil {
		return template.Template{}, fmt.Errorf("write template file: %w", err)
	}
	return t, nil
}

func (s *FileStore) LoadHistory(ctx context.Context, id string) ([]history.Snapshot, error) {
	if err := errors.ValidateTemplateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readHistoryLocked(id)
}

func (s *FileStore) readHistoryLocked(id string) ([]history.Snapshot, error) {
	data, err := os.ReadFile(s.historyPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	var snaps []history.Snapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse history of %s", id)
	}
	return snaps, nil
}

func (s *FileStore) AppendSnapshot(ctx context.Context, id string, snap history.Snapshot) error {
	if err := errors.ValidateTemplateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snaps, err := s.readHistoryLocked(id)
	if err != nil {
		return err
	}
	snaps = append(snaps, snap)
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := writeFile(s.historyPath(id), data); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateTemplateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range []string{s.templatePath(id), s.historyPath(id)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove template file: %w", err)
		}
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all, err := s.listLocked()
	if err != nil {
		return nil, err
	}
	out := make([]Summary, len(all))
	for i, t := range all {
		out[i] = summarize(t)
	}
	sortSummaries(out)
	return out, nil
}

// listLocked reads every template file. Unreadable files are skipped.
func (s *FileStore) listLocked() ([]template.Template, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}
	var out []template.Template
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasSuffix(name, historySuffix) {
			continue
		}
		t, ok, err := s.readLocked(strings.TrimSuffix(name, ".json"))
		if err != nil || !ok {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding the template files.
func (s *FileStore) Path() string {
	return s.baseDir
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
