// Package store persists templates and their version logs.
//
// Four backends implement [Store]:
//   - [MemoryStore]: process-local maps, for tests and throwaway servers
//   - [FileStore]: one JSON file per template plus a history file, for the CLI
//   - [RedisStore]: JSON values under a key prefix, for shared deployments
//   - [MongoStore]: a templates collection and a template_versions collection
//
// All backends share the same rules. A template saved without an ID gets a
// fresh UUID. Every save bumps the stored Version and UpdatedAt. Saving a
// template whose name belongs to a different template fails with
// errors.ErrCodeConflict. Loading an unknown ID fails with
// errors.ErrCodeTemplateNotFound. Deleting removes the version log too and is
// a no-op for unknown IDs.
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/history"
	"github.com/logsmart/designer/pkg/session"
	"github.com/logsmart/designer/pkg/template"
)

// Store is a complete persistence backend for designer sessions.
type Store interface {
	session.Persistence
	session.Archive
	session.Deleter

	// List returns a summary of every stored template, ordered by name.
	List(ctx context.Context) ([]Summary, error)

	// Close releases backend resources.
	Close() error
}

// Summary describes a stored template without its layout.
type Summary struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Schedule  template.Schedule `json:"schedule"`
	Version   int               `json:"version"`
	Items     int               `json:"items"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func summarize(t template.Template) Summary {
	return Summary{
		ID:        t.ID,
		Name:      t.Name,
		Schedule:  t.Schedule.Clone(),
		Version:   t.Version,
		Items:     len(t.Layout),
		UpdatedAt: t.UpdatedAt,
	}
}

func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// prepare stamps a template for writing. prev is the stored copy when one
// exists.
func prepare(t template.Template, prev *template.Template, now time.Time) template.Template {
	t = t.Clone()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Layout == nil {
		t.Layout = []canvas.Item{}
	}
	t.UpdatedAt = now.UTC().Truncate(time.Millisecond)
	if prev != nil {
		t.CreatedAt = prev.CreatedAt
		t.Version = prev.Version + 1
		return t
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}
	t.Version = 1
	return t
}

func validate(t template.Template) error {
	if err := errors.ValidateTemplateName(t.Name); err != nil {
		return err
	}
	if t.ID != "" {
		if err := errors.ValidateTemplateID(t.ID); err != nil {
			return err
		}
	}
	return nil
}

func conflict(name string) error {
	return errors.New(errors.ErrCodeConflict, "a template named %q already exists", name)
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeTemplateNotFound, "template %s not found", id)
}

func cloneSnapshots(in []history.Snapshot) []history.Snapshot {
	out := make([]history.Snapshot, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*MongoStore)(nil)
)
