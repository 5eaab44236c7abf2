package session

import (
	"context"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/history"
	"github.com/logsmart/designer/pkg/template"
)

// Persistence loads and stores templates. Save returns the canonical stored
// form; for a new template that includes its assigned ID.
type Persistence interface {
	Load(ctx context.Context, id string) (template.Template, error)
	Save(ctx context.Context, t template.Template) (template.Template, error)
}

// Archive stores a template's version log next to the template itself.
// Snapshots are returned oldest first.
type Archive interface {
	LoadHistory(ctx context.Context, templateID string) ([]history.Snapshot, error)
	AppendSnapshot(ctx context.Context, templateID string, s history.Snapshot) error
}

// Deleter removes a template and its history.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Generator turns a natural-language prompt into a candidate layout.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]canvas.Item, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) ([]canvas.Item, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) ([]canvas.Item, error) {
	return f(ctx, prompt)
}
