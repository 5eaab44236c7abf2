package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/history"
	"github.com/logsmart/designer/pkg/template"
)

func sampleTemplate(name string) template.Template {
	return template.Template{
		Name:     name,
		Schedule: template.DefaultSchedule(),
		Layout: []canvas.Item{
			{ID: "a", Type: canvas.Label, X: 20, Y: 20, Props: map[string]any{"text": "Fridge"}},
			{ID: "b", Type: canvas.Dropdown, X: 20, Y: 64, Props: map[string]any{
				"label":   "Status",
				"options": []any{"OK", "Fault"},
			}},
		},
	}
}

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("SaveAssignsIDAndVersion", func(t *testing.T) {
		s := newStore(t)
		saved, err := s.Save(ctx, sampleTemplate("Fridge check"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if saved.ID == "" {
			t.Fatal("expected an id")
		}
		if saved.Version != 1 {
			t.Errorf("Version = %d, want 1", saved.Version)
		}
		if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
			t.Error("timestamps not set")
		}

		loaded, err := s.Load(ctx, saved.ID)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if loaded.Name != "Fridge check" || len(loaded.Layout) != 2 {
			t.Errorf("loaded = %+v", loaded)
		}
		if diff := cmp.Diff(saved.Layout, loaded.Layout); diff != "" {
			t.Errorf("layout mismatch (-saved +loaded):\n%s", diff)
		}
	})

	t.Run("ResaveBumpsVersion", func(t *testing.T) {
		s := newStore(t)
		first, err := s.Save(ctx, sampleTemplate("Freezer"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		first.Layout = first.Layout[:1]
		second, err := s.Save(ctx, first)
		if err != nil {
			t.Fatalf("Save again: %v", err)
		}
		if second.ID != first.ID {
			t.Errorf("id changed: %s -> %s", first.ID, second.ID)
		}
		if second.Version != 2 {
			t.Errorf("Version = %d, want 2", second.Version)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
		}
		loaded, _ := s.Load(ctx, first.ID)
		if len(loaded.Layout) != 1 {
			t.Errorf("layout len = %d, want 1", len(loaded.Layout))
		}
	})

	t.Run("NameConflict", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Save(ctx, sampleTemplate("Opening")); err != nil {
			t.Fatalf("Save: %v", err)
		}
		_, err := s.Save(ctx, sampleTemplate("Opening"))
		if !errors.Is(err, errors.ErrCodeConflict) {
			t.Errorf("err = %v, want TEMPLATE_CONFLICT", err)
		}
	})

	t.Run("RenameReleasesName", func(t *testing.T) {
		s := newStore(t)
		a, err := s.Save(ctx, sampleTemplate("Morning"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		a.Name = "Evening"
		if _, err := s.Save(ctx, a); err != nil {
			t.Fatalf("rename: %v", err)
		}
		if _, err := s.Save(ctx, sampleTemplate("Morning")); err != nil {
			t.Errorf("reusing released name: %v", err)
		}
	})

	t.Run("InvalidName", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Save(ctx, sampleTemplate("   "))
		if !errors.Is(err, errors.ErrCodeInvalidName) {
			t.Errorf("err = %v, want INVALID_TEMPLATE_NAME", err)
		}
	})

	t.Run("LoadMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Load(ctx, "00000000-0000-0000-0000-000000000000")
		if !errors.Is(err, errors.ErrCodeTemplateNotFound) {
			t.Errorf("err = %v, want TEMPLATE_NOT_FOUND", err)
		}
	})

	t.Run("HistoryInOrder", func(t *testing.T) {
		s := newStore(t)
		saved, err := s.Save(ctx, sampleTemplate("Delivery"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		for v := 1; v <= 3; v++ {
			snap := history.Snapshot{
				Version:   v,
				Timestamp: ts.Add(time.Duration(v) * time.Minute),
				Name:      "Delivery",
				Layout:    saved.Layout[:v%2+1],
			}
			if err := s.AppendSnapshot(ctx, saved.ID, snap); err != nil {
				t.Fatalf("AppendSnapshot: %v", err)
			}
		}
		snaps, err := s.LoadHistory(ctx, saved.ID)
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if len(snaps) != 3 {
			t.Fatalf("got %d snapshots, want 3", len(snaps))
		}
		for i, snap := range snaps {
			if snap.Version != i+1 {
				t.Errorf("snaps[%d].Version = %d, want %d", i, snap.Version, i+1)
			}
			if !snap.Timestamp.Equal(ts.Add(time.Duration(i+1) * time.Minute)) {
				t.Errorf("snaps[%d].Timestamp = %v", i, snap.Timestamp)
			}
		}
		if got := snaps[0].Layout[1].Props["options"]; !cmp.Equal(got, []any{"OK", "Fault"}) {
			t.Errorf("options = %#v", got)
		}
	})

	t.Run("HistoryEmpty", func(t *testing.T) {
		s := newStore(t)
		snaps, err := s.LoadHistory(ctx, "00000000-0000-0000-0000-000000000000")
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if len(snaps) != 0 {
			t.Errorf("got %d snapshots, want 0", len(snaps))
		}
	})

	t.Run("DeleteRemovesHistory", func(t *testing.T) {
		s := newStore(t)
		saved, err := s.Save(ctx, sampleTemplate("Closing"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := s.AppendSnapshot(ctx, saved.ID, history.Snapshot{Version: 1, Name: "Closing"}); err != nil {
			t.Fatalf("AppendSnapshot: %v", err)
		}
		if err := s.Delete(ctx, saved.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Load(ctx, saved.ID); !errors.Is(err, errors.ErrCodeTemplateNotFound) {
			t.Errorf("Load after delete: %v", err)
		}
		snaps, _ := s.LoadHistory(ctx, saved.ID)
		if len(snaps) != 0 {
			t.Errorf("history survived delete: %d entries", len(snaps))
		}
		if _, err := s.Save(ctx, sampleTemplate("Closing")); err != nil {
			t.Errorf("name not released by delete: %v", err)
		}
		if err := s.Delete(ctx, saved.ID); err != nil {
			t.Errorf("second Delete: %v", err)
		}
	})

	t.Run("ListSortedByName", func(t *testing.T) {
		s := newStore(t)
		for _, name := range []string{"Weekly clean", "Allergens", "Hot hold"} {
			if _, err := s.Save(ctx, sampleTemplate(name)); err != nil {
				t.Fatalf("Save %s: %v", name, err)
			}
		}
		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var names []string
		for _, sum := range list {
			names = append(names, sum.Name)
			if sum.Items != 2 {
				t.Errorf("%s: Items = %d, want 2", sum.Name, sum.Items)
			}
		}
		want := []string{"Allergens", "Hot hold", "Weekly clean"}
		if diff := cmp.Diff(want, names); diff != "" {
			t.Errorf("names mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestPrepare(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))

	fresh := prepare(template.Template{Name: "n"}, nil, now)
	if fresh.ID == "" || fresh.Version != 1 {
		t.Errorf("fresh = %+v", fresh)
	}
	if fresh.Layout == nil {
		t.Error("nil layout not replaced")
	}
	if fresh.UpdatedAt.Location() != time.UTC {
		t.Errorf("UpdatedAt not UTC: %v", fresh.UpdatedAt)
	}

	prev := template.Template{ID: fresh.ID, Version: 4, CreatedAt: now.Add(-time.Hour)}
	next := prepare(template.Template{ID: fresh.ID, Name: "n"}, &prev, now)
	if next.Version != 5 {
		t.Errorf("Version = %d, want 5", next.Version)
	}
	if !next.CreatedAt.Equal(prev.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", next.CreatedAt, prev.CreatedAt)
	}
}
