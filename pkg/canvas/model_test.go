package canvas

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/logsmart/designer/pkg/align"
	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/geometry"
	"github.com/logsmart/designer/pkg/snap"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func newModel(opts ...Option) *Model {
	return New(append([]Option{WithIDFunc(seqIDs())}, opts...)...)
}

func TestAddDefaults(t *testing.T) {
	m := newModel()

	it, err := m.Add(Label, 10, 20)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if it.ID != "item-1" || it.Type != Label || it.X != 10 || it.Y != 20 {
		t.Errorf("Add() = %+v", it)
	}
	if it.LockX || it.LockY {
		t.Error("new item should be unlocked")
	}
	if it.Props["text"] != "Label" {
		t.Errorf("Props[text] = %v, want Label", it.Props["text"])
	}

	// Defaults are copied, not shared.
	it.Props["text"] = "changed"
	again, _ := m.Add(Label, 0, 0)
	if again.Props["text"] != "Label" {
		t.Errorf("catalog defaults were mutated: %v", again.Props["text"])
	}
}

func TestAddUnknownTypeLeavesLayoutUnchanged(t *testing.T) {
	m := newModel()
	if _, err := m.Add(Checkbox, 0, 0); err != nil {
		t.Fatal(err)
	}
	before := m.Items()
	rev := m.Revision()

	_, err := m.Add("not_a_real_type", 5, 5)
	if !errors.Is(err, errors.ErrCodeUnknownComponentType) {
		t.Fatalf("Add() error = %v, want %s", err, errors.ErrCodeUnknownComponentType)
	}
	if diff := cmp.Diff(before, m.Items()); diff != "" {
		t.Errorf("layout changed (-before +after):\n%s", diff)
	}
	if m.Revision() != rev {
		t.Errorf("Revision() = %d, want %d", m.Revision(), rev)
	}
}

func TestAddNonFinite(t *testing.T) {
	m := newModel()
	it, err := m.Add(TextInput, math.NaN(), math.Inf(1))
	if err != nil {
		t.Fatal(err)
	}
	if it.X != 0 || it.Y != 0 {
		t.Errorf("Add() position = (%v, %v), want (0, 0)", it.X, it.Y)
	}
}

func TestRemove(t *testing.T) {
	m := newModel()
	a, _ := m.Add(Label, 0, 0)
	b, _ := m.Add(Label, 0, 100)
	m.Select(a.ID)

	if !m.Remove(a.ID) {
		t.Fatal("Remove() = false, want true")
	}
	if m.Remove(a.ID) {
		t.Error("second Remove() = true, want false")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
	if got := m.Selection(); len(got) != 0 {
		t.Errorf("Selection() = %v, want empty", got)
	}
	if _, ok := m.Item(b.ID); !ok {
		t.Error("remaining item missing")
	}
}

func TestMoveSnaps(t *testing.T) {
	geo := geometry.NewStatic(800, 600)
	m := newModel(WithGeometry(geo))
	a, _ := m.Add(Label, 0, 0)
	b, _ := m.Add(Label, 300, 300)
	geo.Set(a.ID, geometry.Rect{Left: 0, Top: 0, Width: 100, Height: 20})
	geo.Set(b.ID, geometry.Rect{Left: 300, Top: 300, Width: 100, Height: 20})

	res, ok := m.Move(b.ID, 98, 0)
	if !ok {
		t.Fatal("Move() = false")
	}
	if res.X != 100 || res.Y != 0 {
		t.Errorf("Move() = (%v, %v), want (100, 0)", res.X, res.Y)
	}
	if diff := cmp.Diff([]float64{100}, res.GuideLinesX); diff != "" {
		t.Errorf("GuideLinesX mismatch (-want +got):\n%s", diff)
	}
	got, _ := m.Item(b.ID)
	if got.X != 100 || got.Y != 0 {
		t.Errorf("stored = (%v, %v), want (100, 0)", got.X, got.Y)
	}
}

func TestMoveUsesCatalogSizesWithoutRenderer(t *testing.T) {
	m := newModel()
	a, _ := m.Add(TextInput, 0, 0) // 200 x 40
	b, _ := m.Add(TextInput, 500, 500)

	res, _ := m.Move(b.ID, 205, 300)
	if res.X != 200 {
		t.Errorf("Move() x = %v, want 200 (right edge of %s)", res.X, a.ID)
	}
}

func TestMoveZeroThresholdNeverSnaps(t *testing.T) {
	for _, px := range []float64{0, -3} {
		m := newModel(WithThreshold(px))
		m.Add(TextInput, 0, 0)
		b, _ := m.Add(TextInput, 500, 500)

		for _, p := range [][2]float64{{205, 300}, {200, 0}} {
			res, _ := m.Move(b.ID, p[0], p[1])
			if res.X != p[0] || res.Y != p[1] || res.SnappedX() || res.SnappedY() {
				t.Errorf("threshold %v: Move(%v) = %+v, want unsnapped", px, p, res)
			}
		}
	}
}

func TestMoveRespectsLocks(t *testing.T) {
	m := newModel()
	a, _ := m.Add(Label, 0, 0)
	b, _ := m.Add(Label, 50, 200)
	m.SetLock(b.ID, snap.AxisY, true)

	proposals := [][2]float64{{10, 0}, {300, 3}, {-40, 1e6}, {0, math.NaN()}, {a.X, a.Y}}
	for _, p := range proposals {
		res, _ := m.Move(b.ID, p[0], p[1])
		got, _ := m.Item(b.ID)
		if got.Y != 200 {
			t.Fatalf("Move(%v) changed locked y to %v", p, got.Y)
		}
		if res.Y != 200 || res.SnappedY() {
			t.Errorf("Move(%v) result y = %v, guides %v", p, res.Y, res.GuideLinesY)
		}
	}

	// Unlock then move changes y.
	m.SetLock(b.ID, snap.AxisY, false)
	m.Move(b.ID, 400, 450)
	if got, _ := m.Item(b.ID); got.Y != 450 {
		t.Errorf("y after unlock = %v, want 450", got.Y)
	}
}

func TestMoveMissingItem(t *testing.T) {
	m := newModel()
	if _, ok := m.Move("ghost", 1, 1); ok {
		t.Error("Move(ghost) = true, want false")
	}
}

func TestSetLockKeepsPosition(t *testing.T) {
	m := newModel()
	a, _ := m.Add(Dropdown, 12, 34)
	m.SetLock(a.ID, snap.AxisBoth, true)
	got, _ := m.Item(a.ID)
	if !got.LockX || !got.LockY || got.X != 12 || got.Y != 34 {
		t.Errorf("Item() = %+v", got)
	}
}

func TestUpdatePropsMerges(t *testing.T) {
	m := newModel()
	a, _ := m.Add(Temperature, 0, 0)
	patch := map[string]any{"min": 50.0, "max": -50.0, "future": []any{"x"}}

	if !m.UpdateProps(a.ID, patch) {
		t.Fatal("UpdateProps() = false")
	}
	patch["future"].([]any)[0] = "mutated"

	got, _ := m.Item(a.ID)
	if got.Props["unit"] != "°C" {
		t.Errorf("unit = %v, want °C", got.Props["unit"])
	}
	if got.Props["min"] != 50.0 || got.Props["max"] != -50.0 {
		t.Errorf("min/max = %v/%v, want stored as given", got.Props["min"], got.Props["max"])
	}
	if diff := cmp.Diff([]any{"x"}, got.Props["future"]); diff != "" {
		t.Errorf("future mismatch (-want +got):\n%s", diff)
	}
	if m.UpdateProps("ghost", patch) {
		t.Error("UpdateProps(ghost) = true")
	}
}

func TestSelection(t *testing.T) {
	m := newModel()
	a, _ := m.Add(Label, 0, 0)
	b, _ := m.Add(Label, 0, 50)

	m.Select(a.ID)
	m.ToggleSelect(b.ID)
	if diff := cmp.Diff([]string{a.ID, b.ID}, m.Selection()); diff != "" {
		t.Errorf("Selection() mismatch (-want +got):\n%s", diff)
	}
	m.ToggleSelect(a.ID)
	if diff := cmp.Diff([]string{b.ID}, m.Selection()); diff != "" {
		t.Errorf("Selection() mismatch (-want +got):\n%s", diff)
	}
	m.Select("ghost")
	if got := m.Selection(); len(got) != 0 {
		t.Errorf("Select(ghost) left selection %v", got)
	}
}

func TestAlignToCanvas(t *testing.T) {
	m := newModel()
	a, _ := m.Add(Label, 30, 10)   // 120 x 24
	b, _ := m.Add(Label, 200, 100) // locked on X
	m.SetLock(b.ID, snap.AxisX, true)
	m.Select(a.ID)
	m.ToggleSelect(b.ID)

	moves := m.Align(align.Right, align.ToCanvas)
	if len(moves) != 1 || moves[0].ID != a.ID {
		t.Fatalf("Align() = %+v", moves)
	}
	if got, _ := m.Item(a.ID); got.X != DefaultWidth-120 {
		t.Errorf("x = %v, want %v", got.X, DefaultWidth-120)
	}
	if got, _ := m.Item(b.ID); got.X != 200 {
		t.Errorf("locked x = %v, want 200", got.X)
	}
}

func TestAlignToSelection(t *testing.T) {
	m := newModel()
	a, _ := m.Add(Label, 30, 10)
	b, _ := m.Add(Label, 200, 100)
	m.Select(a.ID)
	m.ToggleSelect(b.ID)

	m.Align(align.Top, align.ToSelection)
	for _, id := range []string{a.ID, b.ID} {
		if got, _ := m.Item(id); got.Y != 10 {
			t.Errorf("%s y = %v, want 10", id, got.Y)
		}
	}
}

func TestReplaceDeepCopies(t *testing.T) {
	m := newModel()
	m.Add(Label, 0, 0)
	m.Select("item-1")

	layout := []Item{
		{ID: "x", Type: Dropdown, X: 1, Y: 2, Props: map[string]any{"options": []any{"a", "b"}}},
		{ID: "x", Type: Label, X: math.NaN(), Y: 4},
	}
	m.Replace(layout)
	layout[0].Props["options"].([]any)[0] = "mutated"

	got := m.Items()
	if len(got) != 2 {
		t.Fatalf("Len = %d, want 2", len(got))
	}
	if got[0].Props["options"].([]any)[0] != "a" {
		t.Error("Replace() aliased caller props")
	}
	if got[1].ID == "x" {
		t.Error("duplicate id was kept")
	}
	if got[1].X != 0 {
		t.Errorf("non-finite x stored as %v", got[1].X)
	}
	if len(m.Selection()) != 0 {
		t.Error("Replace() should clear selection")
	}
}

func TestItemsAreCopies(t *testing.T) {
	m := newModel()
	a, _ := m.Add(Dropdown, 0, 0)

	items := m.Items()
	items[0].X = 999
	items[0].Props["options"].([]any)[0] = "mutated"

	got, _ := m.Item(a.ID)
	if got.X != 0 || got.Props["options"].([]any)[0] != "Option 1" {
		t.Errorf("Items() aliased internal state: %+v", got)
	}
}

func TestRevision(t *testing.T) {
	m := newModel()
	r0 := m.Revision()
	a, _ := m.Add(Label, 0, 0)
	r1 := m.Revision()
	if r1 <= r0 {
		t.Errorf("Add did not bump revision")
	}
	m.Select(a.ID)
	if m.Revision() != r1 {
		t.Errorf("Select bumped revision")
	}
	m.Remove("ghost")
	if m.Revision() != r1 {
		t.Errorf("no-op Remove bumped revision")
	}
}

func TestWithSizeSetsCanvasBounds(t *testing.T) {
	m := newModel(WithSize(1024, 300))
	a, _ := m.Add(Label, 0, 0) // 120 x 24
	m.Select(a.ID)

	m.Align(align.Bottom, align.ToCanvas)
	if got, _ := m.Item(a.ID); got.Y != 300-24 {
		t.Errorf("y = %v, want %v", got.Y, 300-24)
	}
}
