package geometry

import "testing"

func TestRectEdges(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Width: 100, Height: 40}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"right", r.Right(), 110},
		{"bottom", r.Bottom(), 60},
		{"centerX", r.CenterX(), 60},
		{"centerY", r.CenterY(), 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{Left: 0, Top: 0, Width: 10, Height: 10}
	b := Rect{Left: 20, Top: 5, Width: 10, Height: 30}

	got := a.Union(b)
	want := Rect{Left: 0, Top: 0, Width: 30, Height: 35}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}

func TestStaticProvider(t *testing.T) {
	p := NewStatic(800, 600)
	p.Set("a", Rect{Left: 1, Top: 2, Width: 3, Height: 4})

	if r, ok := p.Rect("canvas", "canvas"); !ok || r.Width != 800 || r.Height != 600 {
		t.Errorf("canvas Rect() = %+v, %v; want 800x600", r, ok)
	}
	if r, ok := p.Rect("a", "canvas"); !ok || r.Left != 1 {
		t.Errorf("Rect(a) = %+v, %v", r, ok)
	}
	if _, ok := p.Rect("missing", "canvas"); ok {
		t.Error("Rect(missing) should not resolve")
	}

	p.Delete("a")
	if _, ok := p.Rect("a", "canvas"); ok {
		t.Error("Rect(a) should not resolve after Delete")
	}
}

type placements map[string]Placement

func (p placements) Placement(id string) (Placement, bool) {
	pl, ok := p[id]
	return pl, ok
}

func TestSizedProvider(t *testing.T) {
	items := placements{
		"lbl": {Kind: "label", X: 10, Y: 20},
		"odd": {Kind: "mystery", X: 0, Y: 0},
	}
	sizes := map[string]Size{"label": {Width: 120, Height: 24}}
	p := NewSized(800, 600, sizes, Size{Width: 50, Height: 50}, items)

	if r, ok := p.Rect("lbl", "canvas"); !ok || r != (Rect{Left: 10, Top: 20, Width: 120, Height: 24}) {
		t.Errorf("Rect(lbl) = %+v, %v", r, ok)
	}
	if r, _ := p.Rect("odd", "canvas"); r.Width != 50 {
		t.Errorf("fallback width = %v, want 50", r.Width)
	}

	// A measured size wins but the origin follows the live layout.
	p.Report("lbl", Rect{Left: 999, Top: 999, Width: 130, Height: 30})
	items["lbl"] = Placement{Kind: "label", X: 40, Y: 50}
	if r, _ := p.Rect("lbl", "canvas"); r != (Rect{Left: 40, Top: 50, Width: 130, Height: 30}) {
		t.Errorf("Rect(lbl) after report = %+v", r)
	}

	// Unknown to the layout but measured: reported rect as-is.
	p.Report("ghost", Rect{Left: 1, Top: 1, Width: 1, Height: 1})
	if _, ok := p.Rect("ghost", "canvas"); !ok {
		t.Error("Rect(ghost) should resolve from measurement")
	}
	if _, ok := p.Rect("nobody", "canvas"); ok {
		t.Error("Rect(nobody) should not resolve")
	}
}
