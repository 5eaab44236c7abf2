package align

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/logsmart/designer/pkg/geometry"
)

func TestAlign(t *testing.T) {
	ref := geometry.Rect{Left: 0, Top: 0, Width: 400, Height: 200}
	item := Target{ID: "a", Rect: geometry.Rect{Left: 30, Top: 40, Width: 100, Height: 20}}

	tests := []struct {
		edge Edge
		want []Move
	}{
		{Left, []Move{{ID: "a", DX: -30}}},
		{Center, []Move{{ID: "a", DX: 120}}},
		{Right, []Move{{ID: "a", DX: 270}}},
		{Top, []Move{{ID: "a", DY: -40}}},
		{Middle, []Move{{ID: "a", DY: 50}}},
		{Bottom, []Move{{ID: "a", DY: 140}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.edge), func(t *testing.T) {
			got := Align([]Target{item}, ref, tt.edge)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Align(%s) mismatch (-want +got):\n%s", tt.edge, diff)
			}
		})
	}
}

func TestAlignSkipsLockedAndAligned(t *testing.T) {
	ref := geometry.Rect{Left: 10, Top: 10, Width: 300, Height: 300}
	targets := []Target{
		{ID: "locked", Rect: geometry.Rect{Left: 50, Top: 50, Width: 10, Height: 10}, LockX: true},
		{ID: "ylocked", Rect: geometry.Rect{Left: 60, Top: 60, Width: 10, Height: 10}, LockY: true},
		{ID: "aligned", Rect: geometry.Rect{Left: 10, Top: 70, Width: 10, Height: 10}},
	}

	got := Align(targets, ref, Left)
	want := []Move{{ID: "ylocked", DX: -50}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Align() mismatch (-want +got):\n%s", diff)
	}

	got = Align(targets, ref, Top)
	want = []Move{
		{ID: "locked", DY: -40},
		{ID: "aligned", DY: -60},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Align() mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundingBox(t *testing.T) {
	if _, ok := BoundingBox(); ok {
		t.Error("BoundingBox() of nothing should report false")
	}
	got, ok := BoundingBox(
		geometry.Rect{Left: 10, Top: 10, Width: 10, Height: 10},
		geometry.Rect{Left: 50, Top: 0, Width: 20, Height: 5},
	)
	want := geometry.Rect{Left: 10, Top: 0, Width: 60, Height: 20}
	if !ok || got != want {
		t.Errorf("BoundingBox() = %+v, %v; want %+v", got, ok, want)
	}
}

func TestParseEdge(t *testing.T) {
	tests := []struct {
		in      string
		want    Edge
		wantErr bool
	}{
		{"left", Left, false},
		{" Middle ", Middle, false},
		{"diagonal", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEdge(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEdge(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseEdge(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
