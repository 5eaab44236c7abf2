// Package align lines up a set of items against a reference rectangle.
//
// Alignment moves each item so that its own edge (or center) coincides with
// the same edge of the reference. Horizontal edges only ever change X and
// vertical edges only ever change Y; an item whose affected axis is locked is
// skipped without error.
package align

import (
	"fmt"
	"strings"

	"github.com/logsmart/designer/pkg/geometry"
)

// Edge names the feature being aligned.
type Edge string

const (
	Left   Edge = "left"
	Center Edge = "center"
	Right  Edge = "right"
	Top    Edge = "top"
	Middle Edge = "middle"
	Bottom Edge = "bottom"
)

// Edges lists every supported edge in display order.
var Edges = []Edge{Left, Center, Right, Top, Middle, Bottom}

// ParseEdge converts a case-insensitive edge name.
func ParseEdge(s string) (Edge, error) {
	e := Edge(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Edges {
		if e == known {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown edge %q", s)
}

// Horizontal reports whether aligning on e moves items along X.
func (e Edge) Horizontal() bool {
	return e == Left || e == Center || e == Right
}

// Reference selects which rectangle a selection is aligned against.
type Reference string

const (
	// ToCanvas aligns against the canvas bounds.
	ToCanvas Reference = "canvas"
	// ToSelection aligns against the bounding box of the selection.
	ToSelection Reference = "selection"
)

// ParseReference converts a reference name; the empty string means ToCanvas.
func ParseReference(s string) (Reference, error) {
	switch Reference(strings.ToLower(strings.TrimSpace(s))) {
	case "", ToCanvas:
		return ToCanvas, nil
	case ToSelection:
		return ToSelection, nil
	}
	return "", fmt.Errorf("unknown reference %q", s)
}

// Target is an item taking part in an alignment.
type Target struct {
	ID    string
	Rect  geometry.Rect
	LockX bool
	LockY bool
}

// Move is the displacement to apply to one item.
type Move struct {
	ID string  `json:"id"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Align computes the moves that bring every unlocked target's edge onto
// ref's matching edge. Targets that are locked on the affected axis, or that
// are already aligned, produce no move. The result preserves target order.
func Align(targets []Target, ref geometry.Rect, edge Edge) []Move {
	var moves []Move
	for _, t := range targets {
		var m Move
		if edge.Horizontal() {
			if t.LockX {
				continue
			}
			m.DX = targetLeft(t.Rect, ref, edge) - t.Rect.Left
		} else {
			if t.LockY {
				continue
			}
			m.DY = targetTop(t.Rect, ref, edge) - t.Rect.Top
		}
		if m.DX == 0 && m.DY == 0 {
			continue
		}
		m.ID = t.ID
		moves = append(moves, m)
	}
	return moves
}

func targetLeft(r, ref geometry.Rect, edge Edge) float64 {
	switch edge {
	case Center:
		return ref.CenterX() - r.Width/2
	case Right:
		return ref.Right() - r.Width
	default:
		return ref.Left
	}
}

func targetTop(r, ref geometry.Rect, edge Edge) float64 {
	switch edge {
	case Middle:
		return ref.CenterY() - r.Height/2
	case Bottom:
		return ref.Bottom() - r.Height
	default:
		return ref.Top
	}
}

// BoundingBox returns the smallest rectangle containing every rect. It
// returns false when rects is empty.
func BoundingBox(rects ...geometry.Rect) (geometry.Rect, bool) {
	if len(rects) == 0 {
		return geometry.Rect{}, false
	}
	box := rects[0]
	for _, r := range rects[1:] {
		box = box.Union(r)
	}
	return box, true
}
