// Package snap computes magnetic alignment of a dragged item against its
// neighbours.
//
// [Compute] is pure relative to its inputs and the geometry provider's
// answers. It keeps no state and is cheap enough to call on every pointer
// move: O(siblings) provider queries plus nine distance checks per axis per
// sibling.
//
// Each axis is decided independently. On the X axis the dragged item's left,
// right and center are paired with each sibling's left, right and center; on
// the Y axis top, bottom and center likewise. The single closest pairing
// across all siblings wins, provided it is strictly closer than the
// threshold. Ties keep the first candidate found, in sibling order and then
// pairing order. An axis with no candidate passes the proposed coordinate
// through and emits no guide line.
package snap

import (
	"math"

	"github.com/logsmart/designer/pkg/geometry"
)

// DefaultThreshold is the snap distance in pixels used when a request does
// not specify one.
const DefaultThreshold = 10.0

// Axis selects which axes a snap request evaluates.
type Axis uint8

const (
	AxisX Axis = 1 << iota
	AxisY

	AxisBoth = AxisX | AxisY
)

// Has reports whether a includes b.
func (a Axis) Has(b Axis) bool { return a&b != 0 }

// Request describes a single snap query.
type Request struct {
	// CanvasID identifies the canvas the items live on.
	CanvasID string
	// DraggedID is the item being dragged. Its current size is read from the
	// provider; its position is replaced by X/Y.
	DraggedID string
	// X, Y is the proposed top-left corner of the dragged item.
	X, Y float64
	// Siblings are the other items to snap against. The dragged item is
	// skipped if present; siblings the provider cannot resolve are ignored.
	Siblings []string
	// Threshold is the exclusive snap distance. Zero or negative means
	// DefaultThreshold.
	Threshold float64
	// Axes restricts evaluation. Zero means both axes.
	Axes Axis
}

// Result is the corrected position plus the guide lines to draw.
type Result struct {
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	GuideLinesX []float64 `json:"guideLinesX"`
	GuideLinesY []float64 `json:"guideLinesY"`
}

// SnappedX reports whether the X coordinate was corrected.
func (r Result) SnappedX() bool { return len(r.GuideLinesX) > 0 }

// SnappedY reports whether the Y coordinate was corrected.
func (r Result) SnappedY() bool { return len(r.GuideLinesY) > 0 }

// candidate is the best snap found so far on one axis.
type candidate struct {
	pos      float64 // corrected top-left coordinate
	distance float64
	line     float64 // guide line coordinate
	found    bool
}

// consider records a pairing if it is under threshold and strictly better
// than the current best. leading is the dragged item's leading edge on this
// axis (left or top); dragPoint is the feature being paired.
func (c *candidate) consider(dragPoint, snapTo, leading, threshold float64) {
	distance := math.Abs(dragPoint - snapTo)
	if distance >= threshold {
		return
	}
	if c.found && distance >= c.distance {
		return
	}
	offset := dragPoint - leading
	c.pos = snapTo - offset
	c.distance = distance
	c.line = snapTo
	c.found = true
}

// features holds the three snap points of one axis: leading edge, trailing
// edge, center.
type features struct{ lead, trail, center float64 }

// pairings returns the nine (dragPoint, snapTo) pairs in evaluation order.
// The order matters only for ties.
func pairings(d, s features) [9][2]float64 {
	return [9][2]float64{
		{d.lead, s.lead},
		{d.lead, s.trail},
		{d.trail, s.lead},
		{d.trail, s.trail},
		{d.center, s.center},
		{d.lead, s.center},
		{d.trail, s.center},
		{d.center, s.lead},
		{d.center, s.trail},
	}
}

// Compute returns the corrected position for a dragged item.
// If the dragged item cannot be resolved the proposed position is returned
// unchanged with no guide lines.
func Compute(p geometry.Provider, req Request) Result {
	res := Result{X: req.X, Y: req.Y}
	if p == nil {
		return res
	}
	dragged, ok := p.Rect(req.DraggedID, req.CanvasID)
	if !ok {
		return res
	}

	threshold := req.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	axes := req.Axes
	if axes == 0 {
		axes = AxisBoth
	}

	dx := features{lead: req.X, trail: req.X + dragged.Width, center: req.X + dragged.Width/2}
	dy := features{lead: req.Y, trail: req.Y + dragged.Height, center: req.Y + dragged.Height/2}

	var bestX, bestY candidate
	for _, id := range req.Siblings {
		if id == req.DraggedID {
			continue
		}
		r, ok := p.Rect(id, req.CanvasID)
		if !ok {
			continue
		}
		if axes.Has(AxisX) {
			sx := features{lead: r.Left, trail: r.Right(), center: r.CenterX()}
			for _, pair := range pairings(dx, sx) {
				bestX.consider(pair[0], pair[1], dx.lead, threshold)
			}
		}
		if axes.Has(AxisY) {
			sy := features{lead: r.Top, trail: r.Bottom(), center: r.CenterY()}
			for _, pair := range pairings(dy, sy) {
				bestY.consider(pair[0], pair[1], dy.lead, threshold)
			}
		}
	}

	if bestX.found {
		res.X = bestX.pos
		res.GuideLinesX = []float64{bestX.line}
	}
	if bestY.found {
		res.Y = bestY.pos
		res.GuideLinesY = []float64{bestY.line}
	}
	return res
}
