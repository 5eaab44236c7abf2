// Package canvas holds the live layout of a template being designed.
//
// A [Model] owns the ordered items (insertion order is z-order), the current
// selection and each item's axis locks. It is the only place items are
// mutated: drag moves go through [Model.Move], which consults the snap
// engine for unlocked axes only, and alignment goes through [Model.Align].
//
// Callers always receive deep copies; nothing returned by a Model aliases its
// internal state.
//
// # Benign misses
//
// Interactive clients race deletes against drags, so every operation that
// names a missing item quietly does nothing. The one structural failure is
// adding a type the [Catalog] does not know, reported with
// errors.ErrCodeUnknownComponentType.
//
// # Geometry
//
// Snapping and alignment need rectangles. When a renderer is present it
// reports them through a geometry.Provider passed with [WithGeometry];
// otherwise the model sizes items from the catalog and uses their stored
// positions.
package canvas
