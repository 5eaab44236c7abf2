// Package geometry supplies on-screen rectangles to the layout engine.
//
// The snap and alignment engines never measure anything themselves. They ask
// a [Provider] for the rectangle of an item (or of the canvas) in
// canvas-local pixels, which keeps them independent of any rendering
// technology and testable with synthetic rectangles.
//
// Two providers are included:
//   - [Static]: rectangles reported by a renderer (or a test), keyed by id
//   - [Sized]: rectangles derived from the live layout positions and a
//     nominal size per component type, used where nothing is rendered
//     (CLI tooling, headless servers)
//
// # Canvas identity
//
// Providers are queried with an element id and the id of the canvas it
// lives on. Querying the canvas id itself returns the canvas bounds with
// its origin at (0, 0).
package geometry
