// Package pkg provides the libraries behind the Designer template layout
// engine.
//
// # Overview
//
// Designer edits the form layout of recurring log templates: a canvas of
// typed form fields that snap to each other while dragged, align as a group,
// and keep an append-only history of saved versions. The pkg directory is
// organized into three areas:
//
//  1. Layout logic ([geometry], [snap], [align], [canvas], [history])
//  2. Session coordination ([session], [template], [errors], [observability])
//  3. Infrastructure ([store], [cache], [generate], [httputil], [api])
//
// # Architecture
//
// A rendering client drives one session per open template:
//
//	UI event (drag, click, save)
//	         ↓
//	    [api] package (HTTP surface)
//	         ↓
//	    [session] package (serializes save and generate, drops stale replies)
//	         ↓
//	    [canvas] package (items, selection)  ←  [snap], [align], [geometry]
//	         ↓
//	    [history] package (versions, dirty state)
//	         ↓
//	    [store] package (memory, file, Redis or MongoDB)
//
// # Quick Start
//
// Place two fields and drag one until it snaps:
//
//	m := canvas.New()
//	a, _ := m.Add(canvas.Label, 20, 20)
//	b, _ := m.Add(canvas.TextInput, 300, 300)
//	res, _ := m.Move(b.ID, 23, 200)
//	// res.X == 20, res.GuideLinesX == [20]
//	_ = a
//
// Drive a full session against a store:
//
//	ctrl := session.New(store.NewMemoryStore())
//	_ = ctrl.OpenNew("Fridge check", template.DefaultSchedule())
//	m, _ := ctrl.Canvas()
//	m.Add(canvas.Temperature, 20, 20)
//	snap, _ := ctrl.Save(ctx) // version 1
//
// # Main Packages
//
// [geometry] resolves element rectangles. Sized combines catalog sizes with
// measured rectangles reported by a renderer.
//
// [snap] computes the snapped position of a dragged item and the guide lines
// to draw. Nine edge pairings per axis are checked against every sibling.
//
// [align] lines up a selection on one edge, against the group bounds or the
// canvas.
//
// [canvas] is the live layout: items in z-order, the selection and the
// component catalog.
//
// [history] keeps snapshots of saved layouts and reports whether the live
// layout is clean, dirty or saved.
//
// [session] coordinates one open template with its persistence, archive and
// generator collaborators.
//
// [store] persists templates and their version log. [cache] and [generate]
// back the AI layout generator. [api] exposes all of it over HTTP.
//
// # Testing
//
//	go test ./...               # All tests
//	go test ./pkg/snap/...      # Specific package
//	MONGO_URI=mongodb://localhost:27017 go test ./pkg/store/
//
// [geometry]: https://pkg.go.dev/github.com/logsmart/designer/pkg/geometry
// [snap]: https://pkg.go.dev/github.com/logsmart/designer/pkg/snap
// [align]: https://pkg.go.dev/github.com/logsmart/designer/pkg/align
// [canvas]: https://pkg.go.dev/github.com/logsmart/designer/pkg/canvas
// [history]: https://pkg.go.dev/github.com/logsmart/designer/pkg/history
// [session]: https://pkg.go.dev/github.com/logsmart/designer/pkg/session
// [template]: https://pkg.go.dev/github.com/logsmart/designer/pkg/template
// [errors]: https://pkg.go.dev/github.com/logsmart/designer/pkg/errors
// [observability]: https://pkg.go.dev/github.com/logsmart/designer/pkg/observability
// [store]: https://pkg.go.dev/github.com/logsmart/designer/pkg/store
// [cache]: https://pkg.go.dev/github.com/logsmart/designer/pkg/cache
// [generate]: https://pkg.go.dev/github.com/logsmart/designer/pkg/generate
// [httputil]: https://pkg.go.dev/github.com/logsmart/designer/pkg/httputil
// [api]: https://pkg.go.dev/github.com/logsmart/designer/pkg/api
package pkg
