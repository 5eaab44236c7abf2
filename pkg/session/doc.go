// Package session coordinates one open template in the designer.
//
// A [Controller] owns the template's metadata, its live canvas.Model and its
// history.Manager, and delegates I/O to collaborators: a [Persistence] store,
// an optional [Archive] for the version log and an optional [Generator] for
// prompt-driven layouts.
//
// # Requests in flight
//
// Save and Generate run their I/O without holding the controller lock, so the
// canvas stays usable while they wait. Only one of them may be outstanding at
// a time; a second call fails with errors.ErrCodeRequestInFlight.
//
// Every Open, OpenNew and Close starts a new epoch. A response that comes
// back for an older epoch is discarded with errors.ErrCodeStaleResponse and
// never touches the current session.
//
// # Generation
//
// Generate does not change the layout. It returns a candidate which the
// caller either accepts or rejects. Accepting replaces the layout the way a
// restore does and keeps the previous layout as an unsaved checkpoint that
// UndoGeneration puts back.
package session
