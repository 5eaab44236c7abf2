// Package api exposes designer sessions over HTTP as JSON.
//
// A client creates a session with POST /sessions, either for a new template
// or for a stored one, and then edits it through the session's sub-routes.
// Each session wraps one [session.Controller]; the session ID in the URL is
// unrelated to the template ID.
//
// Rendering clients report measured rectangles with PUT
// /sessions/{sid}/geometry. Snapping and alignment use those rectangles and
// fall back to catalog sizes for anything not yet measured.
//
// Errors are written as {"code": "...", "message": "..."} with a status
// derived from the error code; see [StatusFor].
package api
