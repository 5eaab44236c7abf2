package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/logsmart/designer/pkg/align"
	"github.com/logsmart/designer/pkg/buildinfo"
	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/geometry"
	"github.com/logsmart/designer/pkg/history"
	"github.com/logsmart/designer/pkg/session"
	"github.com/logsmart/designer/pkg/snap"
	"github.com/logsmart/designer/pkg/template"
)

// SessionView is the state of one API session.
type SessionView struct {
	ID        string              `json:"id"`
	Template  template.Template   `json:"template"`
	State     history.State       `json:"state"`
	Busy      bool                `json:"busy"`
	Selection []string            `json:"selection"`
	Versions  int                 `json:"versions"`
	Pending   *session.Generation `json:"pending,omitempty"`
}

type createSessionRequest struct {
	TemplateID string             `json:"template_id"`
	Name       string             `json:"name"`
	Schedule   *template.Schedule `json:"schedule"`
}

type updateTemplateRequest struct {
	Name     *string            `json:"name"`
	Schedule *template.Schedule `json:"schedule"`
}

type addItemRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type moveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type moveResponse struct {
	Item canvas.Item `json:"item"`
	snap.Result
}

type lockRequest struct {
	Axis   string `json:"axis"`
	Locked bool   `json:"locked"`
}

type selectRequest struct {
	IDs    []string `json:"ids"`
	Toggle bool     `json:"toggle"`
}

type alignRequest struct {
	Edge      string `json:"edge"`
	Reference string `json:"reference"`
}

type alignResponse struct {
	Moves []align.Move  `json:"moves"`
	Items []canvas.Item `json:"items"`
}

type geometryRequest struct {
	Rects map[string]geometry.Rect `json:"rects"`
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Types())
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	c := s.newController()
	var err error
	if req.TemplateID != "" {
		err = c.Open(r.Context(), req.TemplateID)
	} else {
		sched := template.DefaultSchedule()
		if req.Schedule != nil {
			sched = *req.Schedule
		}
		err = c.OpenNew(req.Name, sched)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sid := s.sessions.Add(c)
	s.logger.Info("session created", "session", sid, "template", req.TemplateID)
	s.writeSession(w, r, http.StatusCreated, sid, c)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sid, c, ok := s.controller(w, r)
	if !ok {
		return
	}
	s.writeSession(w, r, http.StatusOK, sid, c)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if !s.sessions.Remove(sid) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "session %s not found", sid))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	sid, c, ok := s.controller(w, r)
	if !ok {
		return
	}
	var req updateTemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name != nil {
		if err := c.Rename(*req.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Schedule != nil {
		if err := c.SetSchedule(*req.Schedule); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.writeSession(w, r, http.StatusOK, sid, c)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.controller(w, r)
	if !ok {
		return
	}
	if err := c.Delete(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	m, ok := s.canvas(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	it, err := m.Add(req.Type, req.X, req.Y)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	m, ok := s.canvas(w, r)
	if !ok {
		return
	}
	// Removing an absent item succeeds so repeated deletes are harmless.
	id := chi.URLParam(r, "id")
	m.Remove(id)
	if sized, ok := m.Geometry().(*geometry.Sized); ok {
		sized.Forget(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	m, ok := s.canvas(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	// Edits to an item that is already gone are no-ops, like repeated deletes.
	id := chi.URLParam(r, "id")
	res, found := m.Move(id, req.X, req.Y)
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	it, _ := m.Item(id)
	writeJSON(w, http.StatusOK, moveResponse{Item: it, Result: res})
}

func (s *Server) handleLockItem(w http.ResponseWriter, r *http.Request) {
	m, ok := s.canvas(w, r)
	if !ok {
		return
	}
	var req lockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	axis, err := parseAxis(req.Axis)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if !m.SetLock(id, axis, req.Locked) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	it, _ := m.Item(id)
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleUpdateProps(w http.ResponseWriter, r *http.Request) {
	m, ok := s.canvas(w, r)
	if !ok {
		return
	}
	var patch map[string]any
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if !m.UpdateProps(id, patch) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	it, _ := m.Item(id)
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	m, ok := s.canvas(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.Toggle {
		m.ClearSelection()
	}
	for _, id := range req.IDs {
		m.ToggleSelect(id)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"selection": m.Selection()})
}

func (s *Server) handleAlign(w http.ResponseWriter, r *http.Request) {
	m, ok := s.canvas(w, r)
	if !ok {
		return
	}
	var req alignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	edge, err := align.ParseEdge(req.Edge)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid edge"))
		return
	}
	ref, err := align.ParseReference(req.Reference)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid reference"))
		return
	}
	moves := m.Align(edge, ref)
	if moves == nil {
		moves = []align.Move{}
	}
	writeJSON(w, http.StatusOK, alignResponse{Moves: moves, Items: m.Items()})
}

func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	m, ok := s.canvas(w, r)
	if !ok {
		return
	}
	var req geometryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	switch p := m.Geometry().(type) {
	case *geometry.Sized:
		p.ReportAll(req.Rects)
	case *geometry.Static:
		p.SetAll(req.Rects)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "geometry provider does not accept reports"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.controller(w, r)
	if !ok {
		return
	}
	saved, err := c.Save(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, _ := c.Template()
	writeJSON(w, http.StatusOK, map[string]any{"snapshot": saved, "template": t})
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.controller(w, r)
	if !ok {
		return
	}
	h, err := c.History()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Versions())
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.controller(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid version index"))
		return
	}
	restored, err := c.Restore(index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restored)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.controller(w, r)
	if !ok {
		return
	}
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := c.Generate(r.Context(), req.Prompt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleGenerationAction(w http.ResponseWriter, r *http.Request) {
	sid, c, ok := s.controller(w, r)
	if !ok {
		return
	}
	var err error
	switch action := chi.URLParam(r, "action"); action {
	case "accept":
		err = c.AcceptGeneration()
	case "undo":
		err = c.UndoGeneration()
	case "reject":
		err = c.RejectGeneration()
	default:
		err = errors.New(errors.ErrCodeNotFound, "unknown generation action %q", action)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, sid, c)
}

// controller resolves the {sid} URL parameter, writing a 404 if unknown.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) (string, *session.Controller, bool) {
	sid := chi.URLParam(r, "sid")
	c, err := s.sessions.Get(sid)
	if err != nil {
		s.writeError(w, r, err)
		return "", nil, false
	}
	return sid, c, true
}

func (s *Server) canvas(w http.ResponseWriter, r *http.Request) (*canvas.Model, bool) {
	_, c, ok := s.controller(w, r)
	if !ok {
		return nil, false
	}
	m, err := c.Canvas()
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return m, true
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, sid string, c *session.Controller) {
	t, err := c.Template()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view := SessionView{
		ID:       sid,
		Template: t,
		State:    c.State(),
		Busy:     c.Busy(),
	}
	if m, err := c.Canvas(); err == nil {
		view.Selection = m.Selection()
	}
	if h, err := c.History(); err == nil {
		view.Versions = h.Len()
	}
	if g, ok := c.Pending(); ok {
		view.Pending = &g
	}
	if view.Selection == nil {
		view.Selection = []string{}
	}
	writeJSON(w, status, view)
}

func parseAxis(s string) (snap.Axis, error) {
	switch s {
	case "x":
		return snap.AxisX, nil
	case "y":
		return snap.AxisY, nil
	case "both", "":
		return snap.AxisBoth, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown axis %q (want x, y or both)", s)
}
