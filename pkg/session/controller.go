package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/geometry"
	"github.com/logsmart/designer/pkg/history"
	"github.com/logsmart/designer/pkg/observability"
	"github.com/logsmart/designer/pkg/template"
)

// Generation is a candidate layout returned by the generator and not yet
// applied. Dropped counts the generated fields whose type is not in the
// catalog.
type Generation struct {
	Prompt  string        `json:"prompt"`
	Items   []canvas.Item `json:"items"`
	Dropped int           `json:"dropped,omitempty"`
}

// Controller manages a single open template. It is safe for concurrent use.
type Controller struct {
	persist   Persistence
	archive   Archive
	deleter   Deleter
	gen       Generator
	logger    *log.Logger
	modelOpts []canvas.Option
	histOpts  []history.Option

	mu         sync.Mutex
	epoch      uint64
	active     bool
	tpl        template.Template // metadata; Layout is unused while open
	model      *canvas.Model
	hist       *history.Manager
	busy       bool
	pending    *Generation
	checkpoint []canvas.Item
}

// Option configures a Controller.
type Option func(*Controller)

// WithGenerator enables Generate.
func WithGenerator(g Generator) Option {
	return func(c *Controller) { c.gen = g }
}

// WithArchive sets where the version log is persisted. By default the
// Persistence is used if it implements Archive.
func WithArchive(a Archive) Option {
	return func(c *Controller) { c.archive = a }
}

// WithDeleter sets how templates are deleted. By default the Persistence is
// used if it implements Deleter.
func WithDeleter(d Deleter) Option {
	return func(c *Controller) { c.deleter = d }
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithCanvasOptions adds options for every canvas.Model the controller
// creates.
func WithCanvasOptions(opts ...canvas.Option) Option {
	return func(c *Controller) { c.modelOpts = append(c.modelOpts, opts...) }
}

// WithHistoryOptions adds options for every history.Manager the controller
// creates.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(c *Controller) { c.histOpts = append(c.histOpts, opts...) }
}

// WithGeometry sets the rectangle provider used for snapping and alignment.
func WithGeometry(p geometry.Provider) Option {
	return WithCanvasOptions(canvas.WithGeometry(p))
}

// WithCatalog sets the component catalog.
func WithCatalog(cat *canvas.Catalog) Option {
	return WithCanvasOptions(canvas.WithCatalog(cat))
}

// WithThreshold sets the snap distance in pixels.
func WithThreshold(px float64) Option {
	return WithCanvasOptions(canvas.WithThreshold(px))
}

// New creates a Controller with no open template.
func New(persist Persistence, opts ...Option) *Controller {
	c := &Controller{persist: persist}
	if a, ok := persist.(Archive); ok {
		c.archive = a
	}
	if d, ok := persist.(Deleter); ok {
		c.deleter = d
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// OpenNew starts a session for a new, unsaved template.
func (c *Controller) OpenNew(name string, schedule template.Schedule) error {
	if err := errors.ValidateTemplateName(name); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	model := canvas.New(c.modelOpts...)
	hist := history.New(model, c.histOpts...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.installLocked(template.Template{Name: name, Schedule: schedule.Clone()}, model, hist)
	c.logger.Debug("opened new template", "name", name)
	return nil
}

// Open loads a template and its version log and makes it the open session.
// On failure the current session, if any, is left as it was.
func (c *Controller) Open(ctx context.Context, id string) error {
	if err := errors.ValidateTemplateID(id); err != nil {
		return err
	}
	if c.persist == nil {
		return errors.New(errors.ErrCodeUnsupported, "no persistence configured")
	}

	c.mu.Lock()
	start := c.epoch
	c.mu.Unlock()

	t, err := c.persist.Load(ctx, id)
	if err != nil {
		return err
	}
	var snaps []history.Snapshot
	if c.archive != nil {
		if snaps, err = c.archive.LoadHistory(ctx, t.ID); err != nil {
			return err
		}
	}

	model := canvas.New(c.modelOpts...)
	model.Replace(t.Layout)
	hist := history.New(model, c.histOpts...)
	hist.Seed(snaps)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != start {
		observability.Session().OnStaleResponse(ctx, "open")
		return errors.New(errors.ErrCodeStaleResponse, "template %s loaded after the session changed", id)
	}
	t.Layout = nil
	c.installLocked(t, model, hist)
	c.logger.Info("opened template", "template", t.ID, "name", t.Name, "items", model.Len(), "versions", len(snaps))
	observability.Session().OnOpen(ctx, t.ID, model.Len())
	return nil
}

func (c *Controller) installLocked(t template.Template, model *canvas.Model, hist *history.Manager) {
	c.epoch++
	c.active = true
	c.tpl = t
	c.model = model
	c.hist = hist
	c.busy = false
	c.pending = nil
	c.checkpoint = nil
}

// Close detaches the open template. Responses to requests still in flight
// will be discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Controller) closeLocked() {
	if !c.active {
		return
	}
	id := c.tpl.ID
	c.epoch++
	c.active = false
	c.tpl = template.Template{}
	c.model = nil
	c.hist = nil
	c.busy = false
	c.pending = nil
	c.checkpoint = nil
	c.logger.Debug("closed template", "template", id)
	observability.Session().OnClose(context.Background(), id)
}

// Active reports whether a template is open.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Busy reports whether a save or generation is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Canvas returns the live layout of the open template.
func (c *Controller) Canvas() (*canvas.Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked(); err != nil {
		return nil, err
	}
	return c.model, nil
}

// History returns the version log of the open template.
func (c *Controller) History() (*history.Manager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked(); err != nil {
		return nil, err
	}
	return c.hist, nil
}

// Template returns the open template with its current live layout.
func (c *Controller) Template() (template.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked(); err != nil {
		return template.Template{}, err
	}
	t := c.tpl.Clone()
	t.Layout = c.model.Items()
	return t, nil
}

// State returns the save state of the open template, or history.Clean when
// nothing is open.
func (c *Controller) State() history.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return history.Clean
	}
	return c.hist.State()
}

// Rename changes the template name. The change is unsaved until Save.
func (c *Controller) Rename(name string) error {
	if err := errors.ValidateTemplateName(name); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked(); err != nil {
		return err
	}
	if name == c.tpl.Name {
		return nil
	}
	c.tpl.Name = name
	c.hist.MarkDirty()
	return nil
}

// SetSchedule replaces the template schedule. The schedule is not validated.
func (c *Controller) SetSchedule(s template.Schedule) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked(); err != nil {
		return err
	}
	c.tpl.Schedule = s.Clone()
	c.hist.MarkDirty()
	return nil
}

// Save persists the template and appends a snapshot of the layout as it was
// when Save was called. On failure nothing is appended and the session stays
// Dirty. Edits made while the save is in flight keep the session Dirty.
func (c *Controller) Save(ctx context.Context) (history.Snapshot, error) {
	if c.persist == nil {
		return history.Snapshot{}, errors.New(errors.ErrCodeUnsupported, "no persistence configured")
	}

	c.mu.Lock()
	if err := c.requireLocked(); err != nil {
		c.mu.Unlock()
		return history.Snapshot{}, err
	}
	if c.busy {
		c.mu.Unlock()
		return history.Snapshot{}, errors.New(errors.ErrCodeRequestInFlight, "another request is in flight for this template")
	}
	c.busy = true
	epoch := c.epoch
	hist := c.hist
	snap, mark := hist.Capture(c.tpl.Name)
	t := c.tpl.Clone()
	t.Layout = canvas.CloneLayout(snap.Layout)
	c.mu.Unlock()

	hooks := observability.Session()
	hooks.OnSaveStart(ctx, t.ID)
	start := time.Now()

	saved, err := c.persist.Save(ctx, t)
	if err != nil {
		c.release(epoch)
		hooks.OnSaveComplete(ctx, t.ID, 0, time.Since(start), err)
		c.logger.Warn("save failed", "template", t.ID, "name", t.Name, "err", err)
		return history.Snapshot{}, err
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		hooks.OnStaleResponse(ctx, "save")
		return history.Snapshot{}, errors.New(errors.ErrCodeStaleResponse, "save of %q completed after the session changed", t.Name)
	}
	committed := hist.Commit(snap, mark)
	c.tpl.ID = saved.ID
	c.tpl.Version = committed.Version
	c.tpl.CreatedAt = saved.CreatedAt
	c.tpl.UpdatedAt = saved.UpdatedAt
	archive := c.archive
	c.mu.Unlock()

	if archive != nil {
		if err := archive.AppendSnapshot(ctx, saved.ID, committed); err != nil {
			c.logger.Warn("failed to archive version", "template", saved.ID, "version", committed.Version, "err", err)
		}
	}
	c.release(epoch)

	hooks.OnSaveComplete(ctx, saved.ID, committed.Version, time.Since(start), nil)
	c.logger.Info("saved template", "template", saved.ID, "name", t.Name, "version", committed.Version)
	return committed, nil
}

// Restore replaces the live layout with the snapshot at a chronological
// index. See history.Manager.Restore.
func (c *Controller) Restore(index int) (history.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked(); err != nil {
		return history.Snapshot{}, err
	}
	s, err := c.hist.Restore(index)
	if err != nil {
		return history.Snapshot{}, err
	}
	c.checkpoint = nil
	c.logger.Debug("restored version", "template", c.tpl.ID, "version", s.Version)
	return s, nil
}

// Generate asks the generator for a layout matching prompt. The result is
// held as a pending candidate; the live layout is not changed. Items whose
// type the catalog does not know are dropped.
func (c *Controller) Generate(ctx context.Context, prompt string) (Generation, error) {
	if err := errors.ValidatePrompt(prompt); err != nil {
		return Generation{}, err
	}
	prompt = strings.TrimSpace(prompt)

	c.mu.Lock()
	if err := c.requireLocked(); err != nil {
		c.mu.Unlock()
		return Generation{}, err
	}
	if c.gen == nil {
		c.mu.Unlock()
		return Generation{}, errors.New(errors.ErrCodeUnsupported, "layout generation is not configured")
	}
	if c.busy {
		c.mu.Unlock()
		return Generation{}, errors.New(errors.ErrCodeRequestInFlight, "another request is in flight for this template")
	}
	c.busy = true
	epoch := c.epoch
	catalog := c.model.Catalog()
	c.mu.Unlock()

	hooks := observability.Session()
	hooks.OnGenerateStart(ctx, len(prompt))
	start := time.Now()

	items, err := c.gen.Generate(ctx, prompt)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		hooks.OnStaleResponse(ctx, "generate")
		return Generation{}, errors.New(errors.ErrCodeStaleResponse, "generation completed after the session changed")
	}
	c.busy = false
	if err != nil {
		hooks.OnGenerateComplete(ctx, 0, time.Since(start), err)
		c.logger.Warn("generation failed", "err", err)
		return Generation{}, err
	}

	g := Generation{Prompt: prompt}
	for _, it := range items {
		if !catalog.Has(it.Type) {
			g.Dropped++
			continue
		}
		g.Items = append(g.Items, it.Clone())
	}
	if g.Dropped > 0 {
		c.logger.Warn("dropped generated fields with unknown type", "count", g.Dropped)
	}
	c.pending = &g
	hooks.OnGenerateComplete(ctx, len(g.Items), time.Since(start), nil)
	c.logger.Info("generated layout", "items", len(g.Items), "duration", time.Since(start))
	return clonedGeneration(g), nil
}

// Pending returns the candidate awaiting AcceptGeneration or
// RejectGeneration.
func (c *Controller) Pending() (Generation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active || c.pending == nil {
		return Generation{}, false
	}
	return clonedGeneration(*c.pending), true
}

// AcceptGeneration replaces the live layout with the pending candidate and
// remembers the previous layout for UndoGeneration.
func (c *Controller) AcceptGeneration() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked(); err != nil {
		return err
	}
	if c.pending == nil {
		return errors.New(errors.ErrCodeNoPendingGeneration, "no generated layout to accept")
	}
	c.checkpoint = c.model.Items()
	c.model.Replace(c.pending.Items)
	c.pending = nil
	return nil
}

// UndoGeneration puts back the layout that AcceptGeneration replaced. Edits
// made after accepting are discarded.
func (c *Controller) UndoGeneration() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked(); err != nil {
		return err
	}
	if c.checkpoint == nil {
		return errors.New(errors.ErrCodeNoPendingGeneration, "no accepted generation to undo")
	}
	c.model.Replace(c.checkpoint)
	c.checkpoint = nil
	return nil
}

// RejectGeneration discards the pending candidate.
func (c *Controller) RejectGeneration() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked(); err != nil {
		return err
	}
	if c.pending == nil {
		return errors.New(errors.ErrCodeNoPendingGeneration, "no generated layout to reject")
	}
	c.pending = nil
	return nil
}

// Delete removes the open template from the store and closes the session.
// A template that was never saved is simply closed. If another template was
// opened while the delete was in flight, that session stays open.
func (c *Controller) Delete(ctx context.Context) error {
	c.mu.Lock()
	if err := c.requireLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.busy {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeRequestInFlight, "another request is in flight for this template")
	}
	id := c.tpl.ID
	epoch := c.epoch
	c.mu.Unlock()

	if id != "" {
		if c.deleter == nil {
			return errors.New(errors.ErrCodeUnsupported, "store cannot delete templates")
		}
		if err := c.deleter.Delete(ctx, id); err != nil {
			return err
		}
		c.logger.Info("deleted template", "template", id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		observability.Session().OnStaleResponse(ctx, "delete")
		return nil
	}
	c.closeLocked()
	return nil
}

func (c *Controller) release(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch == epoch {
		c.busy = false
	}
}

func (c *Controller) requireLocked() error {
	if !c.active {
		return errors.New(errors.ErrCodeNoActiveSession, "no template is open")
	}
	return nil
}

func clonedGeneration(g Generation) Generation {
	g.Items = canvas.CloneLayout(g.Items)
	return g
}
