package canvas

import (
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/logsmart/designer/pkg/align"
	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/geometry"
	"github.com/logsmart/designer/pkg/snap"
)

// Default canvas dimensions used when no geometry provider is supplied.
const (
	DefaultWidth    = 800.0
	DefaultHeight   = 600.0
	DefaultCanvasID = "canvas"
)

// fallbackSize is the nominal size of an item whose type has no catalog
// entry, which only happens for layouts loaded from elsewhere.
var fallbackSize = geometry.Size{Width: 120, Height: 40}

// Model is the live, mutable layout of one open template together with its
// selection. All methods are safe for concurrent use.
//
// Operations that name an item which does not exist are no-ops and report
// false; only adding an unknown component type is an error.
type Model struct {
	mu        sync.RWMutex
	items     []Item
	selection []string
	revision  uint64

	catalog   *Catalog
	geom      geometry.Provider
	canvasID  string
	threshold float64
	width     float64
	height    float64
	newID     func() string
}

// Option configures a Model.
type Option func(*Model)

// WithCatalog sets the component catalog used to validate and populate new
// items.
func WithCatalog(c *Catalog) Option {
	return func(m *Model) { m.catalog = c }
}

// WithGeometry sets the provider queried for item and canvas rectangles.
func WithGeometry(p geometry.Provider) Option {
	return func(m *Model) { m.geom = p }
}

// WithCanvasID sets the id under which the canvas is known to the provider.
func WithCanvasID(id string) Option {
	return func(m *Model) { m.canvasID = id }
}

// WithSize sets the canvas dimensions used by the default provider. It has
// no effect together with WithGeometry.
func WithSize(width, height float64) Option {
	return func(m *Model) { m.width, m.height = width, height }
}

// WithThreshold sets the snap distance used by Move. Nothing is closer than
// a zero or negative distance, so such a threshold turns snapping off.
func WithThreshold(px float64) Option {
	return func(m *Model) { m.threshold = px }
}

// WithIDFunc replaces the id generator for new items.
func WithIDFunc(fn func() string) Option {
	return func(m *Model) { m.newID = fn }
}

// New creates an empty Model. Without WithGeometry the model sizes items from
// the catalog and places them at their stored positions on a canvas of
// DefaultWidth x DefaultHeight unless WithSize says otherwise.
func New(opts ...Option) *Model {
	m := &Model{
		canvasID:  DefaultCanvasID,
		threshold: snap.DefaultThreshold,
		width:     DefaultWidth,
		height:    DefaultHeight,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.catalog == nil {
		m.catalog = DefaultCatalog()
	}
	if m.geom == nil {
		m.geom = geometry.NewSized(m.width, m.height, m.catalog.Sizes(), fallbackSize, m)
	}
	return m
}

// Catalog returns the component catalog.
func (m *Model) Catalog() *Catalog { return m.catalog }

// Geometry returns the rectangle provider.
func (m *Model) Geometry() geometry.Provider { return m.geom }

// CanvasID returns the canvas id passed to the provider.
func (m *Model) CanvasID() string { return m.canvasID }

// Add places a new item of the given type at (x, y) with the type's default
// props and both axes unlocked. The item is appended, so it is drawn on top.
// Non-finite coordinates are stored as 0.
func (m *Model) Add(typ string, x, y float64) (Item, error) {
	ct, ok := m.catalog.Lookup(typ)
	if !ok {
		return Item{}, errors.New(errors.ErrCodeUnknownComponentType, "unknown component type %q", typ)
	}
	it := Item{
		ID:    m.newID(),
		Type:  ct.Type,
		X:     finiteOr(x, 0),
		Y:     finiteOr(y, 0),
		Props: ct.Defaults,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for m.indexLocked(it.ID) >= 0 {
		it.ID = m.newID()
	}
	m.items = append(m.items, it)
	m.revision++
	return it.Clone(), nil
}

// Remove deletes an item and drops it from the selection.
func (m *Model) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return false
	}
	m.items = slices.Delete(m.items, i, i+1)
	m.selection = slices.DeleteFunc(m.selection, func(s string) bool { return s == id })
	m.revision++
	return true
}

// Move drags an item towards (x, y). Unlocked axes are snapped against every
// other item; locked axes keep their stored value whatever is proposed. The
// returned result carries the coordinates actually stored and the guide lines
// for the snapped axes. The boolean is false when the item does not exist.
func (m *Model) Move(id string, x, y float64) (snap.Result, bool) {
	m.mu.RLock()
	i := m.indexLocked(id)
	if i < 0 {
		m.mu.RUnlock()
		return snap.Result{}, false
	}
	cur := m.items[i]
	siblings := make([]string, 0, len(m.items)-1)
	for _, it := range m.items {
		if it.ID != id {
			siblings = append(siblings, it.ID)
		}
	}
	m.mu.RUnlock()

	var axes snap.Axis
	if !cur.LockX && isFinite(x) {
		axes |= snap.AxisX
	}
	if !cur.LockY && isFinite(y) {
		axes |= snap.AxisY
	}
	if axes == 0 {
		return snap.Result{X: cur.X, Y: cur.Y}, true
	}

	// The provider may call back into Placement, so snapping runs unlocked.
	res := snap.Result{X: finiteOr(x, cur.X), Y: finiteOr(y, cur.Y)}
	if m.threshold > 0 {
		res = snap.Compute(m.geom, snap.Request{
			CanvasID:  m.canvasID,
			DraggedID: id,
			X:         res.X,
			Y:         res.Y,
			Siblings:  siblings,
			Threshold: m.threshold,
			Axes:      axes,
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i = m.indexLocked(id)
	if i < 0 {
		return snap.Result{}, false
	}
	it := &m.items[i]
	if axes.Has(snap.AxisX) && !it.LockX {
		it.X = res.X
	} else {
		res.X, res.GuideLinesX = it.X, nil
	}
	if axes.Has(snap.AxisY) && !it.LockY {
		it.Y = res.Y
	} else {
		res.Y, res.GuideLinesY = it.Y, nil
	}
	m.revision++
	return res, true
}

// SetLock locks or unlocks one or both axes of an item. Position is not
// affected.
func (m *Model) SetLock(id string, axis snap.Axis, locked bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return false
	}
	it := &m.items[i]
	if axis.Has(snap.AxisX) {
		it.LockX = locked
	}
	if axis.Has(snap.AxisY) {
		it.LockY = locked
	}
	m.revision++
	return true
}

// UpdateProps merges patch into an item's props. Keys not in patch are kept;
// values are stored without validation.
func (m *Model) UpdateProps(id string, patch map[string]any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return false
	}
	it := &m.items[i]
	if it.Props == nil {
		it.Props = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		it.Props[k] = cloneValue(v)
	}
	m.revision++
	return true
}

// Select makes id the only selected item. An empty or unknown id clears the
// selection.
func (m *Model) Select(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexLocked(id) < 0 {
		m.selection = nil
		return
	}
	m.selection = []string{id}
}

// ToggleSelect adds id to the selection, or removes it if already selected.
// Unknown ids are ignored.
func (m *Model) ToggleSelect(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexLocked(id) < 0 {
		return
	}
	if j := slices.Index(m.selection, id); j >= 0 {
		m.selection = slices.Delete(m.selection, j, j+1)
		return
	}
	m.selection = append(m.selection, id)
}

// ClearSelection empties the selection.
func (m *Model) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = nil
}

// Selection returns the selected ids in selection order.
func (m *Model) Selection() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.selection)
}

// Align lines up the selection against the canvas bounds or against the
// selection's own bounding box. Items locked on the affected axis, and items
// the provider cannot resolve, stay where they are. It returns the moves that
// were applied.
func (m *Model) Align(edge align.Edge, ref align.Reference) []align.Move {
	m.mu.RLock()
	type sel struct {
		id           string
		lockX, lockY bool
	}
	var selected []sel
	for _, id := range m.selection {
		if i := m.indexLocked(id); i >= 0 {
			selected = append(selected, sel{id, m.items[i].LockX, m.items[i].LockY})
		}
	}
	m.mu.RUnlock()
	if len(selected) == 0 {
		return nil
	}

	targets := make([]align.Target, 0, len(selected))
	rects := make([]geometry.Rect, 0, len(selected))
	for _, s := range selected {
		r, ok := m.geom.Rect(s.id, m.canvasID)
		if !ok {
			continue
		}
		targets = append(targets, align.Target{ID: s.id, Rect: r, LockX: s.lockX, LockY: s.lockY})
		rects = append(rects, r)
	}

	var box geometry.Rect
	var ok bool
	if ref == align.ToSelection {
		box, ok = align.BoundingBox(rects...)
	} else {
		box, ok = m.geom.Rect(m.canvasID, m.canvasID)
	}
	if !ok {
		return nil
	}
	moves := align.Align(targets, box, edge)
	if len(moves) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	applied := moves[:0]
	for _, mv := range moves {
		i := m.indexLocked(mv.ID)
		if i < 0 {
			continue
		}
		it := &m.items[i]
		if mv.DX != 0 && !it.LockX {
			it.X += mv.DX
		}
		if mv.DY != 0 && !it.LockY {
			it.Y += mv.DY
		}
		applied = append(applied, mv)
	}
	if len(applied) > 0 {
		m.revision++
	}
	return applied
}

// Replace swaps the entire layout for a deep copy of items and clears the
// selection. Duplicate ids get fresh ones and non-finite coordinates become
// 0, so the stored layout always satisfies the model's invariants.
func (m *Model) Replace(items []Item) {
	layout := CloneLayout(items)
	seen := make(map[string]bool, len(layout))
	for i := range layout {
		it := &layout[i]
		for it.ID == "" || seen[it.ID] {
			it.ID = m.newID()
		}
		seen[it.ID] = true
		it.X = finiteOr(it.X, 0)
		it.Y = finiteOr(it.Y, 0)
		if it.Props == nil {
			it.Props = map[string]any{}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = layout
	m.selection = nil
	m.revision++
}

// Items returns a deep copy of the layout in z-order.
func (m *Model) Items() []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := CloneLayout(m.items)
	if out == nil {
		out = []Item{}
	}
	return out
}

// Item returns a copy of one item.
func (m *Model) Item(id string) (Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexLocked(id)
	if i < 0 {
		return Item{}, false
	}
	return m.items[i].Clone(), true
}

// Len returns the number of items.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Revision returns a counter that increases on every layout mutation.
// Selection changes do not count.
func (m *Model) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}

// Placement implements geometry.Locator.
func (m *Model) Placement(id string) (geometry.Placement, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexLocked(id)
	if i < 0 {
		return geometry.Placement{}, false
	}
	it := m.items[i]
	return geometry.Placement{Kind: it.Type, X: it.X, Y: it.Y}, true
}

func (m *Model) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(m.items, func(it Item) bool { return it.ID == id })
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func finiteOr(v, fallback float64) float64 {
	if isFinite(v) {
		return v
	}
	return fallback
}

var _ geometry.Locator = (*Model)(nil)
