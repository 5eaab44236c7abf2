package geometry

import "sync"

// Provider resolves the current rectangle of an element relative to the
// canvas origin. It must be cheap and synchronous since it is queried on
// every pointer move during a drag. The boolean is false when the element
// is unknown or not visible.
type Provider interface {
	Rect(elementID, canvasID string) (Rect, bool)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(elementID, canvasID string) (Rect, bool)

// Rect calls f.
func (f ProviderFunc) Rect(elementID, canvasID string) (Rect, bool) {
	return f(elementID, canvasID)
}

// Static is a Provider backed by rectangles reported from outside, typically
// by a renderer after it has laid out the widgets. It is safe for concurrent
// use.
type Static struct {
	mu     sync.RWMutex
	canvas Rect
	rects  map[string]Rect
}

// NewStatic creates a Static provider for a canvas of the given size.
func NewStatic(width, height float64) *Static {
	return &Static{
		canvas: Rect{Width: width, Height: height},
		rects:  make(map[string]Rect),
	}
}

// Rect implements Provider. The canvas id is accepted as-is; a Static
// provider only ever serves a single canvas.
func (s *Static) Rect(elementID, canvasID string) (Rect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if elementID == canvasID {
		return s.canvas, true
	}
	r, ok := s.rects[elementID]
	return r, ok
}

// Set records the rectangle for an element, replacing any previous value.
func (s *Static) Set(elementID string, r Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rects[elementID] = r
}

// SetAll records several rectangles at once.
func (s *Static) SetAll(rects map[string]Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range rects {
		s.rects[id] = r
	}
}

// Delete forgets an element's rectangle.
func (s *Static) Delete(elementID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rects, elementID)
}

// Resize changes the canvas bounds.
func (s *Static) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas = Rect{Width: width, Height: height}
}

// Placement is the minimal view of a placed item a Sized provider needs.
type Placement struct {
	Kind string
	X, Y float64
}

// Locator finds the current placement of an item by id.
type Locator interface {
	Placement(id string) (Placement, bool)
}

// Size is a nominal width and height.
type Size struct {
	Width  float64
	Height float64
}

// Sized derives rectangles from live item positions and a nominal size per
// component kind. A measured rectangle reported for an item refines its size;
// the position always comes from the live layout so a moved item never keeps
// a stale origin. Items the locator does not know fall back to their
// reported rectangle as-is.
type Sized struct {
	canvas   Rect
	sizes    map[string]Size
	fallback Size
	locator  Locator
	reported *Static
}

// NewSized creates a Sized provider. sizes maps a component kind to its
// nominal size; kinds missing from the map use fallback.
func NewSized(width, height float64, sizes map[string]Size, fallback Size, locator Locator) *Sized {
	return &Sized{
		canvas:   Rect{Width: width, Height: height},
		sizes:    sizes,
		fallback: fallback,
		locator:  locator,
		reported: NewStatic(width, height),
	}
}

// Report stores a measured rectangle for an element.
func (s *Sized) Report(elementID string, r Rect) { s.reported.Set(elementID, r) }

// ReportAll stores several measured rectangles.
func (s *Sized) ReportAll(rects map[string]Rect) { s.reported.SetAll(rects) }

// Forget drops a measured rectangle.
func (s *Sized) Forget(elementID string) { s.reported.Delete(elementID) }

// SetLocator replaces the placement source.
func (s *Sized) SetLocator(l Locator) { s.locator = l }

// Rect implements Provider.
func (s *Sized) Rect(elementID, canvasID string) (Rect, bool) {
	if elementID == canvasID {
		return s.canvas, true
	}
	measured, hasMeasured := s.reported.Rect(elementID, canvasID)

	var p Placement
	located := false
	if s.locator != nil {
		p, located = s.locator.Placement(elementID)
	}
	switch {
	case located && hasMeasured:
		return measured.At(p.X, p.Y), true
	case located:
		size, ok := s.sizes[p.Kind]
		if !ok {
			size = s.fallback
		}
		return Rect{Left: p.X, Top: p.Y, Width: size.Width, Height: size.Height}, true
	case hasMeasured:
		return measured, true
	}
	return Rect{}, false
}

var (
	_ Provider = (*Static)(nil)
	_ Provider = (*Sized)(nil)
	_ Provider = ProviderFunc(nil)
)
