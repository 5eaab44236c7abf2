package canvas

import (
	"sync"

	"github.com/logsmart/designer/pkg/geometry"
)

// Component type tags. The set is closed: adding a kind means adding a
// constant and a catalog entry.
const (
	TextInput   = "text_input"
	Label       = "label"
	Checkbox    = "checkbox"
	Dropdown    = "dropdown"
	Temperature = "temperature"
)

// ComponentType is a palette entry. Width and Height are the nominal size
// used when no rendered geometry is available.
type ComponentType struct {
	Type     string         `json:"type"`
	Name     string         `json:"name"`
	Icon     string         `json:"icon"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Defaults map[string]any `json:"defaults,omitempty"`
}

// Catalog is the read-only set of known component types, kept in palette
// order. It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	types []ComponentType
	index map[string]int
}

// NewCatalog builds a catalog from the given entries. A later entry with the
// same Type replaces an earlier one in place.
func NewCatalog(types ...ComponentType) *Catalog {
	c := &Catalog{index: make(map[string]int, len(types))}
	for _, t := range types {
		c.register(t)
	}
	return c
}

func (c *Catalog) register(t ComponentType) {
	if i, ok := c.index[t.Type]; ok {
		c.types[i] = t
		return
	}
	c.index[t.Type] = len(c.types)
	c.types = append(c.types, t)
}

// DefaultCatalog returns the five built-in form field kinds.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		ComponentType{
			Type: TextInput, Name: "Text Input", Icon: "text-cursor-input",
			Width: 200, Height: 40,
			Defaults: map[string]any{"text": "", "placeholder": "Enter text", "editable": true},
		},
		ComponentType{
			Type: Label, Name: "Label", Icon: "type",
			Width: 120, Height: 24,
			Defaults: map[string]any{"text": "Label", "size": 16.0, "weight": "normal", "editable": false},
		},
		ComponentType{
			Type: Checkbox, Name: "Checkbox", Icon: "square-check",
			Width: 160, Height: 24,
			Defaults: map[string]any{"text": "Checkbox", "selected": false, "editable": true},
		},
		ComponentType{
			Type: Dropdown, Name: "Dropdown", Icon: "list",
			Width: 200, Height: 40,
			Defaults: map[string]any{
				"text":     "Select",
				"options":  []any{"Option 1", "Option 2"},
				"selected": "",
				"editable": true,
			},
		},
		ComponentType{
			Type: Temperature, Name: "Temperature", Icon: "thermometer",
			Width: 160, Height: 80,
			Defaults: map[string]any{
				"text":     "Temperature",
				"value":    0.0,
				"min":      -10.0,
				"max":      10.0,
				"unit":     "°C",
				"editable": true,
			},
		},
	)
}

// Lookup returns the entry for a type tag.
func (c *Catalog) Lookup(typ string) (ComponentType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[typ]
	if !ok {
		return ComponentType{}, false
	}
	t := c.types[i]
	t.Defaults = CloneProps(t.Defaults)
	return t, true
}

// Has reports whether typ is a known component type.
func (c *Catalog) Has(typ string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[typ]
	return ok
}

// Types returns every entry in palette order.
func (c *Catalog) Types() []ComponentType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ComponentType, len(c.types))
	for i, t := range c.types {
		t.Defaults = CloneProps(t.Defaults)
		out[i] = t
	}
	return out
}

// Sizes returns the nominal size of every entry keyed by type tag.
func (c *Catalog) Sizes() map[string]geometry.Size {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]geometry.Size, len(c.types))
	for _, t := range c.types {
		out[t.Type] = geometry.Size{Width: t.Width, Height: t.Height}
	}
	return out
}
