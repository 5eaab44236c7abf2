package canvas

import "maps"

// Item is a form field placed on the canvas.
//
// X and Y are the top-left corner in canvas-local pixels. Props is open: its
// keys and value types depend on the component type and are stored as given.
type Item struct {
	ID    string         `json:"id" yaml:"id" bson:"id"`
	Type  string         `json:"type" yaml:"type" bson:"type"`
	X     float64        `json:"x" yaml:"x" bson:"x"`
	Y     float64        `json:"y" yaml:"y" bson:"y"`
	LockX bool           `json:"lockX,omitempty" yaml:"lockX,omitempty" bson:"lockX"`
	LockY bool           `json:"lockY,omitempty" yaml:"lockY,omitempty" bson:"lockY"`
	Props map[string]any `json:"props" yaml:"props" bson:"props"`
}

// Clone returns a deep copy of the item. Nested maps and slices inside Props
// are copied so the clone shares no mutable state with the original.
func (it Item) Clone() Item {
	it.Props = CloneProps(it.Props)
	return it
}

// CloneLayout deep-copies a sequence of items, preserving order.
func CloneLayout(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// CloneProps deep-copies a property map. A nil map clones to an empty one.
func CloneProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return CloneProps(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case []float64:
		return append([]float64(nil), v...)
	case []int:
		return append([]int(nil), v...)
	case []bool:
		return append([]bool(nil), v...)
	case []map[string]any:
		out := make([]map[string]any, len(v))
		for i, m := range v {
			out[i] = CloneProps(m)
		}
		return out
	case map[string]string:
		return maps.Clone(v)
	default:
		return v
	}
}
