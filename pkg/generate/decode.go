package generate

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/google/uuid"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/errors"
)

type layoutOutput struct {
	TemplateLayout []field `json:"template_layout"`
}

type field struct {
	FieldType string         `json:"field_type"`
	Position  position       `json:"position"`
	Props     map[string]any `json:"props"`
}

type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Decode parses a model reply into canvas items with fresh IDs. A reply
// wrapped in a markdown code fence is accepted, as is a bare array of
// fields.
func Decode(content []byte) ([]canvas.Item, error) {
	content = stripFence(bytes.TrimSpace(content))

	var fields []field
	if len(content) > 0 && content[0] == '[' {
		if err := json.Unmarshal(content, &fields); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode generated layout")
		}
	} else {
		var out layoutOutput
		if err := json.Unmarshal(content, &out); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode generated layout")
		}
		fields = out.TemplateLayout
	}

	items := make([]canvas.Item, 0, len(fields))
	for _, f := range fields {
		items = append(items, canvas.Item{
			ID:    uuid.NewString(),
			Type:  f.FieldType,
			X:     finite(f.Position.X),
			Y:     finite(f.Position.Y),
			Props: canvas.CloneProps(f.Props),
		})
	}
	return items, nil
}

func stripFence(b []byte) []byte {
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	} else {
		return b
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// reissueIDs gives every item a new ID.
func reissueIDs(items []canvas.Item) {
	for i := range items {
		items[i].ID = uuid.NewString()
	}
}
