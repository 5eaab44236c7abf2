package generate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/logsmart/designer/pkg/geometry"
)

const systemPrompt = `You are a UI Layout Engine. Your goal is to generate a JSON layout for a form based on the user's request and the provided context.

### CONTEXT AWARENESS:
The user will provide:
1. **Canvas Dimensions**: The maximum width/height available.
2. **Component Sizes**: The specific Width x Height for each field type (e.g., temperature is 80px tall).

### LAYOUT RULES:
1. **Vertical Flow**: Arrange items in a single vertical column unless asked for a grid.
2. **Positioning Logic**:
   - Start the first item at {"x": 20, "y": 20}.
   - **Calculate Y**: For the next item, take the previous item's y + previous item's height + 20px gap.
   - *Example*: If Item 1 is at y=20 and is 80px tall, Item 2 starts at y=120 (20+80+20).
   - Keep x: 20 aligned left.

3. **Strict Field Types** (Use ONLY these):
   - text_input: Standard text field.
   - checkbox: Boolean toggle.
   - temperature: Temperature picker (Unit defaults to "°C").
   - dropdown: Selection list (Must provide an options array).
   - label: Static text.

4. **Props Handling**:
   - min/max must be numbers (e.g., min: -10.0).
   - editable: usually true for inputs, false for labels.
   - value: Default value if specified.

### OUTPUT FORMAT:
Return ONLY the raw JSON object {"template_layout": [{"field_type": ..., "position": {"x": ..., "y": ...}, "props": {...}}]}. Do not include markdown formatting.`

// layoutContext renders the canvas and component sizes sent ahead of the
// user's request. Types are listed alphabetically so the text is stable.
func layoutContext(width, height float64, sizes map[string]geometry.Size) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Canvas Dimensions: %gx%g\n", width, height)
	b.WriteString("Component Sizes:\n")
	types := make([]string, 0, len(sizes))
	for typ := range sizes {
		types = append(types, typ)
	}
	slices.Sort(types)
	for _, typ := range types {
		fmt.Fprintf(&b, "- %s: %gx%g\n", typ, sizes[typ].Width, sizes[typ].Height)
	}
	return b.String()
}

func userMessage(layoutCtx, prompt string) string {
	return layoutCtx + "\nRequest: " + prompt
}
