package cache

import (
	"strings"
	"unicode"
)

// Keyer builds cache keys.
type Keyer interface {
	// GenerationKey returns the key for a generated layout.
	GenerationKey(model, prompt string, opts GenerationKeyOpts) string
}

// GenerationKeyOpts are the inputs besides model and prompt that change a
// generated layout.
type GenerationKeyOpts struct {
	Temperature   float64 `json:"temperature"`
	CanvasWidth   float64 `json:"canvas_width"`
	CanvasHeight  float64 `json:"canvas_height"`
	CatalogDigest string  `json:"catalog_digest,omitempty"`
}

// DefaultKeyer hashes its inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GenerationKey hashes the model, the normalized prompt and opts. Prompts
// that differ only in case or whitespace share a key.
func (DefaultKeyer) GenerationKey(model, prompt string, opts GenerationKeyOpts) string {
	return hashKey("gen", model, normalizePrompt(prompt), opts)
}

func normalizePrompt(p string) string {
	return strings.ToLower(strings.Join(strings.FieldsFunc(p, unicode.IsSpace), " "))
}
