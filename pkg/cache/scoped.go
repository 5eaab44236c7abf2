package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis without their entries colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "site:leeds:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GenerationKey generates a prefixed key for generated layouts.
func (k *ScopedKeyer) GenerationKey(model, prompt string, opts GenerationKeyOpts) string {
	return k.prefix + k.inner.GenerationKey(model, prompt, opts)
}
