package cache

import "github.com/matzehuels/cropsy/pkg/crop"

// ScopedKeyer wraps a Keyer with a prefix, isolating deployments that share
// one cache server.
//
// Example usage:
//
//	// Stage and show rigs use separate namespaces on the same Redis
//	stage := NewScopedKeyer(NewDefaultKeyer(), "stage:")
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

// PannerKey generates a prefixed key for Panner values.
func (k *ScopedKeyer) PannerKey(width, height float64, count int, geometry crop.Config) string {
	return k.prefix + k.inner.PannerKey(width, height, count, geometry)
}

// LayoutKey generates a prefixed key for layouts.
func (k *ScopedKeyer) LayoutKey(width, height float64, count int, geometry crop.Config) string {
	return k.prefix + k.inner.LayoutKey(width, height, count, geometry)
}
