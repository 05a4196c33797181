package cache

import (
	"fmt"

	"github.com/matzehuels/cropsy/pkg/crop"
)

// Keyer builds cache keys for computed values.
type Keyer interface {
	// PannerKey identifies Panner values for one box count.
	PannerKey(width, height float64, count int, geometry crop.Config) string

	// LayoutKey identifies a solved layout with its crops.
	LayoutKey(width, height float64, count int, geometry crop.Config) string
}

// DefaultKeyer produces readable keys with a hash of the geometry:
//
//	panner:1920x1080:003:<sha256>
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PannerKey implements Keyer.
func (DefaultKeyer) PannerKey(width, height float64, count int, geometry crop.Config) string {
	return hashKey(fmt.Sprintf("panner:%vx%v:%03d", width, height, count), geometry)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(width, height float64, count int, geometry crop.Config) string {
	return hashKey(fmt.Sprintf("layout:%vx%v:%03d", width, height, count), geometry)
}
