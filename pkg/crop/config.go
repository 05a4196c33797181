package crop

import (
	cerrors "github.com/matzehuels/cropsy/pkg/errors"
)

// Default gallery geometry, tuned against Zoom's gallery view.
const (
	DefaultTopMargin    = 47.0
	DefaultBottomMargin = 60.0
	DefaultLeftMargin   = 6.0
	DefaultRightMargin  = 6.0
	DefaultSpacing      = 6.0
	DefaultAspectRatio  = 16.0 / 9.0
	DefaultInset        = 1.0
)

// Config holds the fixed geometry of a gallery frame.
type Config struct {
	TopMargin    float64 `toml:"top_margin" json:"top_margin"`
	BottomMargin float64 `toml:"bottom_margin" json:"bottom_margin"`
	LeftMargin   float64 `toml:"left_margin" json:"left_margin"`
	RightMargin  float64 `toml:"right_margin" json:"right_margin"`
	Spacing      float64 `toml:"spacing" json:"spacing"`
	AspectRatio  float64 `toml:"aspect_ratio" json:"aspect_ratio"`
	Inset        float64 `toml:"inset" json:"inset"`
}

// DefaultConfig returns the tuned gallery geometry.
func DefaultConfig() Config {
	return Config{
		TopMargin:    DefaultTopMargin,
		BottomMargin: DefaultBottomMargin,
		LeftMargin:   DefaultLeftMargin,
		RightMargin:  DefaultRightMargin,
		Spacing:      DefaultSpacing,
		AspectRatio:  DefaultAspectRatio,
		Inset:        DefaultInset,
	}
}

// Validate checks that margins and inset are non-negative and the aspect
// ratio is positive.
func (c Config) Validate() error {
	margins := []struct {
		name  string
		value float64
	}{
		{"top_margin", c.TopMargin},
		{"bottom_margin", c.BottomMargin},
		{"left_margin", c.LeftMargin},
		{"right_margin", c.RightMargin},
		{"inset", c.Inset},
	}
	for _, m := range margins {
		if m.value < 0 {
			return cerrors.New(cerrors.ErrCodeInvalidConfig, "%s must not be negative, got %v", m.name, m.value)
		}
	}
	if err := cerrors.ValidateSpacing(c.Spacing); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "spacing")
	}
	if err := cerrors.ValidateAspectRatio(c.AspectRatio); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "aspect_ratio")
	}
	return nil
}

// Option configures a [Calculator].
type Option func(*Config)

// WithConfig replaces the whole geometry.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// WithMargins sets the frame margins.
func WithMargins(top, bottom, left, right float64) Option {
	return func(c *Config) {
		c.TopMargin = top
		c.BottomMargin = bottom
		c.LeftMargin = left
		c.RightMargin = right
	}
}

// WithSpacing sets the gap between adjacent boxes.
func WithSpacing(spacing float64) Option {
	return func(c *Config) { c.Spacing = spacing }
}

// WithAspectRatio sets the box aspect ratio (width / height).
func WithAspectRatio(ratio float64) Option {
	return func(c *Config) { c.AspectRatio = ratio }
}

// WithInset sets how far every margin is pushed into the box.
func WithInset(inset float64) Option {
	return func(c *Config) { c.Inset = inset }
}
