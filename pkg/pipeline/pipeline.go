// Package pipeline computes gallery values with caching.
//
// The relay, the HTTP API and the CLI all ask the same questions: what is the
// layout for n boxes on this screen, and what Panner values does it produce?
// A [Runner] answers them through a shared cache so that repeated requests
// (the relay recomputes every count up to the maximum on each message) do not
// redo the solver work.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, panner.NewCalculator(), logger)
//	params, err := runner.Panner(ctx, 1920, 1080, 4)
//
// Stream computes a range of counts in a producer goroutine while the caller
// consumes results in order:
//
//	for step := range runner.Stream(ctx, 1920, 1080, 1, 9) {
//	    if step.Err != nil {
//	        continue
//	    }
//	    send(step.Count, step.Params)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	cerrors "github.com/matzehuels/cropsy/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Relay
// =============================================================================

const (
	// DefaultWidth is the default screen width in pixels.
	DefaultWidth = 1920.0

	// DefaultHeight is the default screen height in pixels.
	DefaultHeight = 1080.0

	// DefaultCount is the default number of boxes.
	DefaultCount = 1

	// DefaultMaxCount bounds the box count of one request. The outbound
	// message for a count n carries 2+2n float32 arguments and must fit one
	// UDP datagram.
	DefaultMaxCount = 4096

	// DefaultTTL is how long computed values stay cached.
	DefaultTTL = 24 * time.Hour
)

// Cache key types reported to observability hooks.
const (
	KeyTypePanner = "panner"
	KeyTypeLayout = "layout"
)

// =============================================================================
// Options - Request Configuration
// =============================================================================

// Options describes one gallery request.
// This struct supports JSON serialization for API requests.
type Options struct {
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Count   int     `json:"count,omitempty"`
	Refresh bool    `json:"refresh,omitempty"`

	// MaxCount overrides DefaultMaxCount when positive.
	MaxCount int `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults fills in the default screen size and checks the
// request. A zero count is valid and yields empty results.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := ValidateRequestWithLimit(o.Width, o.Height, o.Count, o.MaxCount); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateRequest checks a screen size and box count against
// DefaultMaxCount.
func ValidateRequest(width, height float64, count int) error {
	return ValidateRequestWithLimit(width, height, count, DefaultMaxCount)
}

// ValidateRequestWithLimit checks a screen size and a box count of at most
// limit. A limit of zero or less means DefaultMaxCount.
func ValidateRequestWithLimit(width, height float64, count, limit int) error {
	if limit <= 0 {
		limit = DefaultMaxCount
	}
	if err := cerrors.ValidateFrame(width, height); err != nil {
		return err
	}
	if err := cerrors.ValidateCount(count, 0); err != nil {
		return err
	}
	if count > limit {
		return cerrors.New(cerrors.ErrCodeInvalidDimension,
			"box count %d exceeds the maximum of %d", count, limit)
	}
	return nil
}
