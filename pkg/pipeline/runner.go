package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cropsy/pkg/cache"
	"github.com/matzehuels/cropsy/pkg/crop"
	"github.com/matzehuels/cropsy/pkg/observability"
	"github.com/matzehuels/cropsy/pkg/panner"
)

// streamBuffer is how many computed counts the producer may run ahead of the
// consumer in [Runner.Stream].
const streamBuffer = 8

// Runner computes layouts and Panner values with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely share one Runner.
type Runner struct {
	Cache      cache.Cache
	Keyer      cache.Keyer
	Calculator *panner.Calculator
	Logger     *log.Logger

	// TTL applies to every cached value. Zero never expires.
	TTL time.Duration

	// MaxCount bounds the box count of one request.
	MaxCount int
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If calc is nil, the default gallery geometry is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, calc *panner.Calculator, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if calc == nil {
		calc = panner.NewCalculator()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Calculator: calc,
		Logger:     logger,
		TTL:        DefaultTTL,
		MaxCount:   DefaultMaxCount,
	}
}

// Validate checks a screen size and box count against the runner's limit.
func (r *Runner) Validate(width, height float64, count int) error {
	return ValidateRequestWithLimit(width, height, count, r.MaxCount)
}

// Geometry returns the gallery geometry the runner computes with.
func (r *Runner) Geometry() crop.Config {
	return r.Calculator.Config()
}

// PannerWithCacheInfo computes Panner values for count boxes and reports
// whether they came from the cache. Errors are never cached; a degenerate
// layout returns its params together with the error.
func (r *Runner) PannerWithCacheInfo(ctx context.Context, width, height float64, count int) (panner.Params, bool, error) {
	if err := r.Validate(width, height, count); err != nil {
		return panner.Params{}, false, err
	}

	key := r.Keyer.PannerKey(width, height, count, r.Geometry())
	var params panner.Params
	if r.load(ctx, KeyTypePanner, key, &params) {
		return params, true, nil
	}

	params, err := r.Calculator.Compute(width, height, count)
	if err != nil {
		return params, false, err
	}
	r.store(ctx, KeyTypePanner, key, params)
	return params, false, nil
}

// Panner is a convenience wrapper that discards the cache hit info.
func (r *Runner) Panner(ctx context.Context, width, height float64, count int) (panner.Params, error) {
	params, _, err := r.PannerWithCacheInfo(ctx, width, height, count)
	return params, err
}

// LayoutWithCacheInfo solves the layout and crops for count boxes and
// reports whether they came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, width, height float64, count int) (crop.Result, bool, error) {
	if err := r.Validate(width, height, count); err != nil {
		return crop.Result{}, false, err
	}

	key := r.Keyer.LayoutKey(width, height, count, r.Geometry())
	var res crop.Result
	if r.load(ctx, KeyTypeLayout, key, &res) {
		return res, true, nil
	}

	res, err := crop.NewCalculator(crop.WithConfig(r.Geometry())).Compute(width, height, count)
	if err != nil {
		return crop.Result{}, false, err
	}
	r.store(ctx, KeyTypeLayout, key, res)
	return res, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, width, height float64, count int) (crop.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, width, height, count)
	return res, err
}

// Step is the outcome for one count of a [Runner.Stream].
type Step struct {
	Count  int
	Params panner.Params
	Hit    bool
	Err    error
}

// Stream computes Panner values for every count from first to last in a
// producer goroutine. Steps arrive in increasing count order; a failed count
// carries its error and the stream continues. The channel is closed after
// the last count or once ctx is cancelled.
func (r *Runner) Stream(ctx context.Context, width, height float64, first, last int) <-chan Step {
	out := make(chan Step, streamBuffer)
	go func() {
		defer close(out)
		for n := first; n <= last; n++ {
			if ctx.Err() != nil {
				return
			}
			params, hit, err := r.PannerWithCacheInfo(ctx, width, height, n)
			select {
			case out <- Step{Count: n, Params: params, Hit: hit, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Range collects a [Runner.Stream] from 1 to maxCount.
// It returns ctx.Err() if the context is cancelled before the last count.
func (r *Runner) Range(ctx context.Context, width, height float64, maxCount int) ([]Step, error) {
	if err := r.Validate(width, height, maxCount); err != nil {
		return nil, err
	}
	steps := make([]Step, 0, maxCount)
	for step := range r.Stream(ctx, width, height, 1, maxCount) {
		steps = append(steps, step)
	}
	if len(steps) < maxCount {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
	}
	return steps, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) load(ctx context.Context, keyType, key string, v any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "key", key, "error", err)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

func (r *Runner) store(ctx context.Context, keyType, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
