package cache

import (
	"context"

	cerrors "github.com/matzehuels/cropsy/pkg/errors"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend    string
	MaxEntries int
	Redis      RedisOptions
}

// New creates the cache named by opts.Backend. An empty backend means memory.
func New(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case "", BackendMemory:
		return NewMemoryCache(opts.MaxEntries), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidConfig,
			"unknown cache backend %q (must be one of: none, memory, redis)", opts.Backend)
	}
}
