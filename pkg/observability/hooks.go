// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about relay fan-outs, cache operations, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import cycles
// and keeps the core packages free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRelayHooks(&myRelayHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Relay().OnBatchStart(ctx, batchID, maxCount)
//	// ... send messages ...
//	observability.Relay().OnBatchComplete(ctx, batchID, sent, failed, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Relay Hooks
// =============================================================================

// RelayHooks receives events from the OSC relay.
type RelayHooks interface {
	// Inbound control messages
	OnRequest(ctx context.Context, address string, argCount int)
	OnRejected(ctx context.Context, address string, err error)

	// Fan-out batches
	OnBatchStart(ctx context.Context, batchID string, maxCount int)
	OnBatchComplete(ctx context.Context, batchID string, sent, failed int, duration time.Duration)

	// Individual outbound messages
	OnSend(ctx context.Context, address string, argCount int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRelayHooks is a no-op implementation of RelayHooks.
type NoopRelayHooks struct{}

func (NoopRelayHooks) OnRequest(context.Context, string, int)                           {}
func (NoopRelayHooks) OnRejected(context.Context, string, error)                        {}
func (NoopRelayHooks) OnBatchStart(context.Context, string, int)                        {}
func (NoopRelayHooks) OnBatchComplete(context.Context, string, int, int, time.Duration) {}
func (NoopRelayHooks) OnSend(context.Context, string, int, time.Duration, error)        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	relayHooks RelayHooks = NoopRelayHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetRelayHooks registers custom relay hooks.
// This should be called once at application startup before the relay starts.
func SetRelayHooks(h RelayHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		relayHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the API server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Relay returns the registered relay hooks.
func Relay() RelayHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return relayHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	relayHooks = NoopRelayHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
