// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about pipeline execution and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This avoids import cycles (hooks are registered by main, not by
// libraries) and keeps the core library free of observability
// framework dependencies.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTakeoffHooks(&myTakeoffHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Takeoff().OnExtractStart(ctx, model, elementCount)
//	// ... run extraction ...
//	observability.Takeoff().OnExtractComplete(ctx, model, recordCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Takeoff Hooks
// =============================================================================

// TakeoffHooks receives events from the takeoff pipeline.
type TakeoffHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source, model string)
	OnLoadComplete(ctx context.Context, source, model string, duration time.Duration, err error)

	// Extract events
	OnExtractStart(ctx context.Context, model string, elementCount int)
	OnExtractComplete(ctx context.Context, model string, recordCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
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
// No-op Implementations
// =============================================================================

// NoopTakeoffHooks is a no-op implementation of TakeoffHooks.
type NoopTakeoffHooks struct{}

func (NoopTakeoffHooks) OnLoadStart(context.Context, string, string) {}
func (NoopTakeoffHooks) OnLoadComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopTakeoffHooks) OnExtractStart(context.Context, string, int) {}
func (NoopTakeoffHooks) OnExtractComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopTakeoffHooks) OnRenderStart(context.Context, []string) {}
func (NoopTakeoffHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Registry
// =============================================================================

var (
	mu           sync.RWMutex
	takeoffHooks TakeoffHooks = NoopTakeoffHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
)

// SetTakeoffHooks registers takeoff pipeline hooks. Passing nil
// restores the no-op implementation.
func SetTakeoffHooks(h TakeoffHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopTakeoffHooks{}
	}
	takeoffHooks = h
}

// Takeoff returns the registered takeoff hooks.
func Takeoff() TakeoffHooks {
	mu.RLock()
	defer mu.RUnlock()
	return takeoffHooks
}

// SetCacheHooks registers cache hooks. Passing nil restores the no-op
// implementation.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCacheHooks{}
	}
	cacheHooks = h
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op implementations. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	takeoffHooks = NoopTakeoffHooks{}
	cacheHooks = NoopCacheHooks{}
}
