// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks keep the overlay and the CLI free of any particular metrics backend.
// Consumers register implementations at startup; libraries call them.
//
// # Usage
//
//	func main() {
//	    observability.SetOverlayHooks(&myOverlayHooks{})
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Overlay().OnDrawPass(drawn, skipped, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Overlay Hooks
// =============================================================================

// OverlayHooks receives events from connector overlays. Draw events arrive on
// the scheduler's timer goroutine and must not block.
type OverlayHooks interface {
	// OnRefreshRequested records a refresh request (scroll, resize, input change).
	OnRefreshRequested()

	// OnDrawPass records a completed draw pass.
	OnDrawPass(drawn, skipped int, duration time.Duration)

	// OnSkip records a relation that was not drawn and why.
	OnSkip(startID, endID, reason string)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from one-shot renders (CLI and HTTP).
type RenderHooks interface {
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response status for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopOverlayHooks is a no-op implementation of OverlayHooks.
type NoopOverlayHooks struct{}

func (NoopOverlayHooks) OnRefreshRequested()                {}
func (NoopOverlayHooks) OnDrawPass(int, int, time.Duration) {}
func (NoopOverlayHooks) OnSkip(string, string, string)      {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	overlayHooks OverlayHooks = NoopOverlayHooks{}
	renderHooks  RenderHooks  = NoopRenderHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetOverlayHooks registers custom overlay hooks.
// This should be called once at application startup before any overlay is built.
func SetOverlayHooks(h OverlayHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		overlayHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Overlay returns the registered overlay hooks.
func Overlay() OverlayHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return overlayHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
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
	overlayHooks = NoopOverlayHooks{}
	renderHooks = NoopRenderHooks{}
	httpHooks = NoopHTTPHooks{}
}
