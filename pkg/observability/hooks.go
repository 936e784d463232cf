// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about solver runs, vault traffic, and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the solver and vault
// stay free of any particular metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSolverHooks(metrics.NewSolverHooks(reg))
//	    observability.SetVaultHooks(metrics.NewVaultHooks(reg))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Solver().OnBuildStart(ctx, string(root.Digest()))
//	// ... expand and propagate ...
//	observability.Solver().OnBuildComplete(ctx, nodes, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from graph construction and propagation.
type SolverHooks interface {
	// Build events
	OnBuildStart(ctx context.Context, root string)
	OnBuildComplete(ctx context.Context, nodes int, duration time.Duration, err error)

	// Expansion events
	OnExpandComplete(ctx context.Context, nodes, leaves int, duration time.Duration)
	OnTransposition(ctx context.Context)

	// Propagation events, once per level
	OnLevelComplete(ctx context.Context, level, size int, duration time.Duration)
}

// =============================================================================
// Vault Hooks
// =============================================================================

// VaultHooks receives events from vault operations.
type VaultHooks interface {
	// OnLoad records a lookup; hit is false when the digest was absent.
	OnLoad(ctx context.Context, hit bool)

	// OnSave records an entry write.
	OnSave(ctx context.Context, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records a served request. Route is the matched pattern, not
	// the raw path.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnBuildStart(context.Context, string)                       {}
func (NoopSolverHooks) OnBuildComplete(context.Context, int, time.Duration, error) {}
func (NoopSolverHooks) OnExpandComplete(context.Context, int, int, time.Duration)  {}
func (NoopSolverHooks) OnTransposition(context.Context)                            {}
func (NoopSolverHooks) OnLevelComplete(context.Context, int, int, time.Duration)   {}

// NoopVaultHooks is a no-op implementation of VaultHooks.
type NoopVaultHooks struct{}

func (NoopVaultHooks) OnLoad(context.Context, bool) {}
func (NoopVaultHooks) OnSave(context.Context, int)  {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solverHooks SolverHooks = NoopSolverHooks{}
	vaultHooks  VaultHooks  = NoopVaultHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetSolverHooks registers custom solver hooks.
// This should be called once at application startup before any build.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// SetVaultHooks registers custom vault hooks.
// This should be called once at application startup before any vault operations.
func SetVaultHooks(h VaultHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		vaultHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Vault returns the registered vault hooks.
func Vault() VaultHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return vaultHooks
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
	solverHooks = NoopSolverHooks{}
	vaultHooks = NoopVaultHooks{}
	httpHooks = NoopHTTPHooks{}
}
