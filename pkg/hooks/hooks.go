// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

package hooks

import (
	"context"
	"fmt"
	"sync"

	"github.com/clawkit/clawhook/pkg/logger"
)

// Handler is the callback signature for all hooks.
type Handler[T any] func(ctx context.Context, event *T) error

// Registration tracks a handler with its priority and name.
type Registration[T any] struct {
	Handler  Handler[T]
	Priority int // Lower = runs first
	Name     string
}

// Registry manages tool lifecycle hooks. Handlers for one event run
// sequentially by priority and contribute to a single merged verdict: a
// blocking handler stops the chain, later handlers see (and may override)
// replacements offered by earlier ones. A handler that errors or panics is
// logged and skipped; it never aborts the chain or the tool call.
type Registry struct {
	beforeToolCall     []Registration[BeforeToolCallEvent]
	toolResultReceived []Registration[ToolResultReceivedEvent]
	mu                 sync.RWMutex
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// insertSorted inserts a registration into a new slice sorted by priority.
// Always allocates a new backing array so concurrent readers of the old slice are safe.
func insertSorted[T any](slice []Registration[T], reg Registration[T]) []Registration[T] {
	i := 0
	for i < len(slice) && slice[i].Priority <= reg.Priority {
		i++
	}
	result := make([]Registration[T], len(slice)+1)
	copy(result, slice[:i])
	result[i] = reg
	copy(result[i+1:], slice[i:])
	return result
}

func (r *Registry) OnBeforeToolCall(name string, priority int, handler Handler[BeforeToolCallEvent]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeToolCall = insertSorted(r.beforeToolCall, Registration[BeforeToolCallEvent]{
		Handler: handler, Priority: priority, Name: name,
	})
}

func (r *Registry) OnToolResultReceived(name string, priority int, handler Handler[ToolResultReceivedEvent]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toolResultReceived = insertSorted(r.toolResultReceived, Registration[ToolResultReceivedEvent]{
		Handler: handler, Priority: priority, Name: name,
	})
}

// Has reports whether at least one handler is registered for the event.
func (r *Registry) Has(event string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch event {
	case EventBeforeToolCall:
		return len(r.beforeToolCall) > 0
	case EventToolResultReceived:
		return len(r.toolResultReceived) > 0
	default:
		return false
	}
}

// runChain runs handlers sequentially by priority, stopping once blockCheck
// reports the event was blocked. Handler errors and panics are absorbed.
func runChain[T any](ctx context.Context, hooks []Registration[T], event *T, hookName string, blockCheck func(*T) bool) {
	for _, h := range hooks {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorCF("hooks", "Hook panic",
						map[string]any{
							"hook":    hookName,
							"handler": h.Name,
							"panic":   fmt.Sprintf("%v", rec),
						})
				}
			}()
			if err := h.Handler(ctx, event); err != nil {
				logger.WarnCF("hooks", "Hook error",
					map[string]any{
						"hook":    hookName,
						"handler": h.Name,
						"error":   err.Error(),
					})
			}
		}()
		if blockCheck(event) {
			logger.InfoCF("hooks", "Hook blocked tool call",
				map[string]any{
					"hook":    hookName,
					"handler": h.Name,
				})
			return
		}
	}
}

// RunBeforeToolCall fires all before_tool_call handlers in priority order.
// The merged verdict is read off the event afterwards: Block/BlockReason
// when a handler vetoed the call, Replace when replacement params were
// offered.
func (r *Registry) RunBeforeToolCall(ctx context.Context, event *BeforeToolCallEvent) error {
	r.mu.RLock()
	hooks := r.beforeToolCall
	r.mu.RUnlock()
	runChain(ctx, hooks, event, EventBeforeToolCall, func(e *BeforeToolCallEvent) bool {
		return e.Block
	})
	return nil
}

// RunToolResultReceived fires all tool_result_received handlers in priority
// order. The merged verdict is read off the event afterwards.
func (r *Registry) RunToolResultReceived(ctx context.Context, event *ToolResultReceivedEvent) error {
	r.mu.RLock()
	hooks := r.toolResultReceived
	r.mu.RUnlock()
	runChain(ctx, hooks, event, EventToolResultReceived, func(e *ToolResultReceivedEvent) bool {
		return e.Block
	})
	return nil
}
