package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clawkit/clawhook/pkg/logger"
)

// Registry holds the tools available to an agent, keyed by name.
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool, replacing any previous tool with the same name.
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Apply replaces every registered tool with wrap(tool). A nil return from
// wrap keeps the original registration. Used to install interception
// wrappers over a populated registry.
func (r *Registry) Apply(wrap func(Tool) Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, tool := range r.tools {
		if wrapped := wrap(tool); wrapped != nil {
			r.tools[name] = wrapped
		}
	}
}

// Execute runs a registered tool by name with structured logging and wall
// clock timing. An empty callID is replaced with a generated id so logs and
// hook payloads stay correlatable.
func (r *Registry) Execute(ctx context.Context, callID, name string, params any, progress ProgressFunc) (any, error) {
	if callID == "" {
		callID = uuid.NewString()
	}

	tool, ok := r.Get(name)
	if !ok {
		logger.ErrorCF("tool", "Tool not found",
			map[string]any{
				"tool":    name,
				"call_id": callID,
			})
		return nil, fmt.Errorf("tool %q not found", name)
	}

	logger.InfoCF("tool", "Tool execution started",
		map[string]any{
			"tool":    name,
			"call_id": callID,
		})

	start := time.Now()
	result, err := tool.Execute(ctx, callID, params, progress)
	duration := time.Since(start)

	if err != nil {
		logger.ErrorCF("tool", "Tool execution failed",
			map[string]any{
				"tool":        name,
				"call_id":     callID,
				"duration_ms": duration.Milliseconds(),
				"error":       err.Error(),
			})
		return nil, err
	}

	logger.InfoCF("tool", "Tool execution completed",
		map[string]any{
			"tool":        name,
			"call_id":     callID,
			"duration_ms": duration.Milliseconds(),
		})

	return result, nil
}

// sortedToolNames returns tool names in sorted order for deterministic
// iteration. Callers must hold at least the read lock.
func (r *Registry) sortedToolNames() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all registered tool names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedToolNames()
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Summaries returns human-readable "name - description" lines for all
// registered tools.
func (r *Registry) Summaries() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := r.sortedToolNames()
	summaries := make([]string, 0, len(sorted))
	for _, name := range sorted {
		tool := r.tools[name]
		summaries = append(summaries, fmt.Sprintf("- `%s` - %s", tool.Name(), tool.Description()))
	}
	return summaries
}
