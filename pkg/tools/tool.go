package tools

import (
	"context"
	"fmt"
)

// ProgressFunc receives intermediate progress messages from a running tool.
// Tools may ignore it; callers may pass nil.
type ProgressFunc func(message string)

// Tool is a named capability exposed to an agent. Execute receives the
// caller-supplied call id (for correlating logs and hook payloads), the
// invocation params, and an optional progress callback. Cancellation is
// carried by the context.
//
// Params are deliberately unconstrained: most tools take a JSON-style
// map[string]any, but the contract admits any shape.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, callID string, params any, progress ProgressFunc) (any, error)
}

// FuncTool adapts a plain function to the Tool interface.
type FuncTool struct {
	ToolName string
	Desc     string
	Schema   map[string]any
	Run      func(ctx context.Context, callID string, params any, progress ProgressFunc) (any, error)
}

func (t *FuncTool) Name() string {
	return t.ToolName
}

func (t *FuncTool) Description() string {
	return t.Desc
}

func (t *FuncTool) Parameters() map[string]any {
	if t.Schema == nil {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}
	}
	return t.Schema
}

func (t *FuncTool) Execute(ctx context.Context, callID string, params any, progress ProgressFunc) (any, error) {
	if t.Run == nil {
		return nil, fmt.Errorf("tool %q has no execution function", t.ToolName)
	}
	return t.Run(ctx, callID, params, progress)
}
