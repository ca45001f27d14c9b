// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

package intercept

import (
	"context"
	"time"

	"github.com/clawkit/clawhook/pkg/hooks"
	"github.com/clawkit/clawhook/pkg/tools"
)

// BlockStage identifies which hook vetoed a call.
type BlockStage string

const (
	BlockStageBefore BlockStage = hooks.EventBeforeToolCall
	BlockStageResult BlockStage = hooks.EventToolResultReceived
)

// BlockedError is returned from a wrapped tool when a hook vetoes the
// call. The error message is the hook-supplied (or default) reason, so a
// blocked call reads like any other failed tool call.
type BlockedError struct {
	Stage    BlockStage
	ToolName string
	Reason   string
}

func (e *BlockedError) Error() string {
	return e.Reason
}

// WrapTool returns a tool whose Execute routes through the plugin hooks:
// before_tool_call may rewrite params or veto the call before the
// underlying tool runs; tool_result_received may rewrite or veto the
// result afterwards. Identity (name, description, schema) is shared with
// the original, which is never mutated.
//
// A tool with no execution capability is returned unchanged; there is
// nothing to wrap.
func (in *Interceptor) WrapTool(tool tools.Tool, ictx Context) tools.Tool {
	if tool == nil {
		return nil
	}
	if ft, ok := tool.(*tools.FuncTool); ok && ft.Run == nil {
		return tool
	}
	return &wrappedTool{Tool: tool, in: in, ictx: ictx}
}

type wrappedTool struct {
	tools.Tool
	in   *Interceptor
	ictx Context
}

// Execute sequences before-hook, underlying execution, and result hook.
// The reported duration covers only the underlying Execute span; hook
// latency is excluded. An error from the underlying tool propagates
// unmodified and skips the result hook.
func (w *wrappedTool) Execute(ctx context.Context, callID string, params any, progress tools.ProgressFunc) (any, error) {
	name := w.Tool.Name()

	before := w.in.RunBeforeToolCallHook(ctx, name, params, callID, w.ictx)
	if before.Blocked {
		return nil, &BlockedError{Stage: BlockStageBefore, ToolName: name, Reason: before.Reason}
	}

	start := time.Now()
	result, err := w.Tool.Execute(ctx, callID, before.Params, progress)
	duration := time.Since(start)
	if err != nil {
		return nil, err
	}

	after := w.in.RunToolResultReceivedHook(ctx, name, before.Params, result, callID, w.ictx, duration)
	if after.Blocked {
		return nil, &BlockedError{Stage: BlockStageResult, ToolName: name, Reason: after.Reason}
	}

	return after.Result, nil
}
