// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

// Package intercept routes tool invocations through the before_tool_call
// and tool_result_received plugin hooks. Plugins can observe, rewrite, or
// veto a call; a tool with no hooks registered behaves exactly as if it
// were never wrapped.
package intercept

import (
	"context"
	"fmt"
	"time"

	"github.com/clawkit/clawhook/pkg/hooks"
	"github.com/clawkit/clawhook/pkg/logger"
	"github.com/clawkit/clawhook/pkg/tools"
)

const (
	defaultBeforeBlockReason = "Tool call blocked by plugin hook"
	defaultResultBlockReason = "Tool result blocked by plugin hook"
)

// HookRunner is the hook registry surface this package consumes. A failing
// runner (error return or panic) is treated as "no verdict"; the merged
// verdict of a successful run is read off the event.
// *hooks.Registry satisfies it.
type HookRunner interface {
	Has(event string) bool
	RunBeforeToolCall(ctx context.Context, event *hooks.BeforeToolCallEvent) error
	RunToolResultReceived(ctx context.Context, event *hooks.ToolResultReceivedEvent) error
}

// Context carries optional identifiers forwarded to hooks for scoping and
// telemetry. Zero fields are simply absent from hook payloads.
type Context struct {
	AgentID    string
	SessionKey string
}

// BeforeOutcome is the interpreted verdict of the before-call hook.
// Exactly one of Blocked/allowed holds: when Blocked is false, Params is
// what the tool should execute with.
type BeforeOutcome struct {
	Blocked bool
	Reason  string
	Params  any
}

// ResultOutcome is the interpreted verdict of the result hook.
type ResultOutcome struct {
	Blocked bool
	Reason  string
	Result  any
}

// WarnFunc receives warnings about absorbed hook failures. Injected so the
// interceptor stays testable in isolation.
type WarnFunc func(message string, fields map[string]any)

// Interceptor dispatches tool lifecycle hooks and merges their verdicts.
// It holds no per-call state; concurrent calls are fully independent.
type Interceptor struct {
	runner HookRunner
	warn   WarnFunc
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithWarnFunc overrides the warning sink. The default forwards to the
// global logger.
func WithWarnFunc(warn WarnFunc) Option {
	return func(in *Interceptor) {
		if warn != nil {
			in.warn = warn
		}
	}
}

// New creates an Interceptor over the given hook runner. A nil runner is
// valid and makes every hook stage a pass-through.
func New(runner HookRunner, opts ...Option) *Interceptor {
	in := &Interceptor{
		runner: runner,
		warn: func(message string, fields map[string]any) {
			logger.WarnCF("intercept", message, fields)
		},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// RunBeforeToolCallHook presents a pending tool call to the
// before_tool_call hooks and interprets the merged verdict.
//
// The hook payload only ever carries a plain mapping: non-mapping params
// are presented to handlers as an empty mapping while the caller's
// original value is preserved and returned untouched unless a handler
// offers a replacement. A replacement is shallow-merged over mapping
// params (replacement keys win) and used wholesale otherwise.
//
// Hook failures are absorbed: the call proceeds as if no handler had acted.
func (in *Interceptor) RunBeforeToolCallHook(ctx context.Context, toolName string, params any, callID string, ictx Context) BeforeOutcome {
	name := tools.NormalizeName(toolName)

	if in.runner == nil || !in.runner.Has(hooks.EventBeforeToolCall) {
		return BeforeOutcome{Params: params}
	}

	orig, origIsMapping := asMapping(params)
	payload := orig
	if !origIsMapping {
		payload = map[string]any{}
	}

	event := &hooks.BeforeToolCallEvent{
		ToolName:   name,
		Params:     payload,
		CallID:     callID,
		AgentID:    ictx.AgentID,
		SessionKey: ictx.SessionKey,
	}

	if err := in.runGuarded(func() error { return in.runner.RunBeforeToolCall(ctx, event) }); err != nil {
		in.warn("Before-call hook failed, proceeding without verdict",
			map[string]any{
				"tool":    name,
				"call_id": callID,
				"error":   err.Error(),
			})
		return BeforeOutcome{Params: params}
	}

	if event.Block {
		reason := event.BlockReason
		if reason == "" {
			reason = defaultBeforeBlockReason
		}
		return BeforeOutcome{Blocked: true, Reason: reason}
	}

	if event.Replace != nil {
		if origIsMapping {
			merged := make(map[string]any, len(orig)+len(event.Replace))
			for k, v := range orig {
				merged[k] = v
			}
			for k, v := range event.Replace {
				merged[k] = v
			}
			return BeforeOutcome{Params: merged}
		}
		// Nothing to merge over; the replacement stands alone.
		return BeforeOutcome{Params: event.Replace}
	}

	return BeforeOutcome{Params: params}
}

// RunToolResultReceivedHook presents a completed tool call to the
// tool_result_received hooks and interprets the merged verdict. Unlike
// params, results are opaque: a replacement is used verbatim (zero values
// included), never merged. Hook failures are absorbed.
func (in *Interceptor) RunToolResultReceivedHook(ctx context.Context, toolName string, params, result any, callID string, ictx Context, duration time.Duration) ResultOutcome {
	name := tools.NormalizeName(toolName)

	if in.runner == nil || !in.runner.Has(hooks.EventToolResultReceived) {
		return ResultOutcome{Result: result}
	}

	event := &hooks.ToolResultReceivedEvent{
		ToolName:   name,
		Params:     params,
		Result:     result,
		Duration:   duration,
		CallID:     callID,
		AgentID:    ictx.AgentID,
		SessionKey: ictx.SessionKey,
	}

	if err := in.runGuarded(func() error { return in.runner.RunToolResultReceived(ctx, event) }); err != nil {
		in.warn("Result hook failed, keeping original result",
			map[string]any{
				"tool":    name,
				"call_id": callID,
				"error":   err.Error(),
			})
		return ResultOutcome{Result: result}
	}

	if event.Block {
		reason := event.BlockReason
		if reason == "" {
			reason = defaultResultBlockReason
		}
		return ResultOutcome{Blocked: true, Reason: reason, Result: result}
	}

	if replacement, replaced := event.Replacement(); replaced {
		return ResultOutcome{Result: replacement}
	}

	return ResultOutcome{Result: result}
}

// runGuarded invokes the runner, converting a panic into an error so a
// broken plugin can never break tool execution, only block it through a
// well-formed verdict.
func (in *Interceptor) runGuarded(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("hook runner panic: %v", rec)
		}
	}()
	return fn()
}

// asMapping reports whether params have the one shape hooks can merge:
// a plain key-value mapping.
func asMapping(params any) (map[string]any, bool) {
	m, ok := params.(map[string]any)
	return m, ok
}
