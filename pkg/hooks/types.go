// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

package hooks

import "time"

// Event names for registration lookups and Has checks.
const (
	EventBeforeToolCall     = "before_tool_call"
	EventToolResultReceived = "tool_result_received"
)

// BeforeToolCallEvent is fired before a tool is executed. Handlers may set
// Block to veto the call, or set Replace to offer replacement params. A
// replacement is shallow-merged over the original params by the
// interception layer; handlers that only want to adjust a single key can
// set Replace to a one-key map.
//
// Params is the payload as presented to the hook: always a plain mapping,
// empty when the caller's params had some other shape.
type BeforeToolCallEvent struct {
	ToolName   string
	Params     map[string]any
	CallID     string
	AgentID    string
	SessionKey string

	Block       bool
	BlockReason string // Message surfaced to the caller when blocked
	Replace     map[string]any
}

// ToolResultReceivedEvent is fired after a tool completes execution.
// Handlers may set Block to discard the result, or call ReplaceResult to
// substitute a new one. Replacement results are used verbatim, including
// zero values; only "never replaced" keeps the original.
//
// Params carries the caller's original value as-is, whatever its shape.
type ToolResultReceivedEvent struct {
	ToolName   string
	Params     any
	Result     any
	Duration   time.Duration
	CallID     string
	AgentID    string
	SessionKey string

	Block       bool
	BlockReason string

	replacement any
	replaced    bool
}

// ReplaceResult substitutes the tool result delivered to the caller.
func (e *ToolResultReceivedEvent) ReplaceResult(v any) {
	e.replacement = v
	e.replaced = true
}

// Replacement returns the substituted result and whether one was offered.
func (e *ToolResultReceivedEvent) Replacement() (any, bool) {
	return e.replacement, e.replaced
}
