// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

package builtin

import (
	"context"
	"strings"
	"testing"

	"github.com/clawkit/clawhook/pkg/hooks"
)

func runBefore(t *testing.T, p *PolicyPlugin, event *hooks.BeforeToolCallEvent) {
	t.Helper()
	r := hooks.NewRegistry()
	if err := p.Register(r); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_ = r.RunBeforeToolCall(context.Background(), event)
}

func TestPolicyBlocksDisabledTool(t *testing.T) {
	p := NewPolicyPlugin(PolicyConfig{DisabledTools: []string{"Shell"}})

	event := &hooks.BeforeToolCallEvent{ToolName: "shell"}
	runBefore(t, p, event)

	if !event.Block {
		t.Fatal("Expected disabled tool to be blocked")
	}
	if !strings.Contains(event.BlockReason, "disabled by policy") {
		t.Errorf("Unexpected reason: %q", event.BlockReason)
	}
	if got := p.Snapshot(); got.BlockedToolCalls != 1 {
		t.Errorf("Expected 1 blocked call in stats, got %d", got.BlockedToolCalls)
	}
}

func TestPolicyAllowsOtherTools(t *testing.T) {
	p := NewPolicyPlugin(PolicyConfig{DisabledTools: []string{"shell"}})

	event := &hooks.BeforeToolCallEvent{ToolName: "search"}
	runBefore(t, p, event)

	if event.Block {
		t.Fatalf("Expected search to pass, blocked with %q", event.BlockReason)
	}
}

func TestPolicyBlocksOversizedParams(t *testing.T) {
	p := NewPolicyPlugin(PolicyConfig{MaxParamBytes: 10})

	event := &hooks.BeforeToolCallEvent{
		ToolName: "search",
		Params:   map[string]any{"query": strings.Repeat("x", 100)},
	}
	runBefore(t, p, event)

	if !event.Block {
		t.Fatal("Expected oversized params to be blocked")
	}
	if !strings.Contains(event.BlockReason, "input too large") {
		t.Errorf("Unexpected reason: %q", event.BlockReason)
	}
}

func TestPolicyRateLimits(t *testing.T) {
	p := NewPolicyPlugin(PolicyConfig{MaxCallsPerMin: 2})
	r := hooks.NewRegistry()
	if err := p.Register(r); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	var blockedAt int
	for i := 1; i <= 3; i++ {
		event := &hooks.BeforeToolCallEvent{ToolName: "search"}
		_ = r.RunBeforeToolCall(context.Background(), event)
		if event.Block {
			blockedAt = i
			break
		}
	}

	if blockedAt != 3 {
		t.Errorf("Expected third call to be rate limited, blocked at %d", blockedAt)
	}
}

func TestPolicyRateLimitIsPerTool(t *testing.T) {
	p := NewPolicyPlugin(PolicyConfig{MaxCallsPerMin: 1})
	r := hooks.NewRegistry()
	if err := p.Register(r); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	first := &hooks.BeforeToolCallEvent{ToolName: "search"}
	_ = r.RunBeforeToolCall(context.Background(), first)
	other := &hooks.BeforeToolCallEvent{ToolName: "echo"}
	_ = r.RunBeforeToolCall(context.Background(), other)

	if first.Block {
		t.Error("Expected first search call to pass")
	}
	if other.Block {
		t.Error("Expected call to a different tool to have its own budget")
	}
}

func TestPolicyClampsTimeout(t *testing.T) {
	p := NewPolicyPlugin(PolicyConfig{MaxTimeoutSeconds: 30})

	event := &hooks.BeforeToolCallEvent{
		ToolName: "shell",
		Params:   map[string]any{"cmd": "ls", "timeout": float64(600)},
	}
	runBefore(t, p, event)

	if event.Block {
		t.Fatalf("Expected clamp, not block: %q", event.BlockReason)
	}
	if event.Replace == nil || event.Replace["timeout"] != 30 {
		t.Errorf("Expected timeout clamped to 30, got %v", event.Replace)
	}
	if _, touched := event.Replace["cmd"]; touched {
		t.Error("Expected only the timeout key in the replacement")
	}
}

func TestPolicyLeavesSmallTimeoutAlone(t *testing.T) {
	p := NewPolicyPlugin(PolicyConfig{MaxTimeoutSeconds: 30})

	event := &hooks.BeforeToolCallEvent{
		ToolName: "shell",
		Params:   map[string]any{"timeout": 10},
	}
	runBefore(t, p, event)

	if event.Replace != nil {
		t.Errorf("Expected no replacement for in-range timeout, got %v", event.Replace)
	}
}

func TestPolicyZeroConfigIsPermissive(t *testing.T) {
	p := NewPolicyPlugin(PolicyConfig{})

	event := &hooks.BeforeToolCallEvent{
		ToolName: "anything",
		Params:   map[string]any{"data": strings.Repeat("x", 10000)},
	}
	runBefore(t, p, event)

	if event.Block {
		t.Errorf("Expected zero config to allow everything, blocked with %q", event.BlockReason)
	}
}
