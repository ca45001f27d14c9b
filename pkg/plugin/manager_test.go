// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/clawkit/clawhook/pkg/hooks"
	"github.com/clawkit/clawhook/pkg/intercept"
	"github.com/clawkit/clawhook/pkg/tools"
)

type testPlugin struct {
	name       string
	apiVersion string
	registerFn func(*hooks.Registry) error
}

func (p testPlugin) Name() string {
	return p.name
}

func (p testPlugin) APIVersion() string {
	if p.apiVersion != "" {
		return p.apiVersion
	}
	return APIVersion
}

func (p testPlugin) Register(r *hooks.Registry) error {
	if p.registerFn != nil {
		return p.registerFn(r)
	}
	return nil
}

func TestNewManager(t *testing.T) {
	m := NewManager()
	if m == nil {
		t.Fatal("expected manager")
	}
	if m.HookRegistry() == nil {
		t.Fatal("expected non-nil hook registry")
	}
	if len(m.Names()) != 0 {
		t.Fatalf("expected empty names, got %v", m.Names())
	}
}

func TestRegisterPluginAndRunHook(t *testing.T) {
	m := NewManager()
	called := false
	p := testPlugin{
		name: "audit",
		registerFn: func(r *hooks.Registry) error {
			r.OnBeforeToolCall("audit-before", 0, func(_ context.Context, _ *hooks.BeforeToolCallEvent) error {
				called = true
				return nil
			})
			return nil
		},
	}

	if err := m.Register(p); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if got := m.Names(); len(got) != 1 || got[0] != "audit" {
		t.Fatalf("unexpected names: %v", got)
	}

	_ = m.HookRegistry().RunBeforeToolCall(context.Background(), &hooks.BeforeToolCallEvent{
		ToolName: "search",
	})
	if !called {
		t.Fatal("expected plugin hook to be called")
	}
}

func TestRegisterRejectsNilPlugin(t *testing.T) {
	m := NewManager()
	if err := m.Register(nil); err == nil {
		t.Fatal("expected error for nil plugin")
	}
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	m := NewManager()
	if err := m.Register(testPlugin{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestRegisterRejectsAPIVersionMismatch(t *testing.T) {
	m := NewManager()
	if err := m.Register(testPlugin{name: "old", apiVersion: "v0"}); err == nil {
		t.Fatal("expected error for api version mismatch")
	}
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	m := NewManager()
	p := testPlugin{name: "dup"}
	if err := m.Register(p); err != nil {
		t.Fatalf("unexpected first register error: %v", err)
	}
	if err := m.Register(p); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestRegisterPropagatesPluginError(t *testing.T) {
	m := NewManager()
	want := errors.New("register failed")
	p := testPlugin{
		name: "bad",
		registerFn: func(_ *hooks.Registry) error {
			return want
		},
	}

	err := m.Register(p)
	if !errors.Is(err, want) {
		t.Fatalf("expected wrapped register error, got %v", err)
	}
	if len(m.Names()) != 0 {
		t.Fatalf("expected failed plugin not to be recorded, got %v", m.Names())
	}
}

func TestRegisterAllStopsOnFirstError(t *testing.T) {
	m := NewManager()
	err := m.RegisterAll(
		testPlugin{name: "first"},
		testPlugin{name: "first"}, // duplicate
		testPlugin{name: "third"},
	)
	if err == nil {
		t.Fatal("expected error from duplicate")
	}
	if got := m.Names(); len(got) != 1 || got[0] != "first" {
		t.Fatalf("expected only first plugin registered, got %v", got)
	}
}

func TestWrapToolsRoutesThroughPluginHooks(t *testing.T) {
	m := NewManager()
	p := testPlugin{
		name: "policy",
		registerFn: func(r *hooks.Registry) error {
			r.OnBeforeToolCall("deny-shell", 0, func(_ context.Context, e *hooks.BeforeToolCallEvent) error {
				if e.ToolName == "shell" {
					e.Block = true
					e.BlockReason = "shell disabled"
				}
				return nil
			})
			return nil
		},
	}
	if err := m.Register(p); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	reg := tools.NewRegistry()
	reg.Register(&tools.FuncTool{
		ToolName: "shell",
		Run: func(_ context.Context, _ string, _ any, _ tools.ProgressFunc) (any, error) {
			return "ran", nil
		},
	})
	reg.Register(&tools.FuncTool{
		ToolName: "echo",
		Run: func(_ context.Context, _ string, params any, _ tools.ProgressFunc) (any, error) {
			return params, nil
		},
	})

	m.WrapTools(reg, intercept.Context{AgentID: "a1"})

	_, err := reg.Execute(context.Background(), "call-1", "shell", map[string]any{}, nil)
	var blocked *intercept.BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected BlockedError from wrapped shell tool, got %v", err)
	}

	result, err := reg.Execute(context.Background(), "call-2", "echo", map[string]any{"msg": "hi"}, nil)
	if err != nil {
		t.Fatalf("echo Execute() error = %v", err)
	}
	if res, ok := result.(map[string]any); !ok || res["msg"] != "hi" {
		t.Fatalf("expected echo result, got %v", result)
	}
}
