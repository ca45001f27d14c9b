package tools

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

func newEchoTool(name string) *FuncTool {
	return &FuncTool{
		ToolName: name,
		Desc:     "echoes params",
		Run: func(_ context.Context, _ string, params any, _ ProgressFunc) (any, error) {
			return params, nil
		},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(newEchoTool("echo"))

	tool, ok := r.Get("echo")
	if !ok {
		t.Fatal("Expected tool to be registered")
	}
	if tool.Name() != "echo" {
		t.Errorf("Expected name 'echo', got %q", tool.Name())
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("Expected missing tool lookup to fail")
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(&FuncTool{ToolName: "echo", Desc: "first"})
	r.Register(&FuncTool{ToolName: "echo", Desc: "second"})

	if r.Count() != 1 {
		t.Fatalf("Expected 1 tool, got %d", r.Count())
	}
	tool, _ := r.Get("echo")
	if tool.Description() != "second" {
		t.Errorf("Expected later registration to win, got %q", tool.Description())
	}
}

func TestRegistryExecute(t *testing.T) {
	r := NewRegistry()
	r.Register(newEchoTool("echo"))

	params := map[string]any{"msg": "hi"}
	result, err := r.Execute(context.Background(), "call-1", "echo", params, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !reflect.DeepEqual(result, params) {
		t.Errorf("Expected echoed params, got %v", result)
	}
}

func TestRegistryExecuteGeneratesCallID(t *testing.T) {
	r := NewRegistry()
	var seenCallID string
	r.Register(&FuncTool{
		ToolName: "probe",
		Run: func(_ context.Context, callID string, _ any, _ ProgressFunc) (any, error) {
			seenCallID = callID
			return nil, nil
		},
	})

	if _, err := r.Execute(context.Background(), "", "probe", nil, nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if seenCallID == "" {
		t.Error("Expected a generated call id for empty callID")
	}
}

func TestRegistryExecuteNotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.Execute(context.Background(), "call-1", "missing", nil, nil)
	if err == nil {
		t.Fatal("Expected error for unknown tool")
	}
}

func TestRegistryExecutePropagatesError(t *testing.T) {
	r := NewRegistry()
	wantErr := errors.New("tool broke")
	r.Register(&FuncTool{
		ToolName: "flaky",
		Run: func(_ context.Context, _ string, _ any, _ ProgressFunc) (any, error) {
			return nil, wantErr
		},
	})

	_, err := r.Execute(context.Background(), "call-1", "flaky", nil, nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected tool error to propagate, got %v", err)
	}
}

func TestRegistryApply(t *testing.T) {
	r := NewRegistry()
	r.Register(newEchoTool("one"))
	r.Register(newEchoTool("two"))

	var wrappedNames []string
	r.Apply(func(tool Tool) Tool {
		wrappedNames = append(wrappedNames, tool.Name())
		if tool.Name() == "one" {
			return nil // keep original
		}
		return &FuncTool{ToolName: tool.Name(), Desc: "wrapped"}
	})

	if len(wrappedNames) != 2 {
		t.Fatalf("Expected wrap to visit 2 tools, got %d", len(wrappedNames))
	}

	one, _ := r.Get("one")
	if one.Description() != "echoes params" {
		t.Error("Expected nil wrap result to keep the original tool")
	}
	two, _ := r.Get("two")
	if two.Description() != "wrapped" {
		t.Error("Expected non-nil wrap result to replace the tool")
	}
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.Register(newEchoTool(name))
	}

	want := []string{"alpha", "mid", "zeta"}
	if got := r.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected sorted names %v, got %v", want, got)
	}
}

func TestRegistrySummaries(t *testing.T) {
	r := NewRegistry()
	r.Register(newEchoTool("echo"))

	summaries := r.Summaries()
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summaries))
	}
	if summaries[0] != "- `echo` - echoes params" {
		t.Errorf("Unexpected summary: %q", summaries[0])
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Register(newEchoTool("tool-" + string(rune('a'+i))))
		}()
	}
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.List()
			r.Count()
		}()
	}

	wg.Wait()
	if r.Count() != 10 {
		t.Errorf("Expected 10 tools, got %d", r.Count())
	}
}
