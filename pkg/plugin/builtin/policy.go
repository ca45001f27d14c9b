// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

package builtin

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/clawkit/clawhook/pkg/hooks"
	"github.com/clawkit/clawhook/pkg/plugin"
)

// PolicyConfig controls the policy plugin behavior. Zero values disable the
// corresponding check.
type PolicyConfig struct {
	DisabledTools     []string // Tools that are never allowed to execute
	MaxParamBytes     int      // Max total size of string/scalar params
	MaxCallsPerMin    int      // Per-tool rate limit
	MaxTimeoutSeconds int      // Clamp for "timeout"/"timeout_seconds" params
}

// PolicyStats provides basic evidence that hook paths were executed.
type PolicyStats struct {
	BeforeToolCalls  int
	BlockedToolCalls int
	ClampedParams    int
}

// PolicyPlugin enforces runtime policy at the before-call lifecycle point:
// tool denylist, param size limits, rate limiting, and timeout clamping.
type PolicyPlugin struct {
	disabled   map[string]struct{}
	maxBytes   int
	maxPerMin  int
	maxTimeout int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	stats    PolicyStats
}

func NewPolicyPlugin(cfg PolicyConfig) *PolicyPlugin {
	disabled := make(map[string]struct{}, len(cfg.DisabledTools))
	for _, t := range cfg.DisabledTools {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		disabled[t] = struct{}{}
	}

	maxTimeout := cfg.MaxTimeoutSeconds
	if maxTimeout < 0 {
		maxTimeout = 0
	}

	return &PolicyPlugin{
		disabled:   disabled,
		maxBytes:   cfg.MaxParamBytes,
		maxPerMin:  cfg.MaxCallsPerMin,
		maxTimeout: maxTimeout,
		limiters:   make(map[string]*rate.Limiter),
	}
}

func (p *PolicyPlugin) Name() string {
	return "policy"
}

func (p *PolicyPlugin) APIVersion() string {
	return plugin.APIVersion
}

// Snapshot returns a copy of the accumulated stats.
func (p *PolicyPlugin) Snapshot() PolicyStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *PolicyPlugin) Register(r *hooks.Registry) error {
	r.OnBeforeToolCall("policy-tool-gate", 100, func(_ context.Context, e *hooks.BeforeToolCallEvent) error {
		p.mu.Lock()
		p.stats.BeforeToolCalls++
		p.mu.Unlock()

		tool := strings.ToLower(e.ToolName)

		if _, blocked := p.disabled[tool]; blocked {
			e.Block = true
			e.BlockReason = fmt.Sprintf("tool %q is disabled by policy", e.ToolName)
			p.countBlocked()
			return nil
		}

		if p.maxBytes > 0 {
			if size := estimateParamSize(e.Params); size > p.maxBytes {
				e.Block = true
				e.BlockReason = fmt.Sprintf("tool %q input too large (%d bytes, max %d)", e.ToolName, size, p.maxBytes)
				p.countBlocked()
				return nil
			}
		}

		if p.maxPerMin > 0 && !p.limiter(tool).Allow() {
			e.Block = true
			e.BlockReason = fmt.Sprintf("tool %q rate limited (max %d/min)", e.ToolName, p.maxPerMin)
			p.countBlocked()
			return nil
		}

		if p.maxTimeout > 0 {
			p.clampTimeout(e, "timeout")
			p.clampTimeout(e, "timeout_seconds")
		}
		return nil
	})

	return nil
}

func (p *PolicyPlugin) countBlocked() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.BlockedToolCalls++
}

func (p *PolicyPlugin) limiter(tool string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[tool]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(p.maxPerMin)), p.maxPerMin)
		p.limiters[tool] = l
	}
	return l
}

// clampTimeout offers a replacement value when the named param exceeds the
// configured maximum. Replacements merge over the original params, so only
// the clamped key is touched.
func (p *PolicyPlugin) clampTimeout(e *hooks.BeforeToolCallEvent, key string) {
	v, ok := e.Params[key]
	if !ok {
		return
	}
	n, ok := toInt(v)
	if !ok || n <= p.maxTimeout {
		return
	}
	if e.Replace == nil {
		e.Replace = make(map[string]any)
	}
	e.Replace[key] = p.maxTimeout

	p.mu.Lock()
	p.stats.ClampedParams++
	p.mu.Unlock()
}

// estimateParamSize calculates the approximate size of tool params in bytes.
func estimateParamSize(params map[string]any) int {
	total := 0
	for _, v := range params {
		switch val := v.(type) {
		case string:
			total += len(val)
		case float64:
			total += 8
		case bool:
			total += 1
		default:
			total += 64 // estimate for complex types
		}
	}
	return total
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
