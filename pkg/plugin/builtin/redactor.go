// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

package builtin

import (
	"context"

	"github.com/clawkit/clawhook/pkg/hooks"
	"github.com/clawkit/clawhook/pkg/plugin"
	"github.com/clawkit/clawhook/pkg/redaction"
)

// RedactorPlugin scrubs secrets from string tool params and string tool
// results by offering replacements at both lifecycle points.
type RedactorPlugin struct {
	redactor *redaction.Redactor
}

func NewRedactorPlugin(cfg redaction.Config) *RedactorPlugin {
	return &RedactorPlugin{redactor: redaction.NewRedactor(cfg)}
}

func (p *RedactorPlugin) Name() string {
	return "redactor"
}

func (p *RedactorPlugin) APIVersion() string {
	return plugin.APIVersion
}

func (p *RedactorPlugin) Register(r *hooks.Registry) error {
	r.OnBeforeToolCall("redact-params", 50, func(_ context.Context, e *hooks.BeforeToolCallEvent) error {
		for k, v := range e.Params {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if clean := p.redactor.Redact(s); clean != s {
				if e.Replace == nil {
					e.Replace = make(map[string]any)
				}
				e.Replace[k] = clean
			}
		}
		return nil
	})

	r.OnToolResultReceived("redact-result", 50, func(_ context.Context, e *hooks.ToolResultReceivedEvent) error {
		// An earlier handler may already have swapped the result.
		val := e.Result
		if rep, replaced := e.Replacement(); replaced {
			val = rep
		}
		s, ok := val.(string)
		if !ok {
			return nil
		}
		if clean := p.redactor.Redact(s); clean != s {
			e.ReplaceResult(clean)
		}
		return nil
	})

	return nil
}
