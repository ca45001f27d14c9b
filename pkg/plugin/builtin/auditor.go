// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

package builtin

import (
	"context"
	"fmt"

	"github.com/clawkit/clawhook/pkg/audit"
	"github.com/clawkit/clawhook/pkg/hooks"
	"github.com/clawkit/clawhook/pkg/plugin"
)

// AuditPlugin records tool call activity to the tamper-evident audit log.
// It observes both lifecycle points without ever blocking or rewriting.
type AuditPlugin struct {
	cfg audit.Config
	log *audit.Logger
}

func NewAuditPlugin(cfg audit.Config) *AuditPlugin {
	return &AuditPlugin{cfg: cfg}
}

func (p *AuditPlugin) Name() string {
	return "audit"
}

func (p *AuditPlugin) APIVersion() string {
	return plugin.APIVersion
}

func (p *AuditPlugin) Register(r *hooks.Registry) error {
	log, err := audit.NewLogger(p.cfg)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	p.log = log

	// Low priority so the attempt is recorded before policy hooks can veto.
	r.OnBeforeToolCall("audit-call-started", -100, func(_ context.Context, e *hooks.BeforeToolCallEvent) error {
		return p.log.Log(audit.Event{
			EventType: audit.EventTypeToolExecution,
			Action:    "call_started",
			Resource:  e.ToolName,
			Details: map[string]any{
				"call_id": e.CallID,
			},
			SessionKey: e.SessionKey,
			Success:    true,
		})
	})

	r.OnToolResultReceived("audit-call-completed", 100, func(_ context.Context, e *hooks.ToolResultReceivedEvent) error {
		return p.log.Log(audit.Event{
			EventType: audit.EventTypeToolExecution,
			Action:    "call_completed",
			Resource:  e.ToolName,
			Details: map[string]any{
				"call_id":     e.CallID,
				"duration_ms": e.Duration.Milliseconds(),
			},
			SessionKey: e.SessionKey,
			Success:    true,
		})
	})

	return nil
}

// Close flushes and closes the underlying audit log.
func (p *AuditPlugin) Close() error {
	if p.log == nil {
		return nil
	}
	return p.log.Close()
}
