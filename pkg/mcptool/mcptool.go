// Package mcptool adapts tools exposed by MCP servers to the local tool
// interface so they can be registered, wrapped, and intercepted like any
// native tool.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clawkit/clawhook/pkg/tools"
)

// Manager defines the MCP manager operations the adapter needs.
// This allows for easier testing with mock implementations.
type Manager interface {
	CallTool(
		ctx context.Context,
		serverName, toolName string,
		arguments map[string]any,
	) (*mcp.CallToolResult, error)
}

// Tool wraps an MCP tool to implement the tools.Tool interface.
type Tool struct {
	manager    Manager
	serverName string
	tool       *mcp.Tool
}

func New(manager Manager, serverName string, tool *mcp.Tool) *Tool {
	return &Tool{
		manager:    manager,
		serverName: serverName,
		tool:       tool,
	}
}

// Name returns the tool name, prefixed with the server name.
// The total length is capped at 64 characters. A short hash of the original
// (unsanitized) server and tool names is appended whenever sanitization is
// lossy or the name is truncated, so two names that differ only in
// disallowed characters remain distinct.
func (t *Tool) Name() string {
	sanitizedServer := tools.NormalizeName(t.serverName)
	sanitizedTool := tools.NormalizeName(t.tool.Name)
	full := fmt.Sprintf("mcp_%s_%s", sanitizedServer, sanitizedTool)

	lossless := strings.ToLower(strings.TrimSpace(t.serverName)) == sanitizedServer &&
		strings.ToLower(strings.TrimSpace(t.tool.Name)) == sanitizedTool

	const maxTotal = 64
	if lossless && len(full) <= maxTotal {
		return full
	}

	// Hash the ORIGINAL names, not the sanitized ones, so different
	// originals always yield different hashes.
	h := fnv.New32a()
	_, _ = h.Write([]byte(t.serverName + "\x00" + t.tool.Name))
	suffix := fmt.Sprintf("%08x", h.Sum32())

	base := full
	if len(base) > maxTotal-9 {
		base = strings.TrimRight(full[:maxTotal-9], "_")
	}
	return base + "_" + suffix
}

// Description returns the tool description prefixed with the server name.
func (t *Tool) Description() string {
	desc := t.tool.Description
	if desc == "" {
		desc = fmt.Sprintf("MCP tool from %s server", t.serverName)
	}
	return fmt.Sprintf("[MCP:%s] %s", t.serverName, desc)
}

// Parameters returns the tool parameters schema.
func (t *Tool) Parameters() map[string]any {
	schema := t.tool.InputSchema
	if schema == nil {
		return emptySchema()
	}

	// Fast path: already a decoded JSON Schema object.
	if schemaMap, ok := schema.(map[string]any); ok {
		return schemaMap
	}

	var jsonData []byte
	if rawMsg, ok := schema.(json.RawMessage); ok {
		jsonData = rawMsg
	} else if bytes, ok := schema.([]byte); ok {
		jsonData = bytes
	}

	if jsonData == nil {
		// For other types (structs, etc.), convert via JSON round-trip.
		var err error
		jsonData, err = json.Marshal(schema)
		if err != nil {
			return emptySchema()
		}
	}

	var result map[string]any
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return emptySchema()
	}
	return result
}

func emptySchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []string{},
	}
}

// Execute forwards the call to the MCP server and flattens the content
// array into a single string result.
func (t *Tool) Execute(ctx context.Context, callID string, params any, progress tools.ProgressFunc) (any, error) {
	args, ok := params.(map[string]any)
	if !ok {
		args = map[string]any{}
	}

	if progress != nil {
		progress(fmt.Sprintf("calling %s on %s", t.tool.Name, t.serverName))
	}

	result, err := t.manager.CallTool(ctx, t.serverName, t.tool.Name, args)
	if err != nil {
		return nil, fmt.Errorf("MCP tool execution failed: %w", err)
	}

	if result == nil {
		return nil, fmt.Errorf("MCP tool returned nil result without error")
	}

	if result.IsError {
		return nil, fmt.Errorf("MCP tool error: %s", extractContentText(result.Content))
	}

	return extractContentText(result.Content), nil
}

// extractContentText extracts text from an MCP content array.
func extractContentText(content []mcp.Content) string {
	var parts []string
	for _, c := range content {
		switch v := c.(type) {
		case *mcp.TextContent:
			parts = append(parts, v.Text)
		case *mcp.ImageContent:
			parts = append(parts, fmt.Sprintf("[Image: %s]", v.MIMEType))
		default:
			parts = append(parts, fmt.Sprintf("[Content: %T]", v))
		}
	}
	return strings.Join(parts, "\n")
}
