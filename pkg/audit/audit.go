// Package audit provides tamper-evident audit logging for tool calls.
// Events are appended as JSON lines, each carrying an HMAC hash chained to
// the previous event so truncation or edits are detectable.
package audit

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// EventType represents the type of audit event.
type EventType string

const (
	EventTypeToolExecution EventType = "tool_execution"
	EventTypeToolBlocked   EventType = "tool_blocked"
	EventTypePluginLoaded  EventType = "plugin_loaded"
	EventTypeConfigChange  EventType = "config_change"
)

// Event represents a single audit event.
type Event struct {
	Timestamp    time.Time      `json:"timestamp"`
	EventType    EventType      `json:"event_type"`
	Action       string         `json:"action"`
	Resource     string         `json:"resource,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	SessionKey   string         `json:"session_key,omitempty"`
	Success      bool           `json:"success"`
	Error        string         `json:"error,omitempty"`
	Hash         string         `json:"hash,omitempty"`
	PreviousHash string         `json:"previous_hash,omitempty"`
}

// Config holds audit logger configuration.
type Config struct {
	Enabled     bool
	SecretKey   []byte // Key for HMAC signatures; generated when empty
	LogFilePath string
}

// DefaultConfig returns the default audit configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Enabled:     true,
		SecretKey:   nil,
		LogFilePath: filepath.Join(home, ".clawhook", "audit.log"),
	}
}

// Logger appends audit events to a JSONL file with an HMAC hash chain.
type Logger struct {
	config   Config
	file     *os.File
	mu       sync.Mutex
	lastHash string
}

// NewLogger opens the audit log file and prepares the logger. A disabled
// config yields a logger whose Log is a no-op.
func NewLogger(config Config) (*Logger, error) {
	l := &Logger{config: config}
	if !config.Enabled {
		return l, nil
	}

	dir := filepath.Dir(config.LogFilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	file, err := os.OpenFile(config.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}
	l.file = file

	if len(l.config.SecretKey) == 0 {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to generate audit secret key: %w", err)
		}
		l.config.SecretKey = key
	}

	return l, nil
}

// Close closes the audit log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Log records an audit event.
func (l *Logger) Log(event Event) error {
	if !l.config.Enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	event.PreviousHash = l.lastHash
	event.Hash = l.computeHash(event)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	if l.file != nil {
		if _, err := l.file.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write audit event: %w", err)
		}
	}

	l.lastHash = event.Hash
	return nil
}

// computeHash computes an HMAC hash of the event for integrity verification.
func (l *Logger) computeHash(event Event) string {
	signData := fmt.Sprintf("%s|%s|%s|%s|%v|%s",
		event.Timestamp.Format(time.RFC3339Nano),
		event.EventType,
		event.Action,
		event.Resource,
		event.Success,
		event.PreviousHash,
	)

	h := hmac.New(sha256.New, l.config.SecretKey)
	h.Write([]byte(signData))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// VerifyChain verifies the integrity of the audit log chain.
func (l *Logger) VerifyChain() (bool, error) {
	if l.file == nil {
		return false, fmt.Errorf("audit logger not initialized")
	}

	data, err := os.ReadFile(l.config.LogFilePath)
	if err != nil {
		return false, fmt.Errorf("failed to read audit log: %w", err)
	}

	var prevHash string
	for i, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}

		var event Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			return false, fmt.Errorf("failed to parse event at line %d: %w", i+1, err)
		}

		if event.PreviousHash != prevHash {
			return false, fmt.Errorf("hash chain broken at line %d", i+1)
		}

		if event.Hash != l.computeHash(event) {
			return false, fmt.Errorf("event hash mismatch at line %d", i+1)
		}

		prevHash = event.Hash
	}

	return true, nil
}
