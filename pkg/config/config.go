package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/clawkit/clawhook/pkg/redaction"
)

type LoggingConfig struct {
	Level string `json:"level" label:"Log Level" env:"CLAWHOOK_LOGGING_LEVEL"`
	File  string `json:"file" label:"Log File" env:"CLAWHOOK_LOGGING_FILE"`
}

type AuditConfig struct {
	Enabled bool   `json:"enabled" label:"Enabled" env:"CLAWHOOK_AUDIT_ENABLED"`
	Path    string `json:"path" label:"Log Path" env:"CLAWHOOK_AUDIT_PATH"`
	Secret  string `json:"secret" label:"Chain Secret" env:"CLAWHOOK_AUDIT_SECRET"`
}

type PluginsConfig struct {
	DefaultEnabled bool     `json:"default_enabled" label:"Default Enabled" env:"CLAWHOOK_PLUGINS_DEFAULT_ENABLED"`
	Enabled        []string `json:"enabled" label:"Enabled Plugins" env:"CLAWHOOK_PLUGINS_ENABLED"`
	Disabled       []string `json:"disabled" label:"Disabled Plugins" env:"CLAWHOOK_PLUGINS_DISABLED"`
}

type PolicyConfig struct {
	DisabledTools     []string `json:"disabled_tools" label:"Disabled Tools" env:"CLAWHOOK_POLICY_DISABLED_TOOLS"`
	MaxParamBytes     int      `json:"max_param_bytes" label:"Max Param Bytes" env:"CLAWHOOK_POLICY_MAX_PARAM_BYTES"`
	MaxCallsPerMin    int      `json:"max_calls_per_min" label:"Max Calls Per Minute" env:"CLAWHOOK_POLICY_MAX_CALLS_PER_MIN"`
	MaxTimeoutSeconds int      `json:"max_timeout_seconds" label:"Max Timeout Seconds" env:"CLAWHOOK_POLICY_MAX_TIMEOUT_SECONDS"`
}

type Config struct {
	Logging   LoggingConfig    `json:"logging" label:"Logging"`
	Audit     AuditConfig      `json:"audit" label:"Audit Log"`
	Plugins   PluginsConfig    `json:"plugins" label:"Plugins"`
	Policy    PolicyConfig     `json:"policy" label:"Policy"`
	Redaction redaction.Config `json:"redaction" label:"Redaction"`
}

func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Audit: AuditConfig{
			Enabled: false,
			Path:    "",
			Secret:  "",
		},
		Plugins: PluginsConfig{
			DefaultEnabled: false,
			Enabled:        []string{},
			Disabled:       []string{},
		},
		Policy: PolicyConfig{
			DisabledTools:     []string{},
			MaxParamBytes:     262144,
			MaxCallsPerMin:    30,
			MaxTimeoutSeconds: 0,
		},
		Redaction: redaction.DefaultConfig(),
	}
}

// LoadConfig reads path, layering file values over defaults and environment
// variables over both. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := env.Parse(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "clawhook.json"
	}
	return filepath.Join(home, ".clawhook", "config.json")
}
