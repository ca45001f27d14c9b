package pluginruntime

import (
	"fmt"

	"github.com/clawkit/clawhook/pkg/audit"
	"github.com/clawkit/clawhook/pkg/config"
	"github.com/clawkit/clawhook/pkg/plugin"
	"github.com/clawkit/clawhook/pkg/plugin/builtin"
)

type Summary struct {
	Enabled         []string
	Disabled        []string
	UnknownEnabled  []string
	UnknownDisabled []string
	Warnings        []string
}

// ResolveConfiguredPlugins instantiates the builtin plugins selected by the
// configuration. Plugin settings from the config flow into the matching
// factories.
func ResolveConfiguredPlugins(cfg *config.Config) ([]plugin.Plugin, Summary, error) {
	if cfg == nil {
		return nil, Summary{}, fmt.Errorf("config is nil")
	}

	resolved, err := plugin.ResolveSelection(
		builtin.Names(),
		plugin.SelectionInput{
			DefaultEnabled: cfg.Plugins.DefaultEnabled,
			Enabled:        cfg.Plugins.Enabled,
			Disabled:       cfg.Plugins.Disabled,
		},
	)

	summary := Summary{
		Enabled:         resolved.EnabledNames,
		Disabled:        resolved.DisabledNames,
		UnknownEnabled:  resolved.UnknownEnabled,
		UnknownDisabled: resolved.UnknownDisabled,
		Warnings:        resolved.Warnings,
	}
	if err != nil {
		return nil, summary, err
	}

	catalog := configuredCatalog(cfg)
	normalizedCatalog := make(map[string]builtin.Factory, len(catalog))
	for name, factory := range catalog {
		normalizedCatalog[plugin.NormalizePluginName(name)] = factory
	}

	instances := make([]plugin.Plugin, 0, len(resolved.EnabledNames))
	for _, name := range resolved.EnabledNames {
		factory, ok := normalizedCatalog[name]
		if !ok {
			return nil, summary, fmt.Errorf("builtin plugin %q has no factory", name)
		}
		instance := factory()
		if instance == nil {
			return nil, summary, fmt.Errorf("builtin plugin %q factory returned nil", name)
		}
		instances = append(instances, instance)
	}

	return instances, summary, nil
}

// configuredCatalog overlays config-driven settings on the default catalog.
func configuredCatalog(cfg *config.Config) map[string]builtin.Factory {
	catalog := builtin.Catalog()

	catalog["policy"] = func() plugin.Plugin {
		return builtin.NewPolicyPlugin(builtin.PolicyConfig{
			DisabledTools:     cfg.Policy.DisabledTools,
			MaxParamBytes:     cfg.Policy.MaxParamBytes,
			MaxCallsPerMin:    cfg.Policy.MaxCallsPerMin,
			MaxTimeoutSeconds: cfg.Policy.MaxTimeoutSeconds,
		})
	}

	catalog["audit"] = func() plugin.Plugin {
		auditCfg := audit.Config{
			Enabled:     cfg.Audit.Enabled,
			LogFilePath: cfg.Audit.Path,
		}
		if cfg.Audit.Secret != "" {
			auditCfg.SecretKey = []byte(cfg.Audit.Secret)
		}
		return builtin.NewAuditPlugin(auditCfg)
	}

	catalog["redactor"] = func() plugin.Plugin {
		return builtin.NewRedactorPlugin(cfg.Redaction)
	}

	return catalog
}
