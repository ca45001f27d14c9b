// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

package builtin

import (
	"sort"

	"github.com/clawkit/clawhook/pkg/audit"
	"github.com/clawkit/clawhook/pkg/plugin"
	"github.com/clawkit/clawhook/pkg/redaction"
)

// Factory creates one builtin plugin instance.
type Factory func() plugin.Plugin

// Catalog returns compile-time builtin plugin factories by name.
func Catalog() map[string]Factory {
	return map[string]Factory{
		"policy": func() plugin.Plugin {
			return NewPolicyPlugin(PolicyConfig{})
		},
		"audit": func() plugin.Plugin {
			return NewAuditPlugin(audit.DefaultConfig())
		},
		"redactor": func() plugin.Plugin {
			return NewRedactorPlugin(redaction.DefaultConfig())
		},
	}
}

// Names returns sorted builtin plugin names.
func Names() []string {
	catalog := Catalog()
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
