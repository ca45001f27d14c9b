// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

package plugin

import (
	"fmt"
	"sort"
	"strings"
)

// SelectionInput describes which plugins the configuration asked for.
type SelectionInput struct {
	// DefaultEnabled turns on every available plugin unless disabled.
	DefaultEnabled bool
	Enabled        []string
	Disabled       []string
}

// Resolved is the outcome of matching a selection against the available
// plugin names. All name slices are normalized and sorted.
type Resolved struct {
	EnabledNames    []string
	DisabledNames   []string
	UnknownEnabled  []string
	UnknownDisabled []string
	Warnings        []string
}

// NormalizePluginName canonicalizes a plugin name for lookups.
func NormalizePluginName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ResolveSelection matches a configured selection against the available
// plugin names. Unknown enabled names are an error; unknown disabled names
// only warn. A name that is both enabled and disabled ends up disabled.
func ResolveSelection(available []string, input SelectionInput) (Resolved, error) {
	availableSet := make(map[string]struct{}, len(available))
	for _, name := range available {
		availableSet[NormalizePluginName(name)] = struct{}{}
	}

	var resolved Resolved

	disabledSet := make(map[string]struct{})
	for _, raw := range input.Disabled {
		name := NormalizePluginName(raw)
		if name == "" {
			continue
		}
		if _, known := availableSet[name]; !known {
			resolved.UnknownDisabled = appendUnique(resolved.UnknownDisabled, name)
			resolved.Warnings = append(resolved.Warnings, fmt.Sprintf("unknown disabled plugin %q ignored", name))
			continue
		}
		disabledSet[name] = struct{}{}
	}

	enabledSet := make(map[string]struct{})
	if input.DefaultEnabled {
		for name := range availableSet {
			enabledSet[name] = struct{}{}
		}
	}
	for _, raw := range input.Enabled {
		name := NormalizePluginName(raw)
		if name == "" {
			continue
		}
		if _, known := availableSet[name]; !known {
			resolved.UnknownEnabled = appendUnique(resolved.UnknownEnabled, name)
			continue
		}
		enabledSet[name] = struct{}{}
	}

	for name := range disabledSet {
		if _, ok := enabledSet[name]; ok {
			resolved.Warnings = append(resolved.Warnings, fmt.Sprintf("plugin %q is both enabled and disabled; disabled wins", name))
		}
		delete(enabledSet, name)
	}

	for name := range availableSet {
		if _, ok := enabledSet[name]; ok {
			resolved.EnabledNames = append(resolved.EnabledNames, name)
		} else {
			resolved.DisabledNames = append(resolved.DisabledNames, name)
		}
	}

	sort.Strings(resolved.EnabledNames)
	sort.Strings(resolved.DisabledNames)
	sort.Strings(resolved.UnknownEnabled)
	sort.Strings(resolved.UnknownDisabled)

	if len(resolved.UnknownEnabled) > 0 {
		return resolved, fmt.Errorf("unknown enabled plugin(s): %s", strings.Join(resolved.UnknownEnabled, ", "))
	}

	return resolved, nil
}

func appendUnique(names []string, name string) []string {
	for _, existing := range names {
		if existing == name {
			return names
		}
	}
	return append(names, name)
}
