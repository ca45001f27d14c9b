package tools

import "strings"

// DefaultToolName is substituted when a tool reports an empty name.
const DefaultToolName = "tool"

const maxNameLen = 64

// NormalizeName canonicalizes a tool name so it can be safely used as an
// identifier in hook payloads and downstream provider APIs. It:
//   - trims surrounding whitespace
//   - lowercases the name
//   - replaces any character not in [a-z0-9_-] with '_'
//   - collapses multiple consecutive '_' into a single '_'
//   - trims leading/trailing '_'
//   - truncates overly long names
//   - falls back to DefaultToolName when nothing remains
//
// The function is total: it never fails, for any input.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(s))

	prevUnderscore := false
	for _, r := range s {
		isAllowed := (r >= 'a' && r <= 'z') ||
			(r >= '0' && r <= '9') ||
			r == '_' || r == '-'

		if !isAllowed {
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
			continue
		}

		if r == '_' {
			if prevUnderscore {
				continue
			}
			prevUnderscore = true
		} else {
			prevUnderscore = false
		}

		b.WriteRune(r)
	}

	result := strings.Trim(b.String(), "_")
	if result == "" {
		return DefaultToolName
	}

	if len(result) > maxNameLen {
		// The cut may land right after an underscore.
		result = strings.TrimRight(result[:maxNameLen], "_")
	}

	return result
}
