package dataprocessing

import (
	"regexp"
	"strings"
)

// ColumnMapping maps a canonical field name to its ordered alias list.
// Earlier aliases win, so callers list the most specific spelling first.
// Mappings are configuration: built once at startup and never mutated by
// parsing.
type ColumnMapping map[string][]string

// unresolved marks a field with no matching header.
const unresolved = -1

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeHeader canonicalizes a header or alias for matching: lower-case,
// trimmed, punctuation stripped, internal whitespace collapsed.
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ResolveHeaders matches sheet headers against a column mapping and returns
// the column index per canonical field, or -1 where nothing matched.
//
// For each field the aliases are tried in order; the first alias that matches
// any header wins, and within that alias the first matching header in sheet
// order wins. Equality is checked before containment so an exact header beats
// a substring hit on a later column.
func ResolveHeaders(headers []string, mapping ColumnMapping) map[string]int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	resolved := make(map[string]int, len(mapping))
	for field, aliases := range mapping {
		resolved[field] = resolveField(normalized, aliases)
	}
	return resolved
}

func resolveField(headers []string, aliases []string) int {
	for _, alias := range aliases {
		na := NormalizeHeader(alias)
		if na == "" {
			continue
		}
		for i, h := range headers {
			if h == "" {
				continue
			}
			if h == na {
				return i
			}
		}
		for i, h := range headers {
			if h == "" {
				continue
			}
			if strings.Contains(h, na) || strings.Contains(na, h) {
				return i
			}
		}
	}
	return unresolved
}

// MissingFields returns required fields left unresolved, in the given order.
func MissingFields(resolved map[string]int, required []string) []string {
	var missing []string
	for _, field := range required {
		if idx, ok := resolved[field]; !ok || idx == unresolved {
			missing = append(missing, field)
		}
	}
	return missing
}
