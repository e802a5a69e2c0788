package stringsutil

import "strings"

// SplitNonEmpty splits s by sep and returns only non-empty parts.
func SplitNonEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// HasAnySuffix reports whether s ends with one of suffixes.
func HasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
