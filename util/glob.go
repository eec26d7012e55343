// Package util holds small shared helpers.
package util

import "strings"

// IsSimpleMatchPattern reports whether the expression contains a wildcard.
func IsSimpleMatchPattern(expr string) bool {
	return strings.ContainsRune(expr, '*')
}

// SimpleMatch matches a glob-style pattern against a string. Only '*' is
// special: it matches any span of characters, including none.
func SimpleMatch(pattern, s string) bool {
	i := strings.IndexByte(pattern, '*')
	if i == -1 {
		return pattern == s
	}
	if !strings.HasPrefix(s, pattern[:i]) {
		return false
	}
	rest := pattern[i+1:]
	if rest == "" {
		return true
	}
	for j := i; j <= len(s); j++ {
		if SimpleMatch(rest, s[j:]) {
			return true
		}
	}
	return false
}

// SimpleMatchAny matches a string against any of the given patterns.
func SimpleMatchAny(patterns []string, s string) bool {
	for _, pattern := range patterns {
		if SimpleMatch(pattern, s) {
			return true
		}
	}
	return false
}
