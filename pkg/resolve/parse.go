// Package resolve turns free-form gene and metabolite lists into CURIE
// sets backed by the knowledge graph, collecting warnings with fuzzy
// suggestions for anything it cannot place.
package resolve

import "strings"

// ParseTokens splits a pasted identifier list into tokens. Accepts
// comma, semicolon, tab, and newline separated input, strips
// surrounding quotes, and drops empties. Order is preserved and
// duplicates kept; resolution dedupes.
func ParseTokens(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', '\t', '\n', '\r', ' ':
			return true
		}
		return false
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `"'`)
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// isDigits reports whether s is a non-empty run of ASCII digits, the
// shape of a bare HGNC identifier.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
