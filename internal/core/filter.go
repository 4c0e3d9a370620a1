package core

// filter.go validates free-form filter text before it reaches the query
// engine. This is a safety gate, not a parser: it blocks the superficial
// injection patterns a naive substring search is exposed to, and nothing
// more. The query engine never interprets the text as SQL.

import "strings"

// commentPatterns are rejected wherever they appear in the text.
var commentPatterns = []string{";", "--", "/*"}

// forbiddenKeywords are rejected as case-insensitive whole words.
var forbiddenKeywords = []string{
	"DELETE", "UPDATE", "INSERT", "DROP", "ALTER",
	"EXEC", "EXECUTE", "CREATE", "TRUNCATE",
}

// ValidateFilter checks filter text against the deny-list. An empty
// string is valid (no filtering). Comment patterns are checked before
// keywords, so text containing both reports the pattern.
func ValidateFilter(filter string) error {
	if filter == "" {
		return nil
	}

	for _, p := range commentPatterns {
		if strings.Contains(filter, p) {
			return &FilterError{Reason: ReasonCommentPattern, Fragment: p}
		}
	}

	lowered := strings.ToLower(filter)
	for _, kw := range forbiddenKeywords {
		if containsWord(lowered, strings.ToLower(kw)) {
			return &FilterError{Reason: ReasonForbiddenKeyword, Fragment: kw}
		}
	}
	return nil
}

// containsWord reports whether word occurs in text bounded by non-word
// characters. "drop" matches "drop table" but not "dropdown".
func containsWord(text, word string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start

		before := i == 0 || !isWordChar(text[i-1])
		after := i+len(word) == len(text) || !isWordChar(text[i+len(word)])
		if before && after {
			return true
		}
		start = i + 1
	}
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
