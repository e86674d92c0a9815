package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxAICommentRunes = 150

var (
	reFenceStart = regexp.MustCompile("(?is)^\\s*```[a-z]*\\s*")
	reFenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// cleanLLMComment quita fences, BOM y comillas envolventes, y recorta a maxAICommentRunes.
func cleanLLMComment(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.TrimPrefix(s, "\uFEFF")
	s = reFenceStart.ReplaceAllString(s, "")
	s = reFenceEnd.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	for _, q := range []string{`"`, "'", "“", "”"} {
		s = strings.TrimPrefix(s, q)
		s = strings.TrimSuffix(s, q)
	}
	s = strings.TrimSpace(s)

	if utf8.RuneCountInString(s) > maxAICommentRunes {
		runes := []rune(s)
		s = strings.TrimSpace(string(runes[:maxAICommentRunes-1])) + "…"
	}
	return s
}
