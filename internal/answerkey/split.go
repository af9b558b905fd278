package answerkey

import (
	"regexp"
	"strings"
)

// AlternativeSeparator separates accepted alternatives in a stored answer.
const AlternativeSeparator = "|"

var lineBreakRe = regexp.MustCompile(`\r?\n`)

// SplitAlternatives splits a stored answer on "|" and returns the trimmed,
// non-empty alternatives in their original order. Duplicates are kept.
func SplitAlternatives(blob string) []string {
	return compact(strings.Split(blob, AlternativeSeparator))
}

// SplitLines splits an answer blob on LF or CRLF and returns the trimmed,
// non-empty lines.
func SplitLines(blob string) []string {
	return compact(lineBreakRe.Split(blob, -1))
}

func compact(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
