package answerkey

import "strings"

// ExtractLegacyChoiceOptions recognizes a multiple-choice option list that
// was imported as a fill-blank answer: one option per line, every line
// prefixed with "=", or every line but the first (whose "=" was lost during
// import). It returns the options without their markers and true, or nil and
// false when the blob does not have that shape.
func ExtractLegacyChoiceOptions(blob string) ([]string, bool) {
	lines := SplitLines(blob)
	if len(lines) < 2 {
		return nil, false
	}

	var options []string
	switch {
	case allMarked(lines):
		options = stripMarkers(lines)
	case !isMarked(lines[0]) && allMarked(lines[1:]):
		options = append([]string{lines[0]}, stripMarkers(lines[1:])...)
	default:
		return nil, false
	}

	if len(options) < 2 {
		return nil, false
	}
	return options, true
}

func isMarked(line string) bool { return strings.HasPrefix(line, "=") }

func allMarked(lines []string) bool {
	for _, l := range lines {
		if !isMarked(l) {
			return false
		}
	}
	return true
}

func stripMarkers(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if opt := strings.TrimSpace(strings.TrimPrefix(l, "=")); opt != "" {
			out = append(out, opt)
		}
	}
	return out
}
