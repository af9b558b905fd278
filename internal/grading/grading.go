package grading

import (
	"encoding/json"
	"strings"

	"github.com/abhisek/blankcheck/internal/answerkey"
)

// QuestionType describes how the learner answers a question.
type QuestionType string

const (
	TypeSingleChoice QuestionType = "SINGLE_CHOICE"
	TypeMultiChoice  QuestionType = "MULTI_CHOICE"
	TypeTrueFalse    QuestionType = "TRUE_FALSE"
	TypeFillBlank    QuestionType = "FILL_BLANK"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeSingleChoice, TypeMultiChoice, TypeTrueFalse, TypeFillBlank:
		return true
	}
	return false
}

// Result is the outcome of grading one submission.
type Result struct {
	Correct bool

	// Canonical is the canonical form of the submission. Only set for
	// fill-blank questions.
	Canonical string

	// MatchedAlternative is the accepted alternative the submission matched,
	// as stored in the answer key. Empty when incorrect or not fill-blank.
	MatchedAlternative string
}

// CheckAnswer compares the learner's submission against the stored answer.
//
// Comparison rules by question type:
//   - Single choice and true/false: trimmed, case-insensitive equality
//   - Multiple choice: the same set of options, ignoring order; either side
//     may be a JSON string array or a "|" separated list
//   - Fill blank: the submission's comparable tokens intersect those of any
//     accepted alternative (see answerkey.ComparableTokens)
func CheckAnswer(qType QuestionType, correct, submitted string) bool {
	return Grade(qType, correct, submitted).Correct
}

// Grade is CheckAnswer with details about the match.
func Grade(qType QuestionType, correct, submitted string) Result {
	if strings.TrimSpace(submitted) == "" {
		return Result{}
	}

	switch qType {
	case TypeFillBlank:
		return gradeFillBlank(correct, submitted)
	case TypeMultiChoice:
		return Result{Correct: sameOptionSet(correct, submitted)}
	default:
		return Result{Correct: normalizeChoice(correct) == normalizeChoice(submitted)}
	}
}

func gradeFillBlank(correct, submitted string) Result {
	got := answerkey.ComparableTokens(submitted)
	res := Result{Canonical: answerkey.Canonicalize(submitted)}
	for _, alt := range answerkey.SplitAlternatives(correct) {
		if answerkey.ComparableTokens(alt).Intersects(got) {
			res.Correct = true
			res.MatchedAlternative = alt
			return res
		}
	}
	return res
}

func normalizeChoice(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// sameOptionSet reports whether both answers name the same non-empty set of
// options.
func sameOptionSet(correct, submitted string) bool {
	want := parseOptionList(correct)
	got := parseOptionList(submitted)
	if len(want) == 0 || len(got) == 0 || len(want) != len(got) {
		return false
	}
	for opt := range want {
		if _, ok := got[opt]; !ok {
			return false
		}
	}
	return true
}

// parseOptionList parses a JSON string array or a "|" separated list into a
// set of normalized options.
func parseOptionList(answer string) map[string]struct{} {
	answer = normalizeChoice(answer)
	if answer == "" {
		return nil
	}

	var items []string
	if strings.HasPrefix(answer, "[") && strings.HasSuffix(answer, "]") {
		if err := json.Unmarshal([]byte(answer), &items); err != nil {
			items = nil
		}
	}
	if items == nil {
		items = strings.Split(answer, answerkey.AlternativeSeparator)
	}

	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = normalizeChoice(item)
		if item == "" {
			continue
		}
		set[item] = struct{}{}
	}
	return set
}
