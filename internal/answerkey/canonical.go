// Package answerkey normalizes fill-in-the-blank answers so that the many
// surface forms of one answer (LaTeX markup, Unicode super/subscripts,
// full-width punctuation, e^x vs exp(x)) compare equal, and classifies
// answer keys that are impractical to type on a phone keyboard.
//
// Everything in this package is pure: no I/O, no shared mutable state.
package answerkey

import (
	"regexp"
	"strings"
	"unicode"
)

// maxCanonicalPasses is the pass budget on top of one pass per input byte.
// Rules that keep changing their input, like peeling one backslash per pass
// off a run of them, shrink it each time, so the combined bound always
// reaches a fixed point.
const maxCanonicalPasses = 8

// rewriteRule is one step of the canonicalization pipeline.
type rewriteRule struct {
	name  string
	apply func(string) string
}

// literal is a plain substring substitution; every entry in from maps to to.
type literal struct {
	from []string
	to   string
}

// pattern is a regexp substitution using Go template expansion ($1, ${1}).
type pattern struct {
	re   *regexp.Regexp
	repl string
}

var scriptDigits = map[rune]rune{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
	'⁺': '+', '⁻': '-', '⁼': '=', '⁽': '(', '⁾': ')', 'ⁿ': 'n',
	'₀': '0', '₁': '1', '₂': '2', '₃': '3', '₄': '4',
	'₅': '5', '₆': '6', '₇': '7', '₈': '8', '₉': '9',
}

// textReplacements folds full-width punctuation and math symbols into ASCII.
// Order is significant.
var textReplacements = []literal{
	{[]string{"（"}, "("},
	{[]string{"）"}, ")"},
	{[]string{"【"}, "["},
	{[]string{"】"}, "]"},
	{[]string{"｛"}, "{"},
	{[]string{"｝"}, "}"},
	{[]string{"，"}, ","},
	{[]string{"。"}, "."},
	{[]string{"："}, ":"},
	{[]string{"；"}, ";"},
	{[]string{"＋"}, "+"},
	{[]string{"－"}, "-"},
	{[]string{"×"}, "*"},
	{[]string{"÷"}, "/"},
	{[]string{"＝"}, "="},
	{[]string{"−", "–", "—"}, "-"},
	{[]string{"·", "⋅"}, "*"},
	{[]string{"π"}, "pi"},
	{[]string{"∞"}, "infinity"},
	{[]string{"≤"}, "<="},
	{[]string{"≥"}, ">="},
	{[]string{"≠"}, "!="},
	{[]string{"≈"}, "~="},
	{[]string{"√"}, "sqrt"},
	{[]string{"∑"}, "sum"},
	{[]string{"∫"}, "int"},
	{[]string{"∂"}, "d"},
}

// latexReplacements folds the LaTeX macros learners are likely to see.
// \left and \right go first so \leq? cannot eat the prefix of \left.
var latexReplacements = []pattern{
	{regexp.MustCompile(`\\left`), ""},
	{regexp.MustCompile(`\\right`), ""},
	{regexp.MustCompile(`\\cdot|\\times`), "*"},
	{regexp.MustCompile(`\\div`), "/"},
	{regexp.MustCompile(`\\leq?`), "<="},
	{regexp.MustCompile(`\\geq?`), ">="},
	{regexp.MustCompile(`\\neq`), "!="},
	{regexp.MustCompile(`\\infty`), "infinity"},
	{regexp.MustCompile(`\\pi`), "pi"},
	{regexp.MustCompile(`\\sqrt`), "sqrt"},
	{regexp.MustCompile(`\\ln`), "ln"},
	{regexp.MustCompile(`\\exp`), "exp"},
	{regexp.MustCompile(`\\,`), ""},
}

var (
	fractionRe = regexp.MustCompile(`\\frac\s*\{([^{}]+)\}\s*\{([^{}]+)\}`)
	expParenRe = regexp.MustCompile(`\be\^\(([^()]+)\)`)
	expTokenRe = regexp.MustCompile(`(?i)\be\^([a-z0-9.+\-*/]+)`)
)

// pipeline is the canonicalization rule table. Later rules depend on the
// output of earlier ones.
var pipeline = []rewriteRule{
	{"math-delimiters", stripMathDelimiters},
	{"super-subscripts", foldScripts},
	{"latex-fractions", flattenFractions},
	{"text-punctuation", applyLiterals(textReplacements)},
	{"latex-macros", applyPatterns(latexReplacements)},
	{"braces", bracesToParens},
	{"whitespace", dropSpaces},
	{"case", strings.ToLower},
	{"exp-notation", rewriteExpNotation},
	{"exp-unwrap", unwrapExpArgument},
}

// Canonicalize maps one answer alternative to its canonical form: no
// whitespace, lower case, ASCII punctuation, and a fixed vocabulary for math
// symbols (sqrt, pi, infinity, sum, int, exp, <=, >=, !=, ~=).
//
// The rule table is re-applied until the output is stable, so
// Canonicalize(Canonicalize(s)) == Canonicalize(s). Malformed nesting never
// fails; unmatched structures pass through a rule unchanged.
func Canonicalize(value string) string {
	out := value
	limit := len(value) + maxCanonicalPasses
	for pass := 0; pass < limit; pass++ {
		next := runPipeline(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func runPipeline(s string) string {
	for _, rule := range pipeline {
		if s == "" {
			return s
		}
		s = rule.apply(s)
	}
	return s
}

func stripMathDelimiters(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 && strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return strings.ReplaceAll(s, "$", "")
}

func foldScripts(s string) string {
	return strings.Map(func(r rune) rune {
		if folded, ok := scriptDigits[r]; ok {
			return folded
		}
		return r
	}, s)
}

// flattenFractions rewrites \frac{A}{B} to (A)/(B) until nothing matches.
// Each pass only handles brace-free arguments, so one level of nesting is
// peeled per pass.
func flattenFractions(s string) string {
	for {
		next := fractionRe.ReplaceAllString(s, "(${1})/(${2})")
		if next == s {
			return s
		}
		s = next
	}
}

func applyLiterals(table []literal) func(string) string {
	return func(s string) string {
		for _, l := range table {
			for _, from := range l.from {
				s = strings.ReplaceAll(s, from, l.to)
			}
		}
		return s
	}
}

func applyPatterns(table []pattern) func(string) string {
	return func(s string) string {
		for _, p := range table {
			s = p.re.ReplaceAllString(s, p.repl)
		}
		return s
	}
}

func bracesToParens(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '{':
			return '('
		case '}':
			return ')'
		}
		return r
	}, s)
}

// dropSpaces removes every Unicode space, including the ideographic space
// that Chinese keyboards insert.
func dropSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func rewriteExpNotation(s string) string {
	s = expParenRe.ReplaceAllString(s, "exp(${1})")
	return expTokenRe.ReplaceAllString(s, "exp(${1})")
}

func unwrapExpArgument(s string) string {
	if !strings.HasPrefix(s, "exp(") || !strings.HasSuffix(s, ")") {
		return s
	}
	return "exp(" + unwrapOuterParens(s[len("exp("):len(s)-1]) + ")"
}

// unwrapOuterParens strips balanced outer parentheses, repeatedly:
// "((x+1))" becomes "x+1" but "(a)(b)" is left alone.
func unwrapOuterParens(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && balanced(s[1:len(s)-1]) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth < 0 {
			return false
		}
	}
	return depth == 0
}

// TraceStep records the output of one rule during a single pipeline pass.
type TraceStep struct {
	Rule   string `json:"rule"`
	Output string `json:"output"`
}

// Trace runs one pass of the rule table and reports the intermediate value
// after each rule. It is meant for debugging answer keys; grading should use
// Canonicalize.
func Trace(value string) []TraceStep {
	steps := make([]TraceStep, 0, len(pipeline))
	s := value
	for _, rule := range pipeline {
		s = rule.apply(s)
		steps = append(steps, TraceStep{Rule: rule.name, Output: s})
	}
	return steps
}
