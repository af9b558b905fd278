package answerkey

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// IssueCode identifies one kind of answer-key quality problem.
type IssueCode string

const (
	IssueMisclassifiedChoice  IssueCode = "POSSIBLE_MISCLASSIFIED_CHOICE"
	IssuePlaceholder          IssueCode = "PLACEHOLDER_ANSWER"
	IssueLatexCommand         IssueCode = "LATEX_COMMAND"
	IssuePowerOrSubscript     IssueCode = "POWER_OR_SUBSCRIPT"
	IssueSpecialMathSymbol    IssueCode = "SPECIAL_MATH_SYMBOL"
	IssueBracketHeavy         IssueCode = "BRACKET_HEAVY"
	IssueAnswerTooLong        IssueCode = "ANSWER_TOO_LONG"
	IssueExpressionTooComplex IssueCode = "EXPRESSION_TOO_COMPLEX"
)

// Severity ranks an issue for reporting.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Issue is one finding about an answer key.
type Issue struct {
	Code     IssueCode `json:"code"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

// PlaceholderMarker is the text importers leave in answers that were never
// filled in.
const PlaceholderMarker = "答案占位符"

const (
	// MaxAnswerLength is the longest alternative, in characters, that is
	// still comfortable to type.
	MaxAnswerLength = 36

	// MaxOperators is the operator count at which an expression is
	// considered too complex.
	MaxOperators = 4
)

type catalogEntry struct {
	message  string
	severity Severity
}

// catalog order is also the order codes are listed by IssueCodes.
var catalogOrder = []IssueCode{
	IssueMisclassifiedChoice,
	IssuePlaceholder,
	IssueLatexCommand,
	IssuePowerOrSubscript,
	IssueSpecialMathSymbol,
	IssueBracketHeavy,
	IssueAnswerTooLong,
	IssueExpressionTooComplex,
}

var catalog = map[IssueCode]catalogEntry{
	IssueMisclassifiedChoice:  {"疑似将选择题错误导入为填空题（答案为多行 = 选项）", SeverityHigh},
	IssuePlaceholder:          {"答案是占位符，题目不可用", SeverityHigh},
	IssueLatexCommand:         {"包含 LaTeX 命令，手机端输入成本高", SeverityHigh},
	IssuePowerOrSubscript:     {"包含幂/下标写法，手机端输入不便", SeverityHigh},
	IssueSpecialMathSymbol:    {"包含非常用数学符号，手机端输入不便", SeverityHigh},
	IssueBracketHeavy:         {"包含大量括号/花括号，手机端输入不便", SeverityMedium},
	IssueAnswerTooLong:        {"答案过长，不适合填空输入", SeverityMedium},
	IssueExpressionTooComplex: {"表达式过于复杂，不适合手机填空输入", SeverityMedium},
}

// LookupIssue returns the catalog Issue for code.
func LookupIssue(code IssueCode) (Issue, bool) {
	e, ok := catalog[code]
	if !ok {
		return Issue{}, false
	}
	return Issue{Code: code, Message: e.message, Severity: e.severity}, true
}

func catalogIssue(code IssueCode) Issue {
	issue, _ := LookupIssue(code)
	return issue
}

// IssueCodes lists every known code in catalog order.
func IssueCodes() []IssueCode {
	return append([]IssueCode(nil), catalogOrder...)
}

// Detector flags a single answer alternative that is hard to type.
// Implementations must be stateless.
type Detector interface {
	Code() IssueCode
	Detect(token string) bool
}

type patternDetector struct {
	code IssueCode
	re   *regexp.Regexp
}

func (d patternDetector) Code() IssueCode          { return d.code }
func (d patternDetector) Detect(token string) bool { return d.re.MatchString(token) }

type lengthDetector struct{ max int }

func (d lengthDetector) Code() IssueCode { return IssueAnswerTooLong }
func (d lengthDetector) Detect(token string) bool {
	return utf8.RuneCountInString(token) > d.max
}

type operatorDetector struct {
	re  *regexp.Regexp
	min int
}

func (d operatorDetector) Code() IssueCode { return IssueExpressionTooComplex }
func (d operatorDetector) Detect(token string) bool {
	return len(d.re.FindAllStringIndex(token, -1)) >= d.min
}

// DefaultDetectors returns the per-alternative detectors in catalog order.
func DefaultDetectors() []Detector {
	return []Detector{
		patternDetector{IssueLatexCommand, regexp.MustCompile(`\\[a-zA-Z]+`)},
		patternDetector{IssuePowerOrSubscript, regexp.MustCompile(`[\^_]|[⁰¹²³⁴⁵⁶⁷⁸⁹⁺⁻⁼⁽⁾ⁿ₀₁₂₃₄₅₆₇₈₉]`)},
		patternDetector{IssueSpecialMathSymbol, regexp.MustCompile(`[≤≥≠≈∞∫∑√∂∇αβγδθλμπω]`)},
		patternDetector{IssueBracketHeavy, regexp.MustCompile(`[\[\]{}]`)},
		lengthDetector{max: MaxAnswerLength},
		operatorDetector{re: regexp.MustCompile(`[+\-*/=<>]`), min: MaxOperators},
	}
}

var defaultDetectors = DefaultDetectors()

// InspectAlternative runs the detectors against one alternative and returns
// the codes that apply, in detector order.
func InspectAlternative(token string, detectors []Detector) []IssueCode {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	var codes []IssueCode
	for _, d := range detectors {
		if d.Detect(token) {
			codes = append(codes, d.Code())
		}
	}
	return codes
}

// CollectIssues classifies a stored answer key.
//
// A placeholder answer or a mis-imported choice list short-circuits to that
// single issue. Otherwise each alternative is inspected; if any alternative
// is free of issues the key is acceptable, since the learner can type that
// one. Failing that, the union of all alternatives' issues is returned,
// deduplicated, in first-seen order.
func CollectIssues(blob string) []Issue {
	return CollectIssuesWith(blob, defaultDetectors)
}

// CollectIssuesWith is CollectIssues with a caller-supplied detector chain.
// Codes a detector reports that are not in the catalog are ignored.
func CollectIssuesWith(blob string, detectors []Detector) []Issue {
	if strings.Contains(blob, PlaceholderMarker) {
		return []Issue{catalogIssue(IssuePlaceholder)}
	}
	if _, ok := ExtractLegacyChoiceOptions(blob); ok {
		return []Issue{catalogIssue(IssueMisclassifiedChoice)}
	}

	alternatives := SplitAlternatives(blob)
	if len(alternatives) == 0 {
		return nil
	}

	perAlt := make([][]IssueCode, len(alternatives))
	for i, alt := range alternatives {
		codes := InspectAlternative(alt, detectors)
		if len(codes) == 0 {
			return nil
		}
		perAlt[i] = codes
	}

	seen := make(map[IssueCode]bool)
	var issues []Issue
	for _, codes := range perAlt {
		for _, code := range codes {
			issue, known := LookupIssue(code)
			if seen[code] || !known {
				continue
			}
			seen[code] = true
			issues = append(issues, issue)
		}
	}
	return issues
}
