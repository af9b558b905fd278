package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/blankcheck/internal/answerkey"
	"github.com/abhisek/blankcheck/internal/bank"
	"github.com/abhisek/blankcheck/internal/grading"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrFindings is returned by callers that treat any finding as a failure.
var ErrFindings = errors.New("audit found issues")

// Source says where audited questions came from.
type Source string

const (
	SourceDB    Source = "db"
	SourceFiles Source = "files"
)

// loadFailureIssue is reported for course files that could not be parsed;
// nothing in them can be audited until they are fixed.
var loadFailureIssue = answerkey.Issue{
	Code:     answerkey.IssueExpressionTooComplex,
	Message:  "课程文件解析失败，需先修复格式错误",
	Severity: answerkey.SeverityHigh,
}

// Finding is one question (or unreadable file) with issues.
type Finding struct {
	Source      Source            `json:"source"`
	CourseKey   string            `json:"courseKey"`
	QuestionID  int64             `json:"questionId,omitempty"`
	ContentID   string            `json:"contentId"`
	Answer      string            `json:"answer"`
	StemPreview string            `json:"stemPreview"`
	Location    string            `json:"location,omitempty"`
	Issues      []answerkey.Issue `json:"issues"`
}

// Report summarizes one audit run.
type Report struct {
	ID                      string                     `json:"id"`
	GeneratedAt             time.Time                  `json:"generatedAt"`
	Source                  Source                     `json:"source"`
	TotalFillBlankQuestions int                        `json:"totalFillBlankQuestions"`
	TotalFindings           int                        `json:"totalFindings"`
	FindingsBySeverity      map[answerkey.Severity]int `json:"findingsBySeverity"`
	FindingsByIssueCode     map[string]int             `json:"findingsByIssueCode"`
	FindingsByCourse        map[string]int             `json:"findingsByCourse"`
	Findings                []Finding                  `json:"findings"`
}

// Auditor classifies fill-blank answer keys and builds reports.
type Auditor struct {
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// NewAuditor returns an Auditor that logs to log. A nil logger discards.
func NewAuditor(log *zap.Logger) *Auditor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auditor{log: log, now: time.Now, newID: uuid.NewString}
}

// Run audits the fill-blank questions among questions. loadErrs are course
// files that failed to load; each becomes a high-severity finding.
func (a *Auditor) Run(source Source, questions []bank.Question, loadErrs []error) *Report {
	start := a.now()
	var findings []Finding

	for _, err := range loadErrs {
		findings = append(findings, loadFailureFinding(err))
	}

	total := 0
	for _, q := range questions {
		if q.Type != grading.TypeFillBlank {
			continue
		}
		total++
		issues := answerkey.CollectIssues(q.Answer)
		if len(issues) == 0 {
			continue
		}
		findings = append(findings, Finding{
			Source:      source,
			CourseKey:   courseKeyOf(q),
			QuestionID:  q.ID,
			ContentID:   q.ContentID,
			Answer:      q.Answer,
			StemPreview: bank.StemPreview(q.Stem),
			Location:    q.Location,
			Issues:      issues,
		})
	}

	r := buildReport(source, total, findings)
	r.ID = a.newID()
	r.GeneratedAt = start.UTC()

	a.log.Info("audit complete",
		zap.String("report_id", r.ID),
		zap.String("source", string(source)),
		zap.Int("fill_blank_questions", total),
		zap.Int("findings", r.TotalFindings),
		zap.Int("load_errors", len(loadErrs)),
		zap.Duration("elapsed", a.now().Sub(start)),
	)
	return r
}

func courseKeyOf(q bank.Question) string {
	if q.CourseKey != "" {
		return q.CourseKey
	}
	return fmt.Sprintf("question#%d", q.ID)
}

func loadFailureFinding(err error) Finding {
	f := Finding{
		Source:      SourceFiles,
		CourseKey:   "unknown",
		ContentID:   "course",
		StemPreview: bank.StemPreview("课程文件解析失败: " + err.Error()),
		Issues:      []answerkey.Issue{loadFailureIssue},
	}
	var verr *bank.ValidationError
	if errors.As(err, &verr) {
		f.Location = verr.Path
		f.CourseKey = strings.TrimSuffix(filepath.Base(verr.Path), bank.CourseFileSuffix)
	}
	return f
}

func buildReport(source Source, total int, findings []Finding) *Report {
	r := &Report{
		Source:                  source,
		TotalFillBlankQuestions: total,
		TotalFindings:           len(findings),
		FindingsBySeverity: map[answerkey.Severity]int{
			answerkey.SeverityHigh:   0,
			answerkey.SeverityMedium: 0,
		},
		FindingsByIssueCode: map[string]int{},
		FindingsByCourse:    map[string]int{},
		Findings:            findings,
	}
	if r.Findings == nil {
		r.Findings = []Finding{}
	}
	for _, f := range findings {
		r.FindingsByCourse[f.CourseKey]++
		for _, issue := range f.Issues {
			r.FindingsBySeverity[issue.Severity]++
			r.FindingsByIssueCode[string(issue.Code)]++
		}
	}
	return r
}

// WriteJSON writes the report to path as indented JSON, creating parent
// directories as needed.
func (r *Report) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

type countPair struct {
	Key   string
	Count int
}

// sortedCounts orders m by count descending, then key.
func sortedCounts(m map[string]int) []countPair {
	pairs := make([]countPair, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, countPair{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Key < pairs[j].Key
	})
	return pairs
}
