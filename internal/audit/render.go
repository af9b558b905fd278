package audit

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/blankcheck/internal/answerkey"
	"github.com/abhisek/blankcheck/internal/ui/theme"
)

// Render writes a human-readable summary of r, listing at most limit
// findings.
func (r *Report) Render(w io.Writer, st theme.Styles, limit int) {
	fmt.Fprintln(w, st.Title.Render("[AUDIT] fill-blank answer usability"))
	fmt.Fprintf(w, "- id: %s\n", r.ID)
	fmt.Fprintf(w, "- source: %s\n", r.Source)
	fmt.Fprintf(w, "- generatedAt: %s\n", r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(w, "- totalFillBlankQuestions: %d\n", r.TotalFillBlankQuestions)
	fmt.Fprintf(w, "- totalFindings: %d\n", r.TotalFindings)
	fmt.Fprintf(w, "- findingsBySeverity: %s, %s\n",
		st.High.Render(fmt.Sprintf("high=%d", r.FindingsBySeverity[answerkey.SeverityHigh])),
		st.Medium.Render(fmt.Sprintf("medium=%d", r.FindingsBySeverity[answerkey.SeverityMedium])),
	)

	renderCounts(w, st, "findingsByIssueCode", r.FindingsByIssueCode)
	renderCounts(w, st, "findingsByCourse", r.FindingsByCourse)

	if len(r.Findings) == 0 {
		return
	}
	n := min(limit, len(r.Findings))
	fmt.Fprintln(w, st.Label.Render(fmt.Sprintf("- sampleFindings(top %d):", n)))
	for _, f := range r.Findings[:n] {
		codes := make([]string, 0, len(f.Issues))
		for _, issue := range f.Issues {
			codes = append(codes, st.Severity(string(issue.Severity)).Render(string(issue.Code)))
		}
		var extra strings.Builder
		if f.QuestionID != 0 {
			fmt.Fprintf(&extra, " qid=%d", f.QuestionID)
		}
		fmt.Fprintf(w, "  - [%s]%s contentId=%s issues=%s", f.CourseKey, extra.String(), f.ContentID, strings.Join(codes, ","))
		if f.Location != "" {
			fmt.Fprintf(w, " file=%s", f.Location)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "    answer=%s\n", f.Answer)
		fmt.Fprintln(w, st.Hint.Render("    stem="+f.StemPreview))
	}
}

func renderCounts(w io.Writer, st theme.Styles, title string, m map[string]int) {
	pairs := sortedCounts(m)
	if len(pairs) == 0 {
		return
	}
	fmt.Fprintln(w, st.Label.Render("- "+title+":"))
	for _, p := range pairs {
		fmt.Fprintf(w, "  - %s: %d\n", p.Key, p.Count)
	}
}

// RenderFix writes the outcome of a fix-choice run. updated is ignored in
// dry-run mode.
func RenderFix(w io.Writer, st theme.Styles, apply bool, cands []FixCandidate, updated, limit int) {
	mode := "dry-run"
	if apply {
		mode = "apply"
	}
	fmt.Fprintln(w, st.Title.Render("[FIX] misclassified fill-blank questions"))
	fmt.Fprintf(w, "- mode: %s\n", mode)
	fmt.Fprintf(w, "- candidates: %d\n", len(cands))
	if apply {
		fmt.Fprintf(w, "- updated: %d\n", updated)
	}
	if len(cands) == 0 {
		return
	}
	n := min(limit, len(cands))
	fmt.Fprintln(w, st.Label.Render(fmt.Sprintf("- sample(top %d):", n)))
	for _, c := range cands[:n] {
		fmt.Fprintf(w, "  - qid=%d [%s] contentId=%s\n", c.QuestionID, c.CourseKey, c.ContentID)
		fmt.Fprintf(w, "    newOptions=%q\n", c.Options)
	}
}
