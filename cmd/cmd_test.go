package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhisek/blankcheck/internal/audit"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const algebraCourse = `{
  "courseKey": "algebra-1",
  "title": "Algebra I",
  "questions": [
    {"contentId": "q1", "type": "FILL_BLANK", "stem": "Solve x+1=3", "answer": "2"},
    {"contentId": "q2", "type": "FILL_BLANK", "stem": "Pick the primes", "answer": "=2\n=3\n=5"},
    {"contentId": "q3", "type": "FILL_BLANK", "stem": "Derivative of e^x", "answer": "$e^{x}$"},
    {"contentId": "q4", "type": "SINGLE_CHOICE", "stem": "2+2?", "answer": "B", "options": ["3", "4"]}
  ]
}`

const draftCourse = `{
  "courseKey": "draft-1",
  "status": "DRAFT",
  "questions": [
    {"contentId": "d1", "type": "FILL_BLANK", "stem": "Placeholder", "answer": "答案占位符"}
  ]
}`

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeCapture(t, args...)
	return out, err
}

// executeCapture runs the root command with args and returns its stdout and
// stderr, which also carries the console logs.
func executeCapture(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("BLANKCHECK_DB", "")
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag in the tree to its default, since the
// command tree is shared across tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeCourses(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "algebra.course.json"), []byte(algebraCourse), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "drafts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drafts", "draft.course.json"), []byte(draftCourse), 0o644))
	return dir
}

func TestCanon(t *testing.T) {
	out, err := execute(t, "canon", "--no-color", `$e^{x}$`)
	require.NoError(t, err)
	assert.Contains(t, out, "canonical:  exp(x)")
	assert.Contains(t, out, "comparable: [e^x, exp(x)]")
}

func TestCanonTrace(t *testing.T) {
	out, err := execute(t, "canon", "--no-color", "--trace", "X²")
	require.NoError(t, err)
	assert.Contains(t, out, "canonical:  x2")
	assert.Contains(t, out, "super-subscripts X2")
	assert.Contains(t, out, "case             x2")
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "fill blank alternative",
			args: []string{"check", "--no-color", "--key", "e^x|exp(x)", "exp(x)"},
			want: "correct",
		},
		{
			name:    "fill blank wrong",
			args:    []string{"check", "--no-color", "--key", "2", "3"},
			want:    "incorrect",
			wantErr: errIncorrect,
		},
		{
			name: "multi choice order-insensitive",
			args: []string{"check", "--no-color", "--type", "MULTI_CHOICE", "--key", `["A","C"]`, "C|A"},
			want: "correct",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 1, ExitCode(err))
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestCheckIncorrectPrintsNoError(t *testing.T) {
	out, errOut, err := executeCapture(t, "check", "--key", "2", "3")
	require.ErrorIs(t, err, errIncorrect)
	assert.True(t, Silent(err))
	assert.Equal(t, "incorrect\n", out)
	assert.NotContains(t, errOut, "Error:")
}

func TestCheckUnknownType(t *testing.T) {
	_, err := execute(t, "check", "--type", "ESSAY", "--key", "a", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown question type")
}

func TestIssuesJSON(t *testing.T) {
	out, err := execute(t, "issues", "--json", `\frac{1}{2}`)
	require.NoError(t, err)

	var issues []struct {
		Code     string `json:"code"`
		Severity string `json:"severity"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &issues))
	require.NotEmpty(t, issues)
	assert.Equal(t, "LATEX_COMMAND", issues[0].Code)
}

func TestIssuesNone(t *testing.T) {
	out, err := execute(t, "issues", "--no-color", "42")
	require.NoError(t, err)
	assert.Equal(t, "no issues\n", out)
}

func TestImportAuditAndFix(t *testing.T) {
	dir := writeCourses(t)
	db := filepath.Join(t.TempDir(), "bank.db")

	out, err := execute(t, "import", "--db", db, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 courses, 5 questions")

	reportPath := filepath.Join(t.TempDir(), "reports", "audit.json")
	out, err = execute(t, "audit", "--no-color", "--db", db, "--output", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "totalFillBlankQuestions: 3")
	assert.Contains(t, out, "MISCLASSIFIED_CHOICE")
	assert.NotContains(t, out, "draft-1")

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report audit.Report
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, 2, report.TotalFindings)

	_, err = execute(t, "audit", "--db", db, "--include-draft", "--fail-on-issue")
	require.ErrorIs(t, err, audit.ErrFindings)
	assert.Equal(t, 2, ExitCode(err))

	out, err = execute(t, "fix-choice", "--no-color", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "mode: dry-run")
	assert.Contains(t, out, "candidates: 1")

	out, err = execute(t, "fix-choice", "--no-color", "--db", db, "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "updated: 1")

	out, err = execute(t, "fix-choice", "--no-color", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "candidates: 0")
}

func TestAuditFiles(t *testing.T) {
	dir := writeCourses(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.course.json"), []byte(`{"courseKey":`), 0o644))

	out, err := execute(t, "audit", "--no-color", "--source", "files", "--dir", dir, "--include-draft")
	require.NoError(t, err)
	assert.Contains(t, out, "source: files")
	assert.Contains(t, out, "totalFillBlankQuestions: 4")
	assert.Contains(t, out, "broken")
	assert.Contains(t, out, "PLACEHOLDER")
}

func TestLogsGoToCommandStderr(t *testing.T) {
	out, errOut, err := executeCapture(t, "audit", "--verbose", "--source", "files", "--dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, errOut, "audit complete")
	assert.NotContains(t, out, "audit complete")

	_, errOut, err = executeCapture(t, "check", "--key", "2", "2")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "graded submission")

	_, errOut, err = executeCapture(t, "check", "--verbose", "--key", "2", "2")
	require.NoError(t, err)
	assert.Contains(t, errOut, "graded submission")
}

func TestAuditRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "audit", "--source", "s3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown --source")

	_, err = execute(t, "audit", "--limit", "0", "--source", "files", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--limit")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errIncorrect))
	assert.Equal(t, 2, ExitCode(audit.ErrFindings))
}

func TestSilent(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"incorrect answer", errIncorrect, true},
		{"wrapped findings", fmt.Errorf("%w: 3 findings", audit.ErrFindings), true},
		{"other error", errors.New("open database: denied"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Silent(tt.err))
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "blankcheck (devel)\n", out)
}
