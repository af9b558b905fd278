package cmd

import (
	"fmt"

	"github.com/abhisek/blankcheck/internal/audit"
	"github.com/abhisek/blankcheck/internal/bank"
	"github.com/abhisek/blankcheck/internal/grading"
	"github.com/abhisek/blankcheck/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report fill-blank answer keys that are hard to type",
	Long: "Scan fill-blank questions from the database or from course files and " +
		"report answer keys that are misclassified choice lists, placeholders, " +
		"LaTeX, or otherwise hard to enter on a phone keyboard.",
	Args: cobra.NoArgs,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().String("source", string(audit.SourceDB), "Where to read questions from: db or files")
	auditCmd.Flags().String("dir", "", "Courses directory for --source files (default from config)")
	auditCmd.Flags().Bool("include-draft", false, "Include DRAFT courses")
	auditCmd.Flags().String("output", "", "Write the full JSON report to this path")
	auditCmd.Flags().Int("limit", 30, "Print at most this many sample findings")
	auditCmd.Flags().Bool("fail-on-issue", false, "Exit with status 2 when any finding is reported")
}

func runAudit(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	output, _ := cmd.Flags().GetString("output")
	failOnIssue, _ := cmd.Flags().GetBool("fail-on-issue")

	limit, _ := cmd.Flags().GetInt("limit")
	if !cmd.Flags().Changed("limit") && cfg.Audit.Limit > 0 {
		limit = cfg.Audit.Limit
	}
	if limit <= 0 {
		return fmt.Errorf("--limit must be a positive integer, got %d", limit)
	}
	includeDraft, _ := cmd.Flags().GetBool("include-draft")
	if !cmd.Flags().Changed("include-draft") {
		includeDraft = cfg.Audit.IncludeDraft
	}

	var (
		questions []bank.Question
		loadErrs  []error
		err       error
	)
	switch audit.Source(source) {
	case audit.SourceDB:
		questions, err = listFillBlank(cmd, store.Filter{IncludeDraft: includeDraft})
		if err != nil {
			return err
		}
	case audit.SourceFiles:
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.CoursesDir
		}
		questions, loadErrs = questionsFromDir(dir, includeDraft)
	default:
		return fmt.Errorf("unknown --source %q (want db or files)", source)
	}

	report := audit.NewAuditor(logger).Run(audit.Source(source), questions, loadErrs)
	report.Render(cmd.OutOrStdout(), styles(cmd), limit)

	if output != "" {
		if err := report.WriteJSON(output); err != nil {
			return err
		}
		logger.Info("wrote audit report", zap.String("path", output))
		fmt.Fprintf(cmd.OutOrStdout(), "- report: %s\n", output)
	}

	if failOnIssue && report.TotalFindings > 0 {
		return fmt.Errorf("%w: %d findings", audit.ErrFindings, report.TotalFindings)
	}
	return nil
}

// listFillBlank opens the database and lists fill-blank questions matching f.
func listFillBlank(cmd *cobra.Command, f store.Filter) ([]bank.Question, error) {
	s, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	f.Type = grading.TypeFillBlank
	qs, err := s.QuestionRepo().List(cmd.Context(), f)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return qs, nil
}

// questionsFromDir loads the course files under dir and flattens their
// fill-blank questions, skipping DRAFT courses unless includeDraft is set.
func questionsFromDir(dir string, includeDraft bool) ([]bank.Question, []error) {
	courses, loadErrs := bank.LoadDir(dir)
	var qs []bank.Question
	for _, c := range courses {
		if c.Status == bank.StatusDraft && !includeDraft {
			logger.Debug("skipping draft course", zap.String("course", c.Key))
			continue
		}
		qs = append(qs, bank.FillBlank(c.Questions)...)
	}
	return qs, loadErrs
}
