package cmd

import (
	"fmt"

	"github.com/abhisek/blankcheck/internal/audit"
	"github.com/abhisek/blankcheck/internal/grading"
	"github.com/abhisek/blankcheck/internal/store"
	"github.com/spf13/cobra"
)

var fixChoiceCmd = &cobra.Command{
	Use:   "fix-choice",
	Short: "Convert fill-blank questions whose answer is a choice list",
	Long: "Find fill-blank questions whose answer key is a legacy choice list " +
		"(every line starts with \"=\") and convert them to MULTI_CHOICE. " +
		"Runs as a dry run unless --apply is given.",
	Args: cobra.NoArgs,
	RunE: runFixChoice,
}

func init() {
	fixChoiceCmd.Flags().Bool("apply", false, "Write the conversions to the database")
	fixChoiceCmd.Flags().String("course", "", "Only this course key")
	fixChoiceCmd.Flags().Bool("include-draft", false, "Include DRAFT courses")
	fixChoiceCmd.Flags().Int("limit", 100, "Print at most this many candidates")
}

func runFixChoice(cmd *cobra.Command, args []string) error {
	apply, _ := cmd.Flags().GetBool("apply")
	course, _ := cmd.Flags().GetString("course")
	includeDraft, _ := cmd.Flags().GetBool("include-draft")

	limit, _ := cmd.Flags().GetInt("limit")
	if !cmd.Flags().Changed("limit") && cfg.Fix.Limit > 0 {
		limit = cfg.Fix.Limit
	}
	if limit <= 0 {
		return fmt.Errorf("--limit must be a positive integer, got %d", limit)
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	repo := s.QuestionRepo()
	qs, err := repo.List(cmd.Context(), store.Filter{
		CourseKey:    course,
		IncludeDraft: includeDraft,
		Type:         grading.TypeFillBlank,
	})
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}

	fixer := audit.NewFixer(logger)
	cands := fixer.Candidates(qs)

	updated := 0
	if apply {
		if updated, err = fixer.Apply(cmd.Context(), repo, cands); err != nil {
			return err
		}
	}
	audit.RenderFix(cmd.OutOrStdout(), styles(cmd), apply, cands, updated, limit)
	return nil
}
