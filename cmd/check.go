package cmd

import (
	"fmt"

	"github.com/abhisek/blankcheck/internal/grading"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkCmd = &cobra.Command{
	Use:   "check --key <answer-key> <submission>",
	Short: "Grade a submission against an answer key",
	Long: "Grade a submission against an answer key. Fill-blank keys may list " +
		"alternatives separated by \"|\". Exits with status 1 when the submission " +
		"is incorrect.",
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("key", "", "Answer key (required)")
	checkCmd.Flags().String("type", string(grading.TypeFillBlank), "Question type: SINGLE_CHOICE, MULTI_CHOICE, TRUE_FALSE or FILL_BLANK")
	_ = checkCmd.MarkFlagRequired("key")
}

func runCheck(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("key")
	typ, _ := cmd.Flags().GetString("type")

	qType := grading.QuestionType(typ)
	if !qType.Valid() {
		return fmt.Errorf("unknown question type %q", typ)
	}

	res := grading.Grade(qType, key, args[0])
	logger.Debug("graded submission",
		zap.String("type", typ),
		zap.Bool("correct", res.Correct),
		zap.String("canonical", res.Canonical),
	)

	st := styles(cmd)
	out := cmd.OutOrStdout()
	if !res.Correct {
		fmt.Fprintln(out, st.Incorrect.Render("incorrect"))
		return errIncorrect
	}
	fmt.Fprintln(out, st.Correct.Render("correct"))
	if res.MatchedAlternative != "" {
		fmt.Fprintf(out, "  matched: %s\n", res.MatchedAlternative)
	}
	return nil
}
