package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/blankcheck/internal/answerkey"
	"github.com/spf13/cobra"
)

var issuesCmd = &cobra.Command{
	Use:   "issues <answer-key>",
	Short: "List input-usability issues of a fill-blank answer key",
	Args:  cobra.ExactArgs(1),
	RunE:  runIssues,
}

func init() {
	issuesCmd.Flags().Bool("json", false, "Print issues as JSON")
}

func runIssues(cmd *cobra.Command, args []string) error {
	issues := answerkey.CollectIssues(args[0])
	out := cmd.OutOrStdout()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if issues == nil {
			issues = []answerkey.Issue{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(issues)
	}

	if len(issues) == 0 {
		fmt.Fprintln(out, "no issues")
		return nil
	}
	st := styles(cmd)
	for _, issue := range issues {
		code := st.Severity(string(issue.Severity)).Render(string(issue.Code))
		fmt.Fprintf(out, "%s (%s): %s\n", code, issue.Severity, issue.Message)
	}
	return nil
}
