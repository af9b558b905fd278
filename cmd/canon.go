package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/blankcheck/internal/answerkey"
	"github.com/spf13/cobra"
)

var canonCmd = &cobra.Command{
	Use:   "canon <answer>...",
	Short: "Print the canonical form and comparable set of each answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCanon,
}

func init() {
	canonCmd.Flags().Bool("trace", false, "Show the output of each rewrite rule")
}

func runCanon(cmd *cobra.Command, args []string) error {
	trace, _ := cmd.Flags().GetBool("trace")
	st := styles(cmd)
	out := cmd.OutOrStdout()

	for _, arg := range args {
		fmt.Fprintln(out, st.Title.Render(arg))
		fmt.Fprintf(out, "  canonical:  %s\n", answerkey.Canonicalize(arg))
		fmt.Fprintf(out, "  comparable: [%s]\n", strings.Join(answerkey.ComparableTokens(arg).Slice(), ", "))
		if !trace {
			continue
		}
		for _, step := range answerkey.Trace(arg) {
			fmt.Fprintln(out, st.Hint.Render(fmt.Sprintf("    %-16s %s", step.Rule, step.Output)))
		}
	}
	return nil
}
