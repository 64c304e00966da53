package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ppiankov/theyify/internal/transform"
	"github.com/spf13/cobra"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rewrite rules in the order they apply",
	Long: `Rules prints the pronoun substitutions, which all apply in order, and
the verb agreement rules, of which only the first match applies.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

		fmt.Fprintln(w, "Pronoun substitutions (all apply, in order):")
		for i, s := range transform.NewPronounSubstitutor().Substitutions() {
			fmt.Fprintf(w, "  %d.\t%q\t-> %q\n", i+1, s.From, s.To)
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "Verb agreement (first match wins):")
		for i, r := range transform.NewVerbCorrector().Rules() {
			fmt.Fprintf(w, "  %d.\t%s\t%s\n", i+1, r.Name, r.Description)
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
