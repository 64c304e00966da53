package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/theyify/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportPath      string
	exportDelimiter string
	reportPath      string
	inputDelimiter  string
	originalColumn  string
	goldColumn      string
	idColumn        string
	noCache         bool
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval <file>",
	Short: "Evaluate the rewrite heuristic against one gold-standard file",
	Long: `Eval reads a delimited file of sentence pairs, rewrites every
original sentence with the singular they rule chain, and compares the
result with its gold sentence by exact match.

The input needs a header row with "original-text" and "gold-text"
columns (names are configurable). Use "-" to read from stdin.

Prints the number of matching sentences and the accuracy. The scored
dataset is exported only when --export is given.

Example:
  theyify eval test_data.tsv
  theyify eval test_data.tsv --export final_data.csv
  theyify eval data.csv --delimiter , --report report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	// Output flags
	evalCmd.Flags().StringVar(&exportPath, "export", "", "write the scored dataset to this path (disabled by default)")
	evalCmd.Flags().StringVar(&exportDelimiter, "export-delimiter", ",", "delimiter for the exported dataset")
	evalCmd.Flags().StringVar(&reportPath, "report", "", "write a JSON report with rule hits and mismatches")

	// Input flags
	addInputFlags(evalCmd)
}

// addInputFlags registers the flags shared by eval and batch
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inputDelimiter, "delimiter", "tab", "input delimiter (tab, comma, or a single character)")
	cmd.Flags().StringVar(&originalColumn, "original-column", "original-text", "column holding the original sentence")
	cmd.Flags().StringVar(&goldColumn, "gold-column", "gold-text", "column holding the gold sentence")
	cmd.Flags().StringVar(&idColumn, "id-column", "", "column holding the row identifier (default: auto-detect)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable memoization of repeated sentences")
}

func runEval(cmd *cobra.Command, args []string) (err error) {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyInputFlags(cmd, cfg)

	flags := cmd.Flags()
	if flags.Changed("export") {
		cfg.Output.ExportPath = exportPath
	}
	if flags.Changed("export-delimiter") {
		cfg.Output.ExportDelimiter = exportDelimiter
	}
	if flags.Changed("report") {
		cfg.Output.ReportPath = reportPath
	}

	var src io.Reader = cmd.InOrStdin()
	source := "stdin"
	if path != "-" {
		f, openErr := os.Open(path)
		if openErr != nil {
			return fmt.Errorf("open input: %w", openErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close input: %w", closeErr)
			}
		}()
		src = f
		source = path
	}

	logger.Debug("evaluating",
		zap.String("input", source),
		zap.String("delimiter", cfg.Input.Delimiter),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	p := pipeline.NewPipeline(cfg, logger)

	result, err := p.Evaluate(src, source, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", source, err)
	}

	if err := p.RenderReport(result); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
