package cli

import (
	"context"
	"fmt"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/ppiankov/theyify/internal/model"
	"github.com/ppiankov/theyify/internal/pipeline"
	"github.com/ppiankov/theyify/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Evaluate several gold-standard files in parallel",
	Long: `Batch evaluates each file independently with its own pipeline and
prints one line per file followed by the pooled totals.

A file that fails to load is reported and excluded from the totals; the
command exits non-zero if any file failed.

Example:
  theyify batch dev.tsv test.tsv
  theyify batch data/*.tsv --concurrency 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of files evaluated at once")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "total timeout for batch processing (0 means no limit)")

	addInputFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyInputFlags(cmd, cfg)
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}

	ctx, cancel := batchContext(cmd.Context(), batchTimeout)
	defer cancel()

	logger.Debug("batch start",
		zap.Int("files", len(args)),
		zap.Int("workers", cfg.Concurrency.Workers),
	)

	evaluator := worker.NewBatchEvaluator(func() worker.Evaluator {
		return pipeline.NewPipeline(cfg, logger)
	}, cfg.Concurrency.Workers)

	results := evaluator.EvaluateFiles(ctx, args)

	total := model.AggregateResult{}
	failures := 0

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tMATCHES\tTOTAL\tACCURACY")
	for _, res := range results {
		if res.Error != nil {
			failures++
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", res.Path, res.Error)
			continue
		}
		agg := res.Result.Aggregate
		total.Matches += agg.Matches
		total.Total += agg.Total
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\n", res.Path, agg.Matches, agg.Total, agg.Accuracy)
	}
	if total.Total > 0 {
		total.Accuracy = float64(total.Matches) / float64(total.Total)
		fmt.Fprintf(w, "ALL\t%d\t%d\t%.4f\n", total.Matches, total.Total, total.Accuracy)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(results))
	}
	return nil
}

// applyInputFlags overrides input settings with flags the user set
func applyInputFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		cfg.Input.Delimiter = inputDelimiter
	}
	if flags.Changed("original-column") {
		cfg.Input.OriginalColumn = originalColumn
	}
	if flags.Changed("gold-column") {
		cfg.Input.GoldColumn = goldColumn
	}
	if flags.Changed("id-column") {
		cfg.Input.IDColumn = idColumn
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
}

// batchContext bounds the batch by timeout; zero or negative means no deadline.
func batchContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
