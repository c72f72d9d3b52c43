package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/fermibench/fermibench/internal/config"
	"github.com/fermibench/fermibench/internal/convert"
	"github.com/fermibench/fermibench/internal/estimator"
	"github.com/fermibench/fermibench/internal/eval"
	"github.com/fermibench/fermibench/internal/model"
	"github.com/fermibench/fermibench/internal/progress"
	"github.com/fermibench/fermibench/internal/score"
)

var (
	flagRunOutputDir  string
	flagRunParallel   int
	flagRunCacheTTL   string
	flagRunNoProgress bool
)

var runCmd = &cobra.Command{
	Use:   "run [dataset.csv]",
	Short: "Evaluate an estimator against a question dataset",
	Long: `Run every question in the dataset through the estimator, score each
answer against its reference interval, and write a JSON report.

The dataset is a CSV with question, lower, upper, and unit columns; rows
missing a bound are skipped. Questions are evaluated concurrently with
bounded parallelism, and a failed question scores zero without aborting
the batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.Dataset = args[0]
		}
		if cfg.Dataset == "" {
			return fmt.Errorf("no dataset given: pass a CSV path or set dataset in the config")
		}
		if flagRunOutputDir != "" {
			cfg.OutputDir = flagRunOutputDir
		}
		if flagRunParallel > 0 {
			cfg.Parallel = flagRunParallel
		}
		if flagRunCacheTTL != "" {
			cfg.CacheTTL = flagRunCacheTTL
			cfg.CacheTTLDuration, err = config.ParseTTL(cfg.CacheTTL)
			if err != nil {
				return fmt.Errorf("invalid cache TTL %q: %w", cfg.CacheTTL, err)
			}
		}

		queries, err := eval.LoadDataset(cfg.Dataset)
		if err != nil {
			return err
		}
		if len(queries) == 0 {
			return fmt.Errorf("dataset %s contains no usable questions", cfg.Dataset)
		}

		tel, err := initTelemetry(ctx, cfg)
		if err != nil {
			return err
		}
		defer tel.Shutdown(ctx)

		service, err := getService(cfg, tel.Metrics)
		if err != nil {
			return err
		}

		var converter convert.Converter = convert.NewLLMConverter(service, tel.Metrics)
		if cfg.CacheTTLDuration > 0 {
			converter = convert.NewCachedConverter(converter, cfg.CacheTTLDuration, tel.Metrics)
		}

		runner := &eval.Runner{
			Estimator: estimator.NewLLM(service),
			Scorer:    &score.Scorer{Converter: converter},
			Parallel:  cfg.Parallel,
			Metrics:   tel.Metrics,
		}

		// The TUI draws on stderr; fall back to log lines when that's a pipe.
		plain := flagRunNoProgress || !isatty.IsTerminal(os.Stderr.Fd())
		report, err := progress.Run(len(queries), runner.Estimator.Name(), plain,
			func(onResult func(eval.Outcome)) *model.Report {
				runner.OnResult = onResult
				return runner.Run(ctx, queries)
			})
		if err != nil {
			return err
		}

		path, err := eval.SaveReport(cfg.OutputDir, report)
		if err != nil {
			return err
		}

		fmt.Printf("score: %.3f (%d/%d correct)\n", float64(report.Score),
			len(report.QueriesCorrect), len(queries))
		fmt.Printf("report: %s\n", path)

		if flagVerbose {
			for _, q := range report.QueriesIncorrect {
				fmt.Fprintf(os.Stderr, "incorrect: %s\n", q.Question)
				for _, line := range q.Log {
					fmt.Fprintf(os.Stderr, "  %s\n", line)
				}
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&flagRunOutputDir, "output-dir", "", "directory for the JSON report (default: eval_results)")
	runCmd.Flags().IntVar(&flagRunParallel, "parallel", 0, "number of questions to evaluate concurrently (default: 10)")
	runCmd.Flags().StringVar(&flagRunCacheTTL, "cache-ttl", "", `conversion cache TTL, e.g. "5m" ("0" disables; default: 0)`)
	runCmd.Flags().BoolVar(&flagRunNoProgress, "no-progress", false, "log one line per result instead of the progress display")
	rootCmd.AddCommand(runCmd)
}
