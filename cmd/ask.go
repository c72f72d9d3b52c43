package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/fermibench/fermibench/internal/estimator"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Estimate a single quantity",
	Long: `Ask the estimator one question and print the structured estimate as
JSON: lower bound, central value, upper bound, and unit.

Use --verbose to include the full reasoning transcript.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
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

		estimate, err := estimator.NewLLM(service).Estimate(ctx, args[0])
		if err != nil {
			return err
		}

		if !flagVerbose {
			estimate.ReasoningTrace = nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(estimate)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
