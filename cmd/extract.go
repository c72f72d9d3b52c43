package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fermibench/fermibench/internal/estimator"
)

var flagExtractReport string

var extractCmd = &cobra.Command{
	Use:   "extract <question>",
	Short: "Extract an estimate from an existing research report",
	Long: `Read a research report and have the model distill it into a structured
estimate for the given question.

The report is read from the --report file, or from stdin when the flag is
"-" or omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var report []byte
		var err error
		if flagExtractReport == "" || flagExtractReport == "-" {
			report, err = io.ReadAll(os.Stdin)
		} else {
			report, err = os.ReadFile(flagExtractReport)
		}
		if err != nil {
			return fmt.Errorf("reading report: %w", err)
		}

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

		estimate, err := estimator.NewReportExtractor(service).Extract(ctx, args[0], string(report))
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
	extractCmd.Flags().StringVar(&flagExtractReport, "report", "", `report file to extract from ("-" or empty reads stdin)`)
	rootCmd.AddCommand(extractCmd)
}
