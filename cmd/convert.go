package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/fermibench/fermibench/internal/convert"
	"github.com/fermibench/fermibench/internal/model"
)

var convertCmd = &cobra.Command{
	Use:   "convert <unit1> <unit2>",
	Short: "Ask the conversion model how two units relate",
	Long: `Classify a pair of unit strings: identical, convertible by a
multiplicative factor, or not convertible.

For convertible pairs the printed factor f satisfies
f * [quantity in unit1] = [quantity in unit2].`,
	Args: cobra.ExactArgs(2),
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

		conv, err := convert.NewLLMConverter(service, tel.Metrics).Convert(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		out := struct {
			Unit1  string  `json:"unit1"`
			Unit2  string  `json:"unit2"`
			Result string  `json:"result"`
			Factor float64 `json:"factor,omitempty"`
			Reason string  `json:"reason,omitempty"`
		}{
			Unit1:  args[0],
			Unit2:  args[1],
			Result: conv.Kind.String(),
			Reason: conv.Reason,
		}
		if conv.Kind == model.ConversionFactor || conv.Kind == model.ConversionSame {
			out.Factor = conv.Factor
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
