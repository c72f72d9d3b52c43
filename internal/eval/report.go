package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fermibench/fermibench/internal/model"
)

// SaveReport writes the report as indented JSON to
// <dir>/<estimator name>_eval_result.json, creating dir if needed, and
// returns the written path. Numeric leaves come out in fixed-precision
// scientific notation via model.SciFloat.
func SaveReport(dir string, report *model.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, report.EstimatorName+"_eval_result.json")

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	return path, nil
}
