// Package eval runs an estimator over a reference dataset and aggregates
// pass/fail scores into a report.
package eval

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/fermibench/fermibench/internal/model"
)

// Query pairs a question with its reference estimate.
type Query struct {
	Question string
	Correct  model.Estimate
}

// LoadDataset reads evaluation rows from a CSV file with a header row
// containing question, lower, upper, unit columns. Rows with an empty
// lower or upper bound are skipped. The reference point estimate is the
// geometric mean of the bounds.
func LoadDataset(path string) ([]Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading dataset header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"question", "lower", "upper", "unit"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("dataset is missing column %q", required)
		}
	}

	var queries []Query
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading dataset line %d: %w", line, err)
		}

		lowerRaw := record[cols["lower"]]
		upperRaw := record[cols["upper"]]
		if lowerRaw == "" || upperRaw == "" {
			continue
		}

		lower, err := strconv.ParseFloat(lowerRaw, 64)
		if err != nil {
			return nil, fmt.Errorf("dataset line %d: bad lower bound %q: %w", line, lowerRaw, err)
		}
		upper, err := strconv.ParseFloat(upperRaw, 64)
		if err != nil {
			return nil, fmt.Errorf("dataset line %d: bad upper bound %q: %w", line, upperRaw, err)
		}

		queries = append(queries, Query{
			Question: record[cols["question"]],
			Correct: model.Estimate{
				Lower: model.SciFloat(lower),
				Value: model.SciFloat(math.Sqrt(lower * upper)),
				Upper: model.SciFloat(upper),
				Unit:  record[cols["unit"]],
			},
		})
	}

	return queries, nil
}
