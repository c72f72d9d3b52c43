// Package score decides pass/fail for a candidate estimate against a
// reference estimate, converting units through the conversion model first.
package score

import (
	"context"
	"fmt"

	"github.com/fermibench/fermibench/internal/convert"
	"github.com/fermibench/fermibench/internal/model"
)

// Candidate is a candidate estimate or a record of the failure that
// prevented one. Exactly one of the fields is meaningful: a nil Estimate
// marks an upstream failure and Failure carries its detail.
type Candidate struct {
	Estimate *model.Estimate
	Failure  string
}

// Scorer scores candidates against reference estimates.
type Scorer struct {
	Converter convert.Converter
}

// Score returns 1 when the candidate's value, converted into the
// reference's unit, falls strictly between the reference bounds, and 0
// otherwise. The second return is a diagnostic: the upstream failure
// detail for a failure marker, a unit mismatch explanation for
// non-convertible units, and empty for a plain in/out-of-bounds verdict.
// An adjusted value exactly equal to a bound scores 0.
//
// The error return is reserved for conversion transport failures; all
// semantic outcomes, including "units don't convert", are 0-score results.
func (s *Scorer) Score(ctx context.Context, candidate Candidate, reference model.Estimate) (int, string, error) {
	if candidate.Estimate == nil {
		// The estimator never produced a structured estimate. No point
		// asking the conversion model anything.
		return 0, candidate.Failure, nil
	}

	conv, err := s.Converter.Convert(ctx, candidate.Estimate.Unit, reference.Unit)
	if err != nil {
		return 0, "", err
	}

	switch conv.Kind {
	case model.ConversionSame:
		return 1, "", nil
	case model.ConversionInvalid:
		return 0, fmt.Sprintf("Invalid units: %s and %s. Conversion model returned: %s",
			candidate.Estimate.Unit, reference.Unit, conv.Reason), nil
	case model.ConversionFactor:
		adjusted := float64(candidate.Estimate.Value) * conv.Factor
		if inBounds(adjusted, reference) {
			return 1, "", nil
		}
		return 0, "", nil
	default:
		return 0, "", fmt.Errorf("unexpected conversion kind %v", conv.Kind)
	}
}

// inBounds applies the strict interval check: bound equality fails.
func inBounds(v float64, reference model.Estimate) bool {
	return float64(reference.Lower) < v && v < float64(reference.Upper)
}
