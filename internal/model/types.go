package model

import (
	"strconv"
)

// SciFloat is a float64 that marshals to JSON in fixed-precision scientific
// notation (three digits after the decimal point, e.g. 1.527e+14). Result
// files written by earlier runs use this form, so it is kept for round-trip
// compatibility.
type SciFloat float64

// MarshalJSON renders the value as an unquoted JSON number in %.3e form.
func (f SciFloat) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(f), 'e', 3, 64)), nil
}

// UnmarshalJSON accepts any JSON number, including exponent notation.
func (f *SciFloat) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = SciFloat(v)
	return nil
}

// Estimate is a quantity description: a central value with lower and upper
// bounds, in some unit. Estimates are built once (parsed from model output,
// or derived from a dataset row) and never mutated afterward.
//
// lower <= value <= upper is expected but deliberately not enforced: the
// parser accepts whatever the model produced, and scoring treats the values
// literally.
type Estimate struct {
	Lower SciFloat `json:"lower"`
	Value SciFloat `json:"value"`
	Upper SciFloat `json:"upper"`
	Unit  string   `json:"unit"`

	// Name is an optional label for the estimate.
	Name string `json:"name,omitempty"`
	// ReasoningTrace is free-form provenance data (e.g. the full message
	// transcript that produced the estimate). Opaque to scoring.
	ReasoningTrace any `json:"reasoning_trace,omitempty"`
}

// ConversionKind tags a Conversion result.
type ConversionKind int

const (
	// ConversionSame means the two units denote the same quantity.
	ConversionSame ConversionKind = iota
	// ConversionFactor means a multiplicative factor converts unit1 to unit2.
	ConversionFactor
	// ConversionInvalid means the units are not convertible. This is a
	// normal result, not an error.
	ConversionInvalid
)

func (k ConversionKind) String() string {
	switch k {
	case ConversionSame:
		return "same"
	case ConversionFactor:
		return "factor"
	case ConversionInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Conversion is the outcome of a unit-conversion query.
type Conversion struct {
	Kind ConversionKind `json:"kind"`
	// Factor converts a quantity in unit1 into the equivalent quantity in
	// unit2. Only meaningful when Kind is ConversionFactor.
	Factor float64 `json:"factor,omitempty"`
	// Reason is the model reply after the "invalid" keyword. Only set when
	// Kind is ConversionInvalid.
	Reason string `json:"reason,omitempty"`
}

// QueryResult is the outcome of evaluating one dataset question.
type QueryResult struct {
	Question      string `json:"question"`
	EstimatorName string `json:"estimator_name"`

	// Estimate is the parsed candidate estimate. Nil when the estimator
	// failed, in which case EstimateErr holds the stringified failure.
	Estimate    *Estimate `json:"estimate,omitempty"`
	EstimateErr string    `json:"estimate_error,omitempty"`

	Correct Estimate `json:"correct_estimate"`

	// Log collects diagnostics from estimation and scoring.
	Log []string `json:"log,omitempty"`
}

// Report aggregates one evaluation run.
type Report struct {
	// EstimatorName is the estimator name suffixed with the run timestamp.
	EstimatorName string `json:"estimator_name"`
	// Score is the fraction of questions scored 1. Zero for an empty run.
	Score            SciFloat      `json:"score"`
	QueriesIncorrect []QueryResult `json:"queries_incorrect"`
	QueriesCorrect   []QueryResult `json:"queries_correct"`
}
