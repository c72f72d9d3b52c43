// Package estimator produces structured quantity estimates from a
// language-model completion service. The model does the estimating; Go code
// builds the prompts and recovers the (lower, value, upper, unit) object
// from whatever text comes back.
package estimator

import (
	"context"

	"github.com/fermibench/fermibench/internal/model"
)

// Estimator answers a quantity question with a structured estimate.
type Estimator interface {
	// Estimate produces an estimate for the question.
	Estimate(ctx context.Context, question string) (*model.Estimate, error)

	// Name identifies the estimator in reports (e.g., "simple_llm_estimator:gpt-4o-mini").
	Name() string
}
