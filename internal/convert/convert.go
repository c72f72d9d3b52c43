// Package convert decides how two unit strings relate: identical,
// convertible by a multiplicative factor, or not convertible. The judgment
// call is the conversion model's; Go code builds the prompt, classifies the
// reply, and evaluates the factor expression.
package convert

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fermibench/fermibench/internal/completion"
	"github.com/fermibench/fermibench/internal/model"
	fbotel "github.com/fermibench/fermibench/internal/otel"
)

// convertPromptTemplate asks for "same", "invalid", or a factor expression.
// Contains two %s placeholders: unit1 (x) then unit2 (y). Loaded from
// prompts/convert.md at compile time.
//
//go:embed prompts/convert.md
var convertPromptTemplate string

const convertMaxTokens = 1000

// invalidKeyword marks a not-convertible reply from the model.
const invalidKeyword = "invalid"

// ConversionError reports a transport-level failure talking to the
// conversion model. Semantically "not convertible" outcomes are a normal
// Conversion value, never an error.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("unit conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Converter classifies a pair of unit strings.
type Converter interface {
	// Convert returns how unit1 relates to unit2. The factor f in a
	// ConversionFactor result satisfies f * [quantity in unit1] =
	// [quantity in unit2]. Errors are transport failures only.
	Convert(ctx context.Context, unit1, unit2 string) (model.Conversion, error)
}

// LLMConverter asks the completion service to relate the two units.
type LLMConverter struct {
	service completion.Service
	metrics *fbotel.Metrics
}

// NewLLMConverter creates a converter backed by the given completion
// service. metrics may be nil.
func NewLLMConverter(service completion.Service, metrics *fbotel.Metrics) *LLMConverter {
	return &LLMConverter{service: service, metrics: metrics}
}

var tracer = otel.Tracer("fermibench/convert")

// Convert sends the unit pair to the conversion model at temperature zero
// and classifies the reply. A reply that is neither "same" nor
// invalid-prefixed nor an evaluable expression degrades to a
// ConversionInvalid result rather than an error, so a single flaky reply
// never aborts a batch.
func (c *LLMConverter) Convert(ctx context.Context, unit1, unit2 string) (model.Conversion, error) {
	ctx, span := tracer.Start(ctx, "convert_units",
		trace.WithAttributes(
			attribute.String("unit.from", unit1),
			attribute.String("unit.to", unit2),
		))
	defer span.End()

	temperature := 0.0
	reply, err := c.service.Complete(ctx, completion.Request{
		Messages: []completion.Message{
			completion.User(fmt.Sprintf(convertPromptTemplate, unit1, unit2)),
		},
		MaxTokens:   convertMaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return model.Conversion{}, &ConversionError{Err: err}
	}

	conv := classify(reply)

	span.SetAttributes(attribute.String("conversion.result", conv.Kind.String()))
	if conv.Kind == model.ConversionFactor {
		span.SetAttributes(attribute.Float64("conversion.factor", conv.Factor))
	}
	c.metrics.RecordConversion(ctx, conv.Kind.String())

	return conv, nil
}

// classify maps a model reply onto the Conversion union. Matching is
// whitespace-trimmed and case-insensitive.
func classify(reply string) model.Conversion {
	trimmed := strings.TrimSpace(reply)

	if strings.EqualFold(trimmed, "same") {
		return model.Conversion{Kind: model.ConversionSame, Factor: 1}
	}

	if len(trimmed) >= len(invalidKeyword) && strings.EqualFold(trimmed[:len(invalidKeyword)], invalidKeyword) {
		// Reason carries whatever follows the keyword, verbatim.
		return model.Conversion{Kind: model.ConversionInvalid, Reason: trimmed[len(invalidKeyword):]}
	}

	f, err := EvalExpr(trimmed)
	if err != nil {
		// A reply we can't evaluate is a soft "not convertible", keeping
		// the same after-keyword reason convention as a model "invalid".
		return model.Conversion{Kind: model.ConversionInvalid, Reason: ": " + err.Error()}
	}
	return model.Conversion{Kind: model.ConversionFactor, Factor: f}
}
