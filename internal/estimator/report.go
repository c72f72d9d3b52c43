package estimator

import (
	"context"
	"fmt"

	"github.com/fermibench/fermibench/internal/completion"
	"github.com/fermibench/fermibench/internal/model"
)

// ReportExtractor pulls a structured estimate out of an already-written
// research report. The report text is supplied by the caller; producing it
// (web research, document retrieval) is someone else's job.
type ReportExtractor struct {
	service completion.Service
}

// NewReportExtractor creates an extractor backed by the given completion
// service.
func NewReportExtractor(service completion.Service) *ReportExtractor {
	return &ReportExtractor{service: service}
}

// Name returns "report_extractor:<model>".
func (e *ReportExtractor) Name() string {
	return "report_extractor:" + e.service.Model()
}

// Extract asks the model to read the report and answer with the bare JSON
// estimate object, then parses it. The returned estimate carries the
// report as its reasoning trace.
func (e *ReportExtractor) Extract(ctx context.Context, question, report string) (*model.Estimate, error) {
	answer, err := e.service.Complete(ctx, completion.Request{
		Messages: []completion.Message{
			completion.System(fmt.Sprintf(extractPromptTemplate, question)),
			completion.User(report),
		},
		MaxTokens: estimateMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction turn: %w", err)
	}

	estimate, err := ParseEstimate(answer)
	if err != nil {
		return nil, err
	}
	estimate.ReasoningTrace = map[string]any{"report": report}
	return estimate, nil
}
