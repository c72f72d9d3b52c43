package estimator

import (
	"context"
	"fmt"

	"github.com/fermibench/fermibench/internal/completion"
	"github.com/fermibench/fermibench/internal/model"
)

// estimateMaxTokens caps each estimator turn.
const estimateMaxTokens = 1000

// LLM is the baseline estimator: a two-turn conversation that first asks
// the model to reason step-by-step about the quantity, then asks it to
// restate its answer as a bare JSON object.
type LLM struct {
	service completion.Service
}

// NewLLM creates an estimator backed by the given completion service.
func NewLLM(service completion.Service) *LLM {
	return &LLM{service: service}
}

// Name returns "simple_llm_estimator:<model>".
func (e *LLM) Name() string {
	return "simple_llm_estimator:" + e.service.Model()
}

// Estimate runs the reason-then-format conversation and parses the second
// reply. The returned estimate carries the full message transcript as its
// reasoning trace.
func (e *LLM) Estimate(ctx context.Context, question string) (*model.Estimate, error) {
	messages := []completion.Message{
		completion.User(fmt.Sprintf(reasonPromptTemplate, question)),
	}

	reasoning, err := e.service.Complete(ctx, completion.Request{
		Messages:  messages,
		MaxTokens: estimateMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("reasoning turn: %w", err)
	}

	messages = append(messages,
		completion.Assistant(reasoning),
		completion.User(formatPrompt),
	)

	answer, err := e.service.Complete(ctx, completion.Request{
		Messages:  messages,
		MaxTokens: estimateMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("format turn: %w", err)
	}

	estimate, err := ParseEstimate(answer)
	if err != nil {
		return nil, err
	}
	estimate.ReasoningTrace = append(messages, completion.Assistant(answer))
	return estimate, nil
}
