package eval

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fermibench/fermibench/internal/estimator"
	"github.com/fermibench/fermibench/internal/model"
	fbotel "github.com/fermibench/fermibench/internal/otel"
	"github.com/fermibench/fermibench/internal/score"
)

var tracer = otel.Tracer("fermibench/eval")

// Outcome reports one finished question to the progress callback.
type Outcome struct {
	// Index is the question's position in the input slice.
	Index  int
	Result model.QueryResult
	Score  int
}

// Runner evaluates every query with bounded parallelism and aggregates the
// scores. Questions are independent; one slow or failed question delays or
// affects only itself.
type Runner struct {
	Estimator estimator.Estimator
	Scorer    *score.Scorer
	// Parallel is the maximum number of questions in flight. Values below
	// one run sequentially.
	Parallel int
	Metrics  *fbotel.Metrics
	// OnResult, when set, is called as each question finishes. Calls are
	// serialized.
	OnResult func(Outcome)

	// now stands in for time.Now in tests.
	now func() time.Time
}

// Run evaluates all queries and returns the aggregated report. It never
// fails: estimator and scoring errors become zero-score results with the
// failure recorded in the query log.
func (r *Runner) Run(ctx context.Context, queries []Query) *model.Report {
	ctx, span := tracer.Start(ctx, "run_eval",
		trace.WithAttributes(
			attribute.String("estimator.name", r.Estimator.Name()),
			attribute.Int("questions.total", len(queries)),
		))
	defer span.End()

	results := make([]model.QueryResult, len(queries))
	scores := make([]int, len(queries))

	parallel := r.Parallel
	if parallel < 1 {
		parallel = 1
	}
	if parallel > len(queries) {
		parallel = len(queries)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, parallel)
	var mu sync.Mutex // serializes OnResult

	for i, q := range queries {
		wg.Add(1)
		go func(idx int, q Query) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, s := r.evaluate(ctx, q)
			results[idx] = result
			scores[idx] = s

			if r.OnResult != nil {
				mu.Lock()
				r.OnResult(Outcome{Index: idx, Result: result, Score: s})
				mu.Unlock()
			}
		}(i, q)
	}

	wg.Wait()

	var correct, incorrect []model.QueryResult
	total := 0
	for i, s := range scores {
		total += s
		if s == 1 {
			correct = append(correct, results[i])
		} else {
			incorrect = append(incorrect, results[i])
		}
	}

	avg := 0.0
	if len(queries) > 0 {
		avg = float64(total) / float64(len(queries))
	}

	span.SetAttributes(
		attribute.Int("questions.correct", total),
		attribute.Float64("score", avg),
	)

	now := time.Now
	if r.now != nil {
		now = r.now
	}

	return &model.Report{
		EstimatorName:    fmt.Sprintf("%s_%s", r.Estimator.Name(), now().Format("2006-01-02_15-04-05")),
		Score:            model.SciFloat(avg),
		QueriesIncorrect: incorrect,
		QueriesCorrect:   correct,
	}
}

// evaluate runs one question end to end. Any estimator error becomes a
// failure marker scored 0; a conversion transport failure likewise degrades
// to 0 with the error logged.
func (r *Runner) evaluate(ctx context.Context, q Query) (model.QueryResult, int) {
	ctx, span := tracer.Start(ctx, "evaluate_question",
		trace.WithAttributes(
			attribute.String("question", q.Question),
		))
	defer span.End()

	var log []string
	var candidate score.Candidate

	est, err := r.Estimator.Estimate(ctx, q.Question)
	if err != nil {
		candidate.Failure = err.Error()
		log = append(log, err.Error())
	} else {
		candidate.Estimate = est
	}

	result, diagnostic, err := r.Scorer.Score(ctx, candidate, q.Correct)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: question %q: %v\n", q.Question, err)
		log = append(log, err.Error())
		result = 0
	}
	if diagnostic != "" {
		log = append(log, diagnostic)
	}

	outcome := "fail"
	switch {
	case candidate.Failure != "" || err != nil:
		outcome = "error"
	case result == 1:
		outcome = "pass"
	}
	r.Metrics.RecordEvaluation(ctx, outcome)

	span.SetAttributes(
		attribute.Int("score", result),
		attribute.String("evaluation.outcome", outcome),
	)

	return model.QueryResult{
		Question:      q.Question,
		EstimatorName: r.Estimator.Name(),
		Estimate:      candidate.Estimate,
		EstimateErr:   candidate.Failure,
		Correct:       q.Correct,
		Log:           log,
	}, result
}
