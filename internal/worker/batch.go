package worker

import (
	"context"

	"github.com/ppiankov/theyify/internal/pipeline"
)

// Evaluator scores one dataset file
type Evaluator interface {
	EvaluateFile(path string) (*pipeline.Result, error)
}

// EvaluatorFactory returns a fresh evaluator for each job, since a
// pipeline must not be shared between goroutines
type EvaluatorFactory func() Evaluator

// EvalJob evaluates a single file
type EvalJob struct {
	Path      string
	Evaluator Evaluator
}

// Execute runs the evaluation unless ctx is already done
func (j *EvalJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &EvalResult{Path: j.Path, Error: err}
	}

	result, err := j.Evaluator.EvaluateFile(j.Path)
	return &EvalResult{
		Path:   j.Path,
		Result: result,
		Error:  err,
	}
}

// EvalResult is the outcome of evaluating one file
type EvalResult struct {
	Path   string
	Result *pipeline.Result
	Error  error
}

// GetError returns the evaluation error
func (r *EvalResult) GetError() error {
	return r.Error
}

// BatchEvaluator evaluates many files concurrently
type BatchEvaluator struct {
	factory     EvaluatorFactory
	concurrency int
}

// NewBatchEvaluator creates a new batch evaluator
func NewBatchEvaluator(factory EvaluatorFactory, concurrency int) *BatchEvaluator {
	return &BatchEvaluator{
		factory:     factory,
		concurrency: concurrency,
	}
}

// EvaluateFiles evaluates every path and returns results in input order
func (b *BatchEvaluator) EvaluateFiles(ctx context.Context, paths []string) []*EvalResult {
	jobs := make([]Job, len(paths))
	for i, path := range paths {
		jobs[i] = &EvalJob{Path: path, Evaluator: b.factory()}
	}

	results := NewPool(b.concurrency).Run(ctx, jobs)

	out := make([]*EvalResult, len(paths))
	for i, r := range results {
		if r == nil {
			out[i] = &EvalResult{Path: paths[i], Error: context.Cause(ctx)}
			continue
		}
		out[i] = r.(*EvalResult)
	}

	return out
}
