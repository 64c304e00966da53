package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job
type Result interface {
	GetError() error
}

// indexed pairs a job or result with its submission position
type indexed[T any] struct {
	pos int
	val T
}

// Pool runs jobs on a fixed number of workers
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all jobs and returns their results in submission order.
// Jobs not started before ctx is cancelled are not executed and leave a
// nil result in their slot.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	queue := make(chan indexed[Job])
	done := make(chan indexed[Result], workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				done <- indexed[Result]{pos: job.pos, val: job.val.Execute(ctx)}
			}
		}()
	}

	go func() {
		defer close(queue)
		for i, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case queue <- indexed[Job]{pos: i, val: job}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	for r := range done {
		results[r.pos] = r.val
	}

	return results
}
