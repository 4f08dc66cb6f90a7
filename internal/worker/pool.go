// Package worker runs background persistence jobs off the answer-submission
// path, so recording an answer never blocks on disk I/O.
package worker

// Job is a unit of background work; a nil return means success.
type Job func() error

// Result reports the outcome of one job.
type Result struct {
	JobID string
	Err   error
}

// Pool executes submitted jobs on a fixed set of workers and reports each
// outcome on the results channel. With a single worker, jobs run strictly in
// submission order, which keeps read-modify-write statistics updates
// sequential.
type Pool struct {
	jobs    chan jobWrapper
	results chan Result
}

type jobWrapper struct {
	id string
	fn Job
}

// NewPool starts workerCount workers with the given job buffer size.
func NewPool(workerCount int, bufferSize int) *Pool {
	p := &Pool{
		jobs:    make(chan jobWrapper, bufferSize),
		results: make(chan Result, bufferSize),
	}

	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for job := range p.jobs {
		p.results <- Result{
			JobID: job.id,
			Err:   job.fn(),
		}
	}
}

// Submit enqueues a job. Blocks only when the buffer is full.
func (p *Pool) Submit(id string, fn Job) {
	p.jobs <- jobWrapper{id: id, fn: fn}
}

// Results exposes job outcomes; the owner must drain it.
func (p *Pool) Results() <-chan Result {
	return p.results
}
