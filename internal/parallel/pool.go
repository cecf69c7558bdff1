// Package parallel runs independent render jobs on a fixed set of
// goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("parallel: pool closed")

// Job is one unit of work. A job must not share mutable state with
// other jobs of the same Run call.
type Job func(ctx context.Context) error

// WorkerPool is a pool of goroutines executing jobs.
//
// Each worker owns a queue and steals from the other queues when its
// own is empty, so a slow job does not hold back the rest.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int

	// queues holds one buffered queue per worker.
	queues []chan func()

	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run distributes jobs round-robin across the workers and waits for all
// of them. Jobs not yet started when ctx is canceled are skipped and
// report ctx.Err().
//
// The returned error joins every job error in job order. If a job
// panics, Run waits for the remaining jobs and then re-panics with the
// first panic value in job order on the calling goroutine.
func (p *WorkerPool) Run(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}
	if !p.running.Load() {
		return ErrClosed
	}

	errs := make([]error, len(jobs))
	panics := make([]any, len(jobs))
	var wg sync.WaitGroup
	wg.Add(len(jobs))

	for i, job := range jobs {
		work := func() {
			defer wg.Done()
			panics[i], errs[i] = runJob(ctx, job)
		}
		select {
		case p.queues[i%p.workers] <- work:
		case <-p.done:
			errs[i] = ErrClosed
			wg.Done()
		}
	}

	wg.Wait()
	for _, r := range panics {
		if r != nil {
			panic(r)
		}
	}
	return errors.Join(errs...)
}

// runJob runs job on a worker. A panic is recovered so the worker
// survives, and handed back for Run to re-raise.
func runJob(ctx context.Context, job Job) (recovered any, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		recovered = recover()
	}()
	return nil, job(ctx)
}

// Close stops the workers after the queued work has run.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// QueuedWork returns an approximate count of queued jobs.
func (p *WorkerPool) QueuedWork() int {
	total := 0
	for _, q := range p.queues {
		total += len(q)
	}
	return total
}
