package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines executing independent work items.
//
// Frame rendering is embarrassingly parallel: every frame of a transition
// is a pure function of its sampled positions. ExecuteAll fans a batch out
// across the workers and returns once every item has finished or been
// skipped because the batch's context was cancelled.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queue   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// submitMu keeps Close from racing a batch that is still being queued.
	submitMu sync.RWMutex
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), workers*4),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			p.drain()
			return
		case work := <-p.queue:
			work()
		}
	}
}

// drain runs whatever is left in the queue.
func (p *WorkerPool) drain() {
	for {
		select {
		case work := <-p.queue:
			work()
		default:
			return
		}
	}
}

// ExecuteAll runs every item of work and waits for all of them.
// Items not yet started when ctx is cancelled are skipped, and the
// context error is returned. If the pool is closed, the items run on the
// calling goroutine.
func (p *WorkerPool) ExecuteAll(ctx context.Context, work []func()) error {
	if len(work) == 0 {
		return ctx.Err()
	}

	var wg sync.WaitGroup
	wg.Add(len(work))

	p.submitMu.RLock()
	if !p.running.Load() {
		p.submitMu.RUnlock()
		for _, fn := range work {
			if ctx.Err() == nil {
				fn()
			}
			wg.Done()
		}
		return ctx.Err()
	}

	for i, fn := range work {
		wrapped := func() {
			defer wg.Done()
			if ctx.Err() == nil {
				fn()
			}
		}

		select {
		case p.queue <- wrapped:
		case <-ctx.Done():
			// Items i.. were never queued.
			wg.Add(i - len(work))
			p.submitMu.RUnlock()
			wg.Wait()
			return ctx.Err()
		}
	}
	p.submitMu.RUnlock()

	wg.Wait()
	return ctx.Err()
}

// Close stops the workers once every queued item has run.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.submitMu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.submitMu.Unlock()
		return
	}
	close(p.done)
	p.submitMu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}
