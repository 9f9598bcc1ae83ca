package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines pulling tasks from a shared queue.
//
// Tasks carry no ordering guarantee among themselves. Group them in a Batch
// to wait for a known set of tasks.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// queue holds pending tasks.
	queue chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool

	// closeMu orders Close against in-flight sends to queue.
	closeMu sync.RWMutex
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), queueSize),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case work := <-p.queue:
			work()
		case <-p.done:
			// Drain remaining work before exiting
			for {
				select {
				case work := <-p.queue:
					work()
				default:
					return
				}
			}
		}
	}
}

// submit queues fn. It reports false when the pool no longer accepts work.
func (p *WorkerPool) submit(fn func()) bool {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()

	if !p.IsRunning() {
		return false
	}
	p.queue <- fn
	return true
}

// Close gracefully shuts down the pool.
// It stops accepting new work, runs everything already queued,
// and then stops all workers.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.closeMu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.closeMu.Unlock()
		return
	}
	close(p.done)
	p.closeMu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// Batch is a group of tasks submitted to one pool that can be waited on as a
// whole.
type Batch struct {
	pool *WorkerPool
	wg   sync.WaitGroup
	n    atomic.Int64
}

// NewBatch returns an empty batch bound to p.
func (p *WorkerPool) NewBatch() *Batch {
	return &Batch{pool: p}
}

// Submit schedules fn on the pool. When the pool is closed fn runs on the
// calling goroutine, so every submitted task always runs exactly once.
func (b *Batch) Submit(fn func()) {
	if fn == nil {
		return
	}
	b.wg.Add(1)
	b.n.Add(1)
	wrapped := func() {
		defer b.wg.Done()
		fn()
	}
	if !b.pool.submit(wrapped) {
		wrapped()
	}
}

// Wait blocks until every task submitted so far has returned.
func (b *Batch) Wait() {
	b.wg.Wait()
}

// Len returns the number of tasks submitted to the batch.
func (b *Batch) Len() int {
	return int(b.n.Load())
}
