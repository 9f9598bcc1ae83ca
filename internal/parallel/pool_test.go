package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// WorkerPool Creation Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}

	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)

		expected := runtime.GOMAXPROCS(0)
		if pool.Workers() != expected {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d (GOMAXPROCS)", n, pool.Workers(), expected)
		}
		pool.Close()
	}
}

// =============================================================================
// Batch Tests
// =============================================================================

func TestBatch_RunsEveryTask(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numTasks := 100

	batch := pool.NewBatch()
	for range numTasks {
		batch.Submit(func() { counter.Add(1) })
	}
	batch.Wait()

	if counter.Load() != int64(numTasks) {
		t.Errorf("counter = %d, want %d", counter.Load(), numTasks)
	}
	if batch.Len() != numTasks {
		t.Errorf("Len() = %d, want %d", batch.Len(), numTasks)
	}
}

func TestBatch_WaitIsBarrier(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	var finished atomic.Int64
	batch := pool.NewBatch()
	for range 6 {
		batch.Submit(func() {
			time.Sleep(10 * time.Millisecond)
			finished.Add(1)
		})
	}
	batch.Wait()

	if finished.Load() != 6 {
		t.Errorf("finished = %d after Wait, want 6", finished.Load())
	}
}

func TestBatch_AllIndicesPresent(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var mu sync.Mutex
	seen := make(map[int]bool)

	batch := pool.NewBatch()
	for i := range 10 {
		batch.Submit(func() {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		})
	}
	batch.Wait()

	for i := range 10 {
		if !seen[i] {
			t.Errorf("missing index %d in results", i)
		}
	}
}

func TestBatch_EmptyWaitReturns(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	batch := pool.NewBatch()
	batch.Submit(nil)

	done := make(chan struct{})
	go func() {
		batch.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait on an empty batch blocked")
	}
	if batch.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (nil tasks are ignored)", batch.Len())
	}
}

func TestBatch_SubmitAfterCloseRunsInline(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	var executed atomic.Bool
	batch := pool.NewBatch()
	batch.Submit(func() { executed.Store(true) })
	batch.Wait()

	if !executed.Load() {
		t.Error("task submitted after Close was not executed")
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)

	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("Pool should not be running after Close")
	}
}

func TestWorkerPool_CloseDrainsQueue(t *testing.T) {
	pool := NewWorkerPool(1)

	var counter atomic.Int64
	batch := pool.NewBatch()
	for range 8 {
		batch.Submit(func() {
			time.Sleep(time.Millisecond)
			counter.Add(1)
		})
	}
	pool.Close()

	if counter.Load() != 8 {
		t.Errorf("counter = %d after Close, want 8", counter.Load())
	}
}

func BenchmarkBatch(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	for i := 0; i < b.N; i++ {
		batch := pool.NewBatch()
		for range 64 {
			batch.Submit(func() {})
		}
		batch.Wait()
	}
}
