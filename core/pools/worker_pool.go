package pools

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrPoolClosed is returned by Submit after Shutdown
var ErrPoolClosed = errors.New("worker pool is shut down")

// Task represents a unit of work
type Task func()

// WorkerPool runs submitted tasks on at most N goroutines at a time.
// Submit blocks while all N slots are busy; there is no queue beyond that.
type WorkerPool struct {
	numWorkers int
	slots      chan struct{}
	quit       chan struct{}
	logger     zerolog.Logger

	mu       sync.Mutex
	closed   bool
	inFlight sync.WaitGroup

	stats struct {
		tasksSubmitted atomic.Uint64
		tasksCompleted atomic.Uint64
		tasksRejected  atomic.Uint64
		tasksPanicked  atomic.Uint64
	}
}

// NewWorkerPool creates a pool of numWorkers slots.
// numWorkers <= 0 means one slot per CPU.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		slots:      make(chan struct{}, numWorkers),
		quit:       make(chan struct{}),
		logger:     zerolog.Nop(),
	}
}

// WithLogger sets the logger recovered task panics are reported to.
// Call it before the first Submit.
func (p *WorkerPool) WithLogger(logger zerolog.Logger) *WorkerPool {
	p.logger = logger
	return p
}

// Submit runs task on a free slot, waiting for one if necessary.
// It fails with ErrPoolClosed once the pool is shut down, including while
// waiting for a slot.
func (p *WorkerPool) Submit(task Task) error {
	select {
	case p.slots <- struct{}{}:
	case <-p.quit:
		p.stats.tasksRejected.Add(1)
		return ErrPoolClosed
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.slots
		p.stats.tasksRejected.Add(1)
		return ErrPoolClosed
	}
	p.inFlight.Add(1)
	p.mu.Unlock()

	p.stats.tasksSubmitted.Add(1)
	go p.run(task)

	return nil
}

func (p *WorkerPool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.stats.tasksPanicked.Add(1)
			p.logger.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("task panicked")
		}
		p.stats.tasksCompleted.Add(1)
		<-p.slots
		p.inFlight.Done()
	}()

	task()
}

// Shutdown stops accepting tasks. Tasks already running are left to
// finish; use Wait to block until they do. Calling it more than once is
// harmless.
func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.quit)
}

// Wait blocks until every submitted task has returned or ctx is done.
// Call it after Shutdown.
func (p *WorkerPool) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns pool statistics
func (p *WorkerPool) Stats() WorkerPoolStats {
	completed := p.stats.tasksCompleted.Load()
	submitted := p.stats.tasksSubmitted.Load()

	return WorkerPoolStats{
		NumWorkers:     p.numWorkers,
		TasksSubmitted: submitted,
		TasksCompleted: completed,
		TasksRunning:   submitted - completed,
		TasksRejected:  p.stats.tasksRejected.Load(),
		TasksPanicked:  p.stats.tasksPanicked.Load(),
	}
}

// WorkerPoolStats contains pool statistics
type WorkerPoolStats struct {
	NumWorkers     int    `json:"num_workers"`
	TasksSubmitted uint64 `json:"tasks_submitted"`
	TasksCompleted uint64 `json:"tasks_completed"`
	TasksRunning   uint64 `json:"tasks_running"`
	TasksRejected  uint64 `json:"tasks_rejected"`
	TasksPanicked  uint64 `json:"tasks_panicked"`
}
