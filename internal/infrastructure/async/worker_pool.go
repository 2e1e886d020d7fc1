package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool is shut down")

type Task func(ctx context.Context)

// WorkerPool runs tasks on a fixed number of goroutines. Each task gets its
// own deadline and a panic in one task never takes the worker down.
type WorkerPool struct {
	tasks   chan Task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	log     *zap.Logger

	mu     sync.RWMutex
	closed bool
}

func NewWorkerPool(parent context.Context, size int, timeout time.Duration, log *zap.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(parent)
	p := &WorkerPool{
		tasks:   make(chan Task, size),
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
		log:     log.With(zap.String("component", "worker_pool")),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for task := range p.tasks {
		safeCtx, cancel := context.WithTimeout(p.ctx, p.timeout)
		func() {
			defer func() {
				if r := recover(); r != nil {
					p.log.Error("task panicked", zap.Int("worker", id), zap.Any("panic", r))
				}
			}()
			task(safeCtx)
		}()
		cancel()
	}
}

// Submit queues task. It blocks while every worker is busy and the queue is
// full, until ctx is done.
func (p *WorkerPool) Submit(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

// Shutdown stops accepting tasks, lets queued tasks finish and waits for the
// workers to exit.
func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}
