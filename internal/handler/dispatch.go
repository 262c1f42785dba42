package handler

import (
	"sync"

	"slack_scribe/internal/logger"

	"go.uber.org/zap"
)

// Pool is a bounded fire-and-forget work queue consumed by a fixed set of
// workers. Nothing is awaited by callers; failures surface through logging
// only. A saturated queue drops new tasks rather than blocking the webhook
// response path.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
}

func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{tasks: make(chan func(), queueSize)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetLogger().Error("dispatch task panicked", zap.Any("panic", r))
		}
	}()
	task()
}

// Submit enqueues a task, reporting false when the queue is full.
func (p *Pool) Submit(task func()) bool {
	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

// Close stops accepting tasks and waits for in-flight ones to finish.
func (p *Pool) Close() {
	close(p.tasks)
	p.wg.Wait()
}
