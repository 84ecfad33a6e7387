// Package workerpool runs queued jobs over a fixed set of workers.
package workerpool

import "sync"

// Job is a unit of work submitted to a Pool.
type Job func() error

// Pool executes jobs on a fixed number of worker goroutines. Jobs run in the
// order added; the first job error is retained and returned by Wait.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Job
	active  int
	stopped bool
	err     error
}

// New starts a pool with the given number of workers.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Add enqueues jobs without blocking the caller.
func (p *Pool) Add(jobs []Job) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.queue = append(p.queue, jobs...)
	p.cond.Broadcast()
}

// AddBlocking enqueues jobs one at a time, waiting whenever the backlog
// exceeds the number of pending workers. It keeps memory bounded when feeding
// very large job lists.
func (p *Pool) AddBlocking(jobs []Job) {
	for _, j := range jobs {
		p.mu.Lock()
		for len(p.queue) > 2*p.active+1 && !p.stopped {
			p.cond.Wait()
		}
		if p.stopped {
			p.mu.Unlock()
			return
		}
		p.queue = append(p.queue, j)
		p.cond.Broadcast()
		p.mu.Unlock()
	}
}

// Wait blocks until every added job has finished (or Stop discards the
// backlog) and returns the first job error.
func (p *Pool) Wait() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for !p.stopped && (len(p.queue) > 0 || p.active > 0) {
		p.cond.Wait()
	}
	for p.active > 0 {
		p.cond.Wait()
	}
	return p.err
}

// Stop discards pending jobs and releases the workers. Jobs already running
// finish normally.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	p.queue = nil
	p.cond.Broadcast()
}

func (p *Pool) worker() {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.stopped {
			p.cond.Wait()
		}
		if p.stopped && len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		job := p.queue[0]
		p.queue = p.queue[1:]
		p.active++
		p.mu.Unlock()

		err := job()

		p.mu.Lock()
		p.active--
		if err != nil && p.err == nil {
			p.err = err
		}
		p.cond.Broadcast()
		p.mu.Unlock()
	}
}
