package speech

import (
	"sync"
)

// Queue is the execution context completion handlers run on.
type Queue interface {
	Dispatch(fn func())
}

// QueueFunc adapts a function, e.g. a UI toolkit's "run on main thread", to Queue.
type QueueFunc func(fn func())

func (f QueueFunc) Dispatch(fn func()) {
	f(fn)
}

// SerialQueue runs dispatched functions one at a time, in dispatch order, on a single
// goroutine that it owns.
type SerialQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []func()
	closed  bool
	done    chan struct{}
}

func NewSerialQueue() *SerialQueue {
	q := &SerialQueue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Dispatch never blocks on queued work. After Close, fn runs on the calling goroutine instead,
// so a completion handler is never lost.
func (q *SerialQueue) Dispatch(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		fn()
		return
	}
	q.pending = append(q.pending, fn)
	q.cond.Signal()
	q.mu.Unlock()
}

// Close stops accepting work and waits until everything already dispatched has run.
func (q *SerialQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.cond.Signal()
	q.mu.Unlock()
	<-q.done
}

func (q *SerialQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		fn()
	}
}

// sharedQueue exposes only Dispatch, so holders of the default queue cannot close it.
type sharedQueue struct {
	q *SerialQueue
}

func (s sharedQueue) Dispatch(fn func()) {
	s.q.Dispatch(fn)
}

var (
	defaultQueue     Queue
	defaultQueueOnce sync.Once
)

// DefaultQueue is the process-wide serial queue used when a synthesizer is not given one.
// It is shared, so it is only handed out as a Queue and cannot be closed.
func DefaultQueue() Queue {
	defaultQueueOnce.Do(func() {
		defaultQueue = sharedQueue{q: NewSerialQueue()}
	})
	return defaultQueue
}
