package bus

import (
	"context"
	"sync"
)

// Queue serializes all work for one editing session. Tasks run one at a
// time, in the order they were posted, on whichever goroutine consumes the
// queue (Run, or Drain for callers that own the loop themselves).
type Queue struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Post appends fn to the queue. It never blocks.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Call posts fn and waits until it has run.
func (q *Queue) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	q.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Go runs call on its own goroutine and posts done back onto the queue once
// call returns. Completions are applied in the order the calls finish.
func (q *Queue) Go(call func(), done func()) {
	go func() {
		call()
		q.Post(done)
	}()
}

// Drain runs every pending task, including tasks posted while draining, and
// returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
			n++
		}
	}
}

// Run consumes the queue until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) {
	for {
		q.Drain()
		select {
		case <-ctx.Done():
			return
		case <-q.wake:
		}
	}
}

// Len returns the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Inline runs asynchronous work synchronously, completion included. Used
// where there is no loop to hand results back to.
type Inline struct{}

func (Inline) Go(call func(), done func()) {
	call()
	done()
}
