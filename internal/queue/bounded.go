package queue

import "sync"

// Bounded is a thread-safe fixed-capacity FIFO with blocking push/pop.
//
// Items are stored in a ring buffer allocated once at construction, so the
// queue never grows past its capacity regardless of producer speed.
type Bounded[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	buf     []T
	head    int // index of the oldest item
	size    int
	stopped bool
}

// New creates a queue holding at most capacity items.
// A capacity below 1 is raised to 1.
func New[T any](capacity int) *Bounded[T] {
	if capacity < 1 {
		capacity = 1
	}
	q := &Bounded[T]{buf: make([]T, capacity)}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push appends item, blocking while the queue is full.
// Returns false, without enqueuing, if the queue is or becomes stopped.
func (q *Bounded[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size == len(q.buf) && !q.stopped {
		q.notFull.Wait()
	}
	if q.stopped {
		return false
	}

	q.put(item)
	q.notEmpty.Signal()
	return true
}

// PushBatch appends items in order, blocking whenever the queue is full.
//
// Items are moved in chunks as capacity frees up and consumers are woken after
// every chunk, so a batch larger than the capacity still makes progress.
// Returns the number of items enqueued; it is less than len(items) only when
// the queue was stopped mid-batch.
func (q *Bounded[T]) PushBatch(items []T) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	pushed := 0
	for pushed < len(items) {
		for q.size == len(q.buf) && !q.stopped {
			q.notFull.Wait()
		}
		if q.stopped {
			return pushed
		}

		free := len(q.buf) - q.size
		for free > 0 && pushed < len(items) {
			q.put(items[pushed])
			pushed++
			free--
		}
		q.notEmpty.Broadcast()
	}
	return pushed
}

// PopBatch removes and returns between 1 and limit items, blocking while the
// queue is empty. It returns as soon as any item is available rather than
// waiting for a full batch.
//
// Returns nil once the queue is stopped and drained.
func (q *Bounded[T]) PopBatch(limit int) []T {
	if limit < 1 {
		limit = 1
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size == 0 && !q.stopped {
		q.notEmpty.Wait()
	}
	if q.size == 0 {
		return nil
	}

	n := min(limit, q.size)
	out := make([]T, n)
	var zero T
	for i := range out {
		out[i] = q.buf[q.head]
		// Clear the slot so the ring does not pin popped values.
		q.buf[q.head] = zero
		q.head = (q.head + 1) % len(q.buf)
	}
	q.size -= n

	q.notFull.Broadcast()
	return out
}

// Stop marks the queue stopped and wakes every blocked producer and consumer.
// Safe to call more than once and from any goroutine; never blocks on queue
// capacity.
func (q *Bounded[T]) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return
	}
	q.stopped = true
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// Stopped reports whether Stop has been called.
func (q *Bounded[T]) Stopped() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stopped
}

// Len returns the number of queued items.
func (q *Bounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the fixed capacity.
func (q *Bounded[T]) Cap() int {
	return len(q.buf)
}

// put stores item at the tail. Caller holds mu and has checked for space.
func (q *Bounded[T]) put(item T) {
	tail := (q.head + q.size) % len(q.buf)
	q.buf[tail] = item
	q.size++
}
