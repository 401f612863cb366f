package reconciler

import (
	"context"
	"sync"
	"time"
)

// keyQueue serializes work per Application identity. All fields are guarded
// by mu, and the following hold between calls:
//
//   - a key is listed in order at most once, and pending[key] is the newest
//     request seen for it;
//   - a key in active has been handed to a worker and not yet returned via
//     Done; it is never in order at the same time;
//   - a request for an active key waits in parked and enters order on Done.
//
// So two workers never hold the same key, and a burst of adds for one key
// collapses into a single reconcile with the latest request.
type keyQueue struct {
	mu   sync.Mutex
	cond *sync.Cond

	order   []string
	pending map[string]Request
	active  map[string]struct{}
	parked  map[string]Request
	closed  bool
}

// NewQueue returns an empty ReconcileQueue.
func NewQueue() ReconcileQueue {
	q := &keyQueue{
		pending: make(map[string]Request),
		active:  make(map[string]struct{}),
		parked:  make(map[string]Request),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *keyQueue) Add(req Request) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	key := req.Key()
	if _, busy := q.active[key]; busy {
		q.parked[key] = req
		return
	}
	q.enqueue(key, req)
}

// enqueue must be called with mu held and key not active.
func (q *keyQueue) enqueue(key string, req Request) {
	if _, listed := q.pending[key]; !listed {
		q.order = append(q.order, key)
		q.cond.Signal()
	}
	q.pending[key] = req
}

// Get blocks until a key is ready, the queue is shut down and drained, or
// ctx ends. The returned request must be passed to Done.
func (q *keyQueue) Get(ctx context.Context) (Request, bool) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.order) == 0 && !q.closed && ctx.Err() == nil {
		q.cond.Wait()
	}
	if ctx.Err() != nil || len(q.order) == 0 {
		return Request{}, false
	}

	key := q.order[0]
	q.order[0] = ""
	q.order = q.order[1:]

	req := q.pending[key]
	delete(q.pending, key)
	q.active[key] = struct{}{}
	return req, true
}

func (q *keyQueue) Done(req Request) {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := req.Key()
	delete(q.active, key)
	if next, ok := q.parked[key]; ok {
		delete(q.parked, key)
		if !q.closed {
			q.enqueue(key, next)
		}
	}
}

// Len counts keys ready for a worker; active and parked keys are excluded.
func (q *keyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Shutdown rejects further adds and wakes every blocked Get. Keys already
// listed are still handed out.
func (q *keyQueue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// delayedQueue adds per-key timers on top of a ReconcileQueue. Each key has
// at most one live timer; scheduling again replaces it, and a timer only
// fires if it is still the one recorded in timers.
type delayedQueue struct {
	ReconcileQueue

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
	once   sync.Once
}

// NewDelayedQueue returns a queue that can also schedule adds for later.
func NewDelayedQueue() *delayedQueue {
	return &delayedQueue{
		ReconcileQueue: NewQueue(),
		timers:         make(map[string]*time.Timer),
	}
}

// AddAfter schedules req to be added once delay has passed, replacing any
// earlier schedule for the same key.
func (d *delayedQueue) AddAfter(req Request, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	key := req.Key()
	if old, ok := d.timers[key]; ok {
		old.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		d.mu.Lock()
		current := d.timers[key] == t && !d.closed
		if current {
			delete(d.timers, key)
		}
		d.mu.Unlock()

		if current {
			d.ReconcileQueue.Add(req)
		}
	})
	d.timers[key] = t
}

// Forget drops a scheduled add for req, if any.
func (d *delayedQueue) Forget(req Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := req.Key()
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
}

// Pending counts scheduled adds that have not fired.
func (d *delayedQueue) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Shutdown stops every timer and then the underlying queue. Safe to call
// more than once.
func (d *delayedQueue) Shutdown() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		for key, t := range d.timers {
			t.Stop()
			delete(d.timers, key)
		}
		d.mu.Unlock()

		d.ReconcileQueue.Shutdown()
	})
}
