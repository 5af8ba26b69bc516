package d3xx

import (
	"context"
	"sync"

	"github.com/eapache/queue"
	"github.com/pkg/errors"
)

// ErrQueueClosed is returned by EventQueue.Next after Close.
var ErrQueueClosed = errors.New("d3xx: event queue closed")

// EventQueue buffers notifications between the driver's
// callback thread and consumer goroutines.
//
// The trampoline must return quickly and must never block on
// the consumer, so the queue is unbounded: the producer side
// only appends, and consumers drain at their own pace with
// Next.
type EventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	events *queue.Queue
	closed bool
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{events: queue.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Callback returns a NotificationCallback that enqueues every
// notification it receives. Pass it to SetNotificationCallback
// to feed the queue from the driver thread.
func (q *EventQueue) Callback() NotificationCallback {
	return func(n Notification) {
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.closed {
			return
		}
		q.events.Add(n)
		q.cond.Signal()
	}
}

// Next blocks until a notification is available, the queue is
// closed, or the context is cancelled. Buffered notifications
// drain in arrival order even after Close.
func (q *EventQueue) Next(ctx context.Context) (Notification, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		q.cond.Broadcast()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.events.Length() == 0 {
		if err := ctx.Err(); err != nil {
			return Notification{}, err
		}
		if q.closed {
			return Notification{}, ErrQueueClosed
		}
		q.cond.Wait()
	}
	return q.events.Remove().(Notification), nil
}

// Len reports the number of buffered notifications.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.events.Length()
}

// Close stops the queue: producers become no-ops and, once the
// buffer drains, Next returns ErrQueueClosed.
func (q *EventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
