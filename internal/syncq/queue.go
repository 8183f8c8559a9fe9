// Package syncq mirrors checklist snapshots to a remote endpoint through
// an in-memory FIFO. The queue is fire-and-forget for callers: Enqueue
// never blocks on the network, and a background flusher retries failed
// pushes until they land or the queue is stopped.
package syncq

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/palomera/studyd/internal/model"
)

// RemoteClient pushes a single checklist snapshot. Implementations must
// tolerate the same snapshot arriving more than once; delivery is
// at-least-once.
type RemoteClient interface {
	PushChecklist(ctx context.Context, cl model.Checklist) error
}

const (
	defaultRetryBackoff = 5 * time.Second
	defaultPushTimeout  = 10 * time.Second
)

// Queue buffers checklist snapshots and flushes them in order on a
// background goroutine. Snapshots for the same checklist coalesce:
// enqueueing a newer snapshot replaces the queued one in place, so the
// remote only ever sees the latest state per checklist (last write wins
// by UpdatedAt).
type Queue struct {
	mu      sync.Mutex
	client  RemoteClient
	logger  *slog.Logger
	backoff time.Duration
	timeout time.Duration

	pending []model.Checklist
	notify  chan struct{}

	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
}

func NewQueue(client RemoteClient, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Queue{
		client:  client,
		logger:  logger,
		backoff: defaultRetryBackoff,
		timeout: defaultPushTimeout,
		notify:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Enqueue buffers a snapshot for delivery. If a snapshot for the same
// checklist is already queued, the newer of the two wins and keeps the
// older one's position in the FIFO.
func (q *Queue) Enqueue(cl model.Checklist) {
	q.mu.Lock()
	replaced := false
	for i := range q.pending {
		if q.pending[i].ID == cl.ID {
			if !cl.UpdatedAt.Before(q.pending[i].UpdatedAt) {
				q.pending[i] = cl
			}
			replaced = true
			break
		}
	}
	if !replaced {
		q.pending = append(q.pending, cl)
	}
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Start launches the background flusher. It is a no-op on second call.
func (q *Queue) Start() {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	go q.loop()
}

// Stop shuts the flusher down and waits for it to exit. Snapshots still
// queued are abandoned; the store's durable copy is the source of truth,
// so nothing is lost beyond the mirror lagging.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started || q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()

	close(q.stopCh)
	<-q.doneCh
}

// Len reports the number of snapshots awaiting delivery.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) loop() {
	defer close(q.doneCh)
	for {
		select {
		case <-q.stopCh:
			return
		case <-q.notify:
		}
		if !q.drain() {
			return
		}
	}
}

// drain pushes queued snapshots head-first until the queue is empty or a
// push fails. On failure the snapshot stays at the head and drain backs
// off before retrying, so a later Enqueue of the same checklist can still
// supersede it. Returns false when the queue was stopped mid-drain.
func (q *Queue) drain() bool {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return true
		}
		head := q.pending[0]
		q.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		err := q.client.PushChecklist(ctx, head)
		cancel()

		if err != nil {
			q.logger.Warn("checklist push failed, will retry",
				"checklist_id", head.ID,
				"error", err)
			select {
			case <-q.stopCh:
				return false
			case <-time.After(q.backoff):
			}
			continue
		}

		q.mu.Lock()
		// Pop only if the head was not superseded while the push was in
		// flight; a newer snapshot must still be delivered.
		if len(q.pending) > 0 && q.pending[0].ID == head.ID && !q.pending[0].UpdatedAt.After(head.UpdatedAt) {
			q.pending = q.pending[1:]
		}
		q.mu.Unlock()
	}
}
