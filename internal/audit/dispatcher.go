package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/studio-booking/internal/models"
)

type Event struct {
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Recorder is what use cases emit audit events through.
type Recorder interface {
	Dispatch(ev Event)
}

type Nop struct{}

func (Nop) Dispatch(Event) {}

// Dispatcher writes events on a background worker so a slow sink never
// holds up a request.
type Dispatcher struct {
	sink  Sink
	log   *zap.Logger
	now   func() time.Time
	queue chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sink Sink, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}

	d := &Dispatcher{
		sink:  sink,
		log:   log,
		now:   time.Now,
		queue: make(chan Event, 100), // buffer seguro
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.sink.Write(context.Background(), toRow(ev, d.now())); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.String("entity_id", ev.EntityID),
				zap.Error(err),
			)
		}
	}
}

// Dispatch never blocks: with a full queue the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List exposes the sink's listing for the audit log endpoint.
func (d *Dispatcher) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	return d.sink.List(ctx, f)
}
