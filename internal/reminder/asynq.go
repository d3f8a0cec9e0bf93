package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const queueName = "reminders"

// AsynqScheduler keeps reminders as scheduled asynq tasks with
// deterministic ids, so cancelling needs no bookkeeping of its own.
type AsynqScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	tmpl      Template
	offsets   []time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func NewAsynqScheduler(opt asynq.RedisConnOpt, tmpl Template, offsets []time.Duration, log *zap.Logger) *AsynqScheduler {
	return &AsynqScheduler{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		tmpl:      tmpl,
		offsets:   offsets,
		now:       time.Now,
		log:       log,
	}
}

func (s *AsynqScheduler) Schedule(ctx context.Context, b Booking) error {
	for _, r := range Plan(b, s.tmpl, s.offsets, s.now()) {
		task, err := newTask(r)
		if err != nil {
			return err
		}

		_, err = s.client.EnqueueContext(ctx, task,
			asynq.ProcessAt(r.FireAt),
			asynq.TaskID(r.TaskID),
			asynq.Queue(queueName),
			asynq.MaxRetry(3),
		)
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("enqueue %s: %w", r.TaskID, err)
		}

		s.log.Debug("reminder scheduled",
			zap.String("task_id", r.TaskID),
			zap.Time("fire_at", r.FireAt),
		)
	}
	return nil
}

func (s *AsynqScheduler) Cancel(_ context.Context, appointmentID string) error {
	for _, off := range s.offsets {
		id := TaskID(appointmentID, off)
		err := s.inspector.DeleteTask(queueName, id)
		if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			continue
		}
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

func (s *AsynqScheduler) Close() error {
	if err := s.inspector.Close(); err != nil {
		return err
	}
	return s.client.Close()
}

var _ Scheduler = (*AsynqScheduler)(nil)
