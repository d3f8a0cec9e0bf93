package reminder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Sender delivers a rendered reminder to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSender only logs. Used until a messaging provider is configured.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Send(_ context.Context, phone, message string) error {
	s.Log.Info("reminder", zap.String("phone", phone), zap.String("message", message))
	return nil
}

type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(opt asynq.RedisConnOpt, sender Sender, log *zap.Logger) *Worker {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{queueName: 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSendReminder, HandleSend(sender, log))

	return &Worker{srv: srv, mux: mux}
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	return w.srv.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func HandleSend(sender Sender, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p Payload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Error("invalid reminder payload", zap.Error(err))
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := sender.Send(ctx, p.Phone, p.Message); err != nil {
			log.Warn("reminder send failed",
				zap.String("appointment_id", p.AppointmentID),
				zap.Error(err),
			)
			return err
		}
		return nil
	}
}
