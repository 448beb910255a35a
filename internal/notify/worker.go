package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
)

type WorkerConfig struct {
	Concurrency int
}

// Worker consumes notification tasks and hands them to a Sender.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	sender Sender
	logger *slog.Logger
}

func NewWorker(redisOpt asynq.RedisClientOpt, sender Sender, logger *slog.Logger, cfg WorkerConfig) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}

	w := &Worker{
		sender: sender,
		logger: logger,
	}

	w.srv = asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
			},
			Logger: asynqLogger{logger: logger.With(slog.String("component", "asynq"))},
		},
	)

	w.mux = asynq.NewServeMux()
	w.mux.HandleFunc(TypeNotifyTicket, w.HandleTicketTask)

	return w
}

// HandleTicketTask decodes and delivers one event. Malformed payloads are
// skipped rather than retried.
func (w *Worker) HandleTicketTask(ctx context.Context, t *asynq.Task) error {
	var ev Event
	if err := json.Unmarshal(t.Payload(), &ev); err != nil {
		return fmt.Errorf("notify: bad payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.sender.Send(ctx, ev, Format(ev)); err != nil {
		w.logger.Warn("notification not delivered",
			slog.String("type", string(ev.Type)),
			slog.Int64("ticket_id", ev.TicketID),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// Run processes tasks until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("notify.Worker.Run:%w", err)
	}

	<-ctx.Done()
	w.srv.Shutdown()

	return nil
}

type asynqLogger struct {
	logger *slog.Logger
}

func (l asynqLogger) Debug(args ...any) { l.logger.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.logger.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.logger.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.logger.Error(fmt.Sprint(args...)) }

func (l asynqLogger) Fatal(args ...any) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
