package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeNotifyTicket = "notify:ticket"

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// NewTicketTask encodes ev as a notification task. Being called is urgent;
// everything else goes to the default queue.
func NewTicketTask(ev Event) (*asynq.Task, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}

	queue := QueueDefault
	if ev.Type == EventTicketCalled {
		queue = QueueCritical
	}

	return asynq.NewTask(
		TypeNotifyTicket,
		payload,
		asynq.MaxRetry(0),
		asynq.Queue(queue),
	), nil
}

// TaskEmitter enqueues events for the Worker.
type TaskEmitter struct {
	client *asynq.Client
}

func NewTaskEmitter(client *asynq.Client) *TaskEmitter {
	return &TaskEmitter{client: client}
}

func (e *TaskEmitter) Emit(ctx context.Context, ev Event) error {
	const op = "notify.TaskEmitter.Emit"

	task, err := NewTicketTask(ev)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// InlineEmitter delivers in the caller's goroutine, without a queue.
type InlineEmitter struct {
	sender Sender
}

func NewInlineEmitter(sender Sender) *InlineEmitter {
	return &InlineEmitter{sender: sender}
}

func (e *InlineEmitter) Emit(ctx context.Context, ev Event) error {
	return e.sender.Send(ctx, ev, Format(ev))
}
