package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer is the slice of the broker client the dispatcher needs.
// *asynq.Client satisfies it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher validates payloads and hands tasks to the broker. It is safe
// for concurrent use by the webhook handlers.
type Dispatcher struct {
	broker Enqueuer
}

func NewDispatcher(broker Enqueuer) *Dispatcher {
	return &Dispatcher{broker: broker}
}

// Dispatch enqueues a task of the given kind and returns the broker's task
// id. The kind must be registered and the payload must name the user and
// channel the task reports to.
func (d *Dispatcher) Dispatch(ctx context.Context, kind Kind, payload Payload) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("cannot dispatch unknown task kind %q", kind)
	}
	delivery := payload.DeliveryInfo()
	if delivery.User == "" || delivery.Channel == "" {
		return "", fmt.Errorf("cannot dispatch %s: payload is missing user or channel", kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}

	opts := []asynq.Option{asynq.MaxRetry(3), asynq.Timeout(2 * time.Minute)}
	if kind.IsVMKind() {
		// A redelivered VM action would run twice against real machines.
		opts = []asynq.Option{asynq.MaxRetry(0), asynq.Timeout(5 * time.Minute)}
	}

	info, err := d.broker.EnqueueContext(ctx, asynq.NewTask(kind.String(), raw), opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue %s: %w", kind, err)
	}

	log.Printf("📨 Enqueued task %s (%s) for user %s in channel %s", info.ID, kind, delivery.User, delivery.Channel)
	return info.ID, nil
}
