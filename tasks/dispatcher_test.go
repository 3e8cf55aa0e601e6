package tasks

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t_123", Type: task.Type()}, nil
}

func TestDispatchEnqueuesValidTask(t *testing.T) {
	broker := &fakeEnqueuer{}
	dispatcher := NewDispatcher(broker)

	id, err := dispatcher.Dispatch(context.Background(), KindSendMessage, SendMessagePayload{
		Delivery: Delivery{User: "U1", Channel: "C1"},
		Message:  "hola",
	})

	require.NoError(t, err)
	assert.Equal(t, "t_123", id)
	require.Len(t, broker.tasks, 1)
	assert.Equal(t, "slack:send_message", broker.tasks[0].Type())
	assert.Contains(t, string(broker.tasks[0].Payload()), `"user":"U1"`)
	assert.Contains(t, string(broker.tasks[0].Payload()), `"channel":"C1"`)
}

func TestDispatchRejectsUnknownKind(t *testing.T) {
	broker := &fakeEnqueuer{}
	dispatcher := NewDispatcher(broker)

	_, err := dispatcher.Dispatch(context.Background(), Kind("slack:frobnicate"), SendMessagePayload{
		Delivery: Delivery{User: "U1", Channel: "C1"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown task kind")
	assert.Empty(t, broker.tasks)
}

func TestDispatchRejectsPayloadWithoutDelivery(t *testing.T) {
	broker := &fakeEnqueuer{}
	dispatcher := NewDispatcher(broker)

	_, err := dispatcher.Dispatch(context.Background(), KindSendMessage, SendMessagePayload{
		Delivery: Delivery{User: "U1"},
		Message:  "hola",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing user or channel")
	assert.Empty(t, broker.tasks)
}

func TestParseKindValidatesWireNames(t *testing.T) {
	kind, err := ParseKind("ovi:start_vms")
	require.NoError(t, err)
	assert.Equal(t, KindStartVMs, kind)
	assert.True(t, kind.IsVMKind())

	_, err = ParseKind("ovi:format_disk")
	require.Error(t, err)
}
