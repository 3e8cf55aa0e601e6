package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ambro17/slacker/clients"
	"github.com/Ambro17/slacker/core"
	"github.com/Ambro17/slacker/notify"
)

func newTestWorker() (*Worker, *clients.MockSlackClient, *clients.MockVMClient, *notify.MockAdminNotifier) {
	slackBot := new(clients.MockSlackClient)
	oviBot := new(clients.MockSlackClient)
	vms := new(clients.MockVMClient)
	admin := &notify.MockAdminNotifier{}
	return NewWorker(slackBot, oviBot, vms, admin), slackBot, vms, admin
}

func mustTask(t *testing.T, kind Kind, payload any) *asynq.Task {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(kind.String(), raw)
}

func TestSendMessageDeliversAndSucceeds(t *testing.T) {
	worker, slackBot, _, admin := newTestWorker()
	slackBot.On("PostMessage", mock.Anything, "C1", "hola").Return(nil)

	task := mustTask(t, KindSendMessage, SendMessagePayload{
		Delivery: Delivery{User: "U1", Channel: "C1"},
		Message:  "hola",
	})
	err := worker.wrapOutcome(KindSendMessage, worker.sendMessage)(context.Background(), task)

	require.NoError(t, err)
	assert.Empty(t, admin.Notifications)
	slackBot.AssertExpectations(t)
}

func TestRejectedRequestNotifiesAdminWithoutRetry(t *testing.T) {
	worker, slackBot, _, admin := newTestWorker()
	slackBot.On("PostMessage", mock.Anything, "C1", "hola").
		Return(core.NewResponseNotOK("chat.postMessage", "channel_not_found"))

	task := mustTask(t, KindSendMessage, SendMessagePayload{
		Delivery: Delivery{User: "U1", Channel: "C1"},
		Message:  "hola",
	})
	err := worker.wrapOutcome(KindSendMessage, worker.sendMessage)(context.Background(), task)

	// The task is acked: retrying an in-body rejection will not fix it.
	require.NoError(t, err)
	require.Len(t, admin.Notifications, 1)
	assert.Contains(t, admin.Notifications[0], "channel_not_found")
}

func TestHandlerErrorNotifiesAdminAndAllowsRetry(t *testing.T) {
	worker, slackBot, _, admin := newTestWorker()
	slackBot.On("PostMessage", mock.Anything, "C1", "hola").
		Return(errors.New("connection reset by peer"))

	task := mustTask(t, KindSendMessage, SendMessagePayload{
		Delivery: Delivery{User: "U1", Channel: "C1"},
		Message:  "hola",
	})
	err := worker.wrapOutcome(KindSendMessage, worker.sendMessage)(context.Background(), task)

	require.Error(t, err)
	require.Len(t, admin.Notifications, 1)
	assert.Contains(t, admin.Notifications[0], "connection reset by peer")
}

func TestBrokenHandlerContractNotifiesAdminExactlyOnce(t *testing.T) {
	worker, slackBot, _, admin := newTestWorker()

	broken := func(context.Context, *asynq.Task) (any, error) {
		return "a plain string is not an outcome", nil
	}
	task := mustTask(t, KindSendMessage, SendMessagePayload{
		Delivery: Delivery{User: "U1", Channel: "C1"},
	})
	err := worker.wrapOutcome(KindSendMessage, broken)(context.Background(), task)

	require.NoError(t, err)
	require.Len(t, admin.Notifications, 1)
	assert.Contains(t, admin.Notifications[0], "instead of an outcome")
	// Nothing reaches the user when the contract is broken.
	slackBot.AssertNotCalled(t, "PostMessage", mock.Anything, mock.Anything, mock.Anything)
	slackBot.AssertNotCalled(t, "PostEphemeral", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVMTaskDeliversRawOutputToUser(t *testing.T) {
	worker, _, vms, admin := newTestWorker()
	vms.On("StartMany", mock.Anything, "ovi_user", "ovi_token", []string{"vm-1", "vm-2"}).
		Return("Started 2 machines ✔️", nil)
	worker.ovi.(*clients.MockSlackClient).
		On("PostEphemeral", mock.Anything, "C1", "U1", "Started 2 machines ✔️").Return(nil)

	task := mustTask(t, KindStartVMs, VMActionPayload{
		Delivery: Delivery{User: "U1", Channel: "C1"},
		VMIDs:    []string{"vm-1", "vm-2"},
		OviUser:  "ovi_user",
		OviToken: "ovi_token",
	})
	err := worker.wrapUserDelivery(KindStartVMs, worker.startVMs)(context.Background(), task)

	require.NoError(t, err)
	assert.Empty(t, admin.Notifications)
	vms.AssertExpectations(t)
	worker.ovi.(*clients.MockSlackClient).AssertExpectations(t)
}

func TestVMTaskFailureDegradesGracefully(t *testing.T) {
	worker, _, vms, admin := newTestWorker()
	vms.On("StartMany", mock.Anything, "ovi_user", "ovi_token", []string{"vm-1"}).
		Return("", errors.New("vm api timed out"))
	oviBot := worker.ovi.(*clients.MockSlackClient)
	oviBot.On("PostEphemeral", mock.Anything, "C1", "U1", "Task failed, try again 🍀").Return(nil)

	task := mustTask(t, KindStartVMs, VMActionPayload{
		Delivery: Delivery{User: "U1", Channel: "C1"},
		VMIDs:    []string{"vm-1"},
		OviUser:  "ovi_user",
		OviToken: "ovi_token",
	})
	err := worker.wrapUserDelivery(KindStartVMs, worker.startVMs)(context.Background(), task)

	require.Error(t, err)
	// Admin gets the internals, the user gets a friendly notice.
	require.Len(t, admin.Notifications, 1)
	assert.Contains(t, admin.Notifications[0], "vm api timed out")
	oviBot.AssertExpectations(t)
}
