package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/Ambro17/slacker/clients"
	"github.com/Ambro17/slacker/notify"
)

// slackTaskFunc is a Slack delivery handler. It returns its result as any
// so the wrapper can police the Outcome contract the way the dispatching
// tier expects; a handler that returns something other than an Outcome is
// a bug the admin hears about.
type slackTaskFunc func(ctx context.Context, t *asynq.Task) (any, error)

// vmTaskFunc is a VM lifecycle handler. Its string output is delivered
// verbatim to the requesting user as an ephemeral message.
type vmTaskFunc func(ctx context.Context, t *asynq.Task) (string, error)

// Worker executes broker tasks. The producer process never constructs one;
// it lives in the worker binary next to an asynq server.
type Worker struct {
	slack clients.SlackClient
	ovi   clients.SlackClient
	vms   clients.VMClient
	admin notify.AdminNotifier
}

// NewWorker wires the worker's outbound clients. oviBot is the identity
// used for VM result delivery; pass the main bot if there is no dedicated
// one.
func NewWorker(slackBot, oviBot clients.SlackClient, vms clients.VMClient, admin notify.AdminNotifier) *Worker {
	return &Worker{
		slack: slackBot,
		ovi:   oviBot,
		vms:   vms,
		admin: admin,
	}
}

// Register binds every task kind to its handler. The wire names here are
// the same Kind registry the dispatcher validates against.
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(KindSendMessage.String(), w.wrapOutcome(KindSendMessage, w.sendMessage))
	mux.HandleFunc(KindSendEphemeral.String(), w.wrapOutcome(KindSendEphemeral, w.sendEphemeral))
	mux.HandleFunc(KindSendBlocks.String(), w.wrapOutcome(KindSendBlocks, w.sendBlocks))
	mux.HandleFunc(KindUploadFile.String(), w.wrapOutcome(KindUploadFile, w.uploadFile))

	mux.HandleFunc(KindStartVMs.String(), w.wrapUserDelivery(KindStartVMs, w.startVMs))
	mux.HandleFunc(KindStopVMs.String(), w.wrapUserDelivery(KindStopVMs, w.stopVMs))
	mux.HandleFunc(KindListVMs.String(), w.wrapUserDelivery(KindListVMs, w.listVMs))
	mux.HandleFunc(KindRedeployVM.String(), w.wrapUserDelivery(KindRedeployVM, w.redeployVM))
	mux.HandleFunc(KindGetSnapshots.String(), w.wrapUserDelivery(KindGetSnapshots, w.getSnapshots))
}

// wrapOutcome runs a Slack delivery handler and routes every failure mode
// to the admin channel: handler errors, contract violations, and not-ok
// outcomes. Only handler errors are surfaced to the broker for retry.
func (w *Worker) wrapOutcome(kind Kind, fn slackTaskFunc) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		taskID, _ := asynq.GetTaskID(ctx)

		ret, err := fn(ctx, t)
		if err != nil {
			log.Printf("❌ Task %s (%s) failed: %v", taskID, kind, err)
			w.tellAdmin(ctx, fmt.Sprintf(
				"Exception on %s.\nTask id: %s\nError: %v\nPayload: %s",
				kind, taskID, err, t.Payload(),
			))
			return err
		}

		outcome, ok := ret.(Outcome)
		if !ok {
			// Broken handler, not a transient failure. Page the admin and
			// ack the task so the broker does not retry a bug.
			log.Printf("❌ Task %s (%s) returned %T instead of an outcome", taskID, kind, ret)
			w.tellAdmin(ctx, fmt.Sprintf(
				"Task %s returned %#v instead of an outcome.\nTask id: %s\nPayload: %s",
				kind, ret, taskID, t.Payload(),
			))
			return nil
		}

		if !outcome.OK {
			log.Printf("⚠️ Task %s (%s) completed not-ok: %s", taskID, kind, outcome.Detail)
			w.tellAdmin(ctx, fmt.Sprintf("Task %s completed with a rejected request.\n%s", kind, outcome.Detail))
			return nil
		}

		log.Printf("✅ Task %s (%s) completed successfully", taskID, kind)
		return nil
	}
}

// wrapUserDelivery runs a VM handler and delivers its raw output to the
// requesting user. On failure the admin gets the full detail and the user
// gets a friendly degraded message without internals.
func (w *Worker) wrapUserDelivery(kind Kind, fn vmTaskFunc) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		taskID, _ := asynq.GetTaskID(ctx)

		var delivery Delivery
		if err := json.Unmarshal(t.Payload(), &delivery); err != nil {
			w.tellAdmin(ctx, fmt.Sprintf("Undeliverable %s task %s: %v\nPayload: %s", kind, taskID, err, t.Payload()))
			return fmt.Errorf("failed to decode %s delivery info: %w", kind, err)
		}

		out, err := fn(ctx, t)
		if err != nil {
			log.Printf("❌ Task %s (%s) failed: %v", taskID, kind, err)
			w.tellAdmin(ctx, fmt.Sprintf(
				"Exception on %s.\nTask id: %s\nError: %v\nPayload: %s",
				kind, taskID, err, t.Payload(),
			))
			if derr := w.ovi.PostEphemeral(ctx, delivery.Channel, delivery.User, "Task failed, try again 🍀"); derr != nil {
				log.Printf("⚠️ Could not deliver failure notice for task %s: %v", taskID, derr)
			}
			return err
		}

		if err := w.ovi.PostEphemeral(ctx, delivery.Channel, delivery.User, out); err != nil {
			w.tellAdmin(ctx, fmt.Sprintf("Could not deliver %s result to %s: %v", kind, delivery.User, err))
			return fmt.Errorf("failed to deliver %s result: %w", kind, err)
		}

		log.Printf("✅ Task %s (%s) delivered to user %s", taskID, kind, delivery.User)
		return nil
	}
}

// tellAdmin forwards a failure to the admin channel. Notification problems
// are logged and swallowed so error routing never masks the original
// failure.
func (w *Worker) tellAdmin(ctx context.Context, detail string) {
	if err := w.admin.NotifyError(ctx, detail); err != nil {
		log.Printf("⚠️ Failed to notify admin: %v", err)
	}
}
