package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

func (w *Worker) startVMs(ctx context.Context, t *asynq.Task) (string, error) {
	var p VMActionPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return "", fmt.Errorf("failed to decode start_vms payload: %w", err)
	}
	return w.vms.StartMany(ctx, p.OviUser, p.OviToken, p.VMIDs)
}

func (w *Worker) stopVMs(ctx context.Context, t *asynq.Task) (string, error) {
	var p VMActionPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return "", fmt.Errorf("failed to decode stop_vms payload: %w", err)
	}
	return w.vms.StopMany(ctx, p.OviUser, p.OviToken, p.VMIDs)
}

func (w *Worker) listVMs(ctx context.Context, t *asynq.Task) (string, error) {
	var p ListVMsPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return "", fmt.Errorf("failed to decode list_vms payload: %w", err)
	}
	return w.vms.ListVMs(ctx, p.OviUser, p.OviToken)
}

func (w *Worker) redeployVM(ctx context.Context, t *asynq.Task) (string, error) {
	var p RedeployVMPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return "", fmt.Errorf("failed to decode redeploy_vm payload: %w", err)
	}
	return w.vms.Redeploy(ctx, p.OviUser, p.OviToken, p.VMID, p.SnapshotID)
}

func (w *Worker) getSnapshots(ctx context.Context, t *asynq.Task) (string, error) {
	var p GetSnapshotsPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return "", fmt.Errorf("failed to decode get_redeploy_snapshots payload: %w", err)
	}
	return w.vms.Snapshots(ctx, p.OviUser, p.OviToken)
}
