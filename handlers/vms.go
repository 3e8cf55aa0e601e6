package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/Ambro17/slacker/models"
	"github.com/Ambro17/slacker/tasks"
)

const (
	startUsage    = "Usage: `/start <vm_name> [<another_vm>]`"
	stopUsage     = "Usage: `/stop <vm_name> [<another_vm>]`"
	infoUsage     = "Usage: `/info`"
	redeployUsage = "Usage: `/redeploy <vm> <snapshot_id>`\nCheck `/snapshots` for available options"
)

// vmRegisterCallbackID links the registration dialog submission back to
// the interactivity handler.
const vmRegisterCallbackID = "aws_callback"

// handleRegisterVMs opens the credential registration dialog. The actual
// persistence happens when the dialog submission arrives.
func (h *SlackHandler) handleRegisterVMs(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	dialog := slack.Dialog{
		CallbackID:  vmRegisterCallbackID,
		Title:       "Register your VMs",
		State:       cmd.UserID,
		SubmitLabel: "Save",
		Elements: []slack.DialogElement{
			slack.TextInputElement{
				DialogInput: slack.DialogInput{Type: slack.InputTypeText, Label: "API User", Name: "user"},
			},
			slack.TextInputElement{
				DialogInput: slack.DialogInput{Type: slack.InputTypeText, Label: "API Token", Name: "token"},
			},
			slack.TextInputElement{
				DialogInput: slack.DialogInput{
					Type:        slack.InputTypeTextArea,
					Label:       "VMs information",
					Name:        "vms_info",
					Hint:        "Put your vm alias and ids. One line for each vm",
					Placeholder: "console=5kyq3bdcnl6sbnsv9t6q\nsensor=wwt6adcuow78sj9hj8hi",
				},
			},
		},
	}
	if err := h.oviBot.OpenDialog(ctx, cmd.TriggerID, dialog); err != nil {
		return Reply{}, fmt.Errorf("failed to open registration dialog: %w", err)
	}
	return Ack(), nil
}

// dispatchVMAction validates aliases, loads credentials and enqueues the
// start or stop task.
func (h *SlackHandler) dispatchVMAction(ctx context.Context, cmd models.CommandInvocation, kind tasks.Kind, usage string) (Reply, error) {
	aliases := strings.Fields(cmd.Text)
	if len(aliases) == 0 {
		return Ephemeral(usage), nil
	}

	vmIDs, err := h.vms.ResolveAliases(ctx, cmd.UserID, aliases)
	if err != nil {
		return Reply{}, err
	}
	oviName, oviToken, err := h.vms.Credentials(ctx, cmd.UserID)
	if err != nil {
		return Reply{}, err
	}

	_, err = h.dispatcher.Dispatch(ctx, kind, tasks.VMActionPayload{
		Delivery: tasks.Delivery{User: cmd.UserID, Channel: cmd.ChannelID},
		VMIDs:    vmIDs,
		OviUser:  oviName,
		OviToken: oviToken,
	})
	if err != nil {
		return Reply{}, err
	}
	return Ack(), nil
}

func (h *SlackHandler) handleStartVMs(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	return h.dispatchVMAction(ctx, cmd, tasks.KindStartVMs, startUsage)
}

func (h *SlackHandler) handleStopVMs(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	return h.dispatchVMAction(ctx, cmd, tasks.KindStopVMs, stopUsage)
}

func (h *SlackHandler) handleListVMs(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	oviName, oviToken, err := h.vms.Credentials(ctx, cmd.UserID)
	if err != nil {
		return Reply{}, err
	}
	_, err = h.dispatcher.Dispatch(ctx, tasks.KindListVMs, tasks.ListVMsPayload{
		Delivery: tasks.Delivery{User: cmd.UserID, Channel: cmd.ChannelID},
		OviUser:  oviName,
		OviToken: oviToken,
	})
	if err != nil {
		return Reply{}, err
	}
	return Ack(), nil
}

func (h *SlackHandler) handleRedeployVM(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	args := strings.Fields(cmd.Text)
	if len(args) != 2 {
		return Ephemeral(redeployUsage), nil
	}
	alias, snapshotID := args[0], args[1]

	vmIDs, err := h.vms.ResolveAliases(ctx, cmd.UserID, []string{alias})
	if err != nil {
		return Reply{}, err
	}
	oviName, oviToken, err := h.vms.Credentials(ctx, cmd.UserID)
	if err != nil {
		return Reply{}, err
	}

	_, err = h.dispatcher.Dispatch(ctx, tasks.KindRedeployVM, tasks.RedeployVMPayload{
		Delivery:   tasks.Delivery{User: cmd.UserID, Channel: cmd.ChannelID},
		VMID:       vmIDs[0],
		SnapshotID: snapshotID,
		OviUser:    oviName,
		OviToken:   oviToken,
	})
	if err != nil {
		return Reply{}, err
	}
	return Ack(), nil
}

func (h *SlackHandler) handleSnapshots(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	oviName, oviToken, err := h.vms.Credentials(ctx, cmd.UserID)
	if err != nil {
		return Reply{}, err
	}
	_, err = h.dispatcher.Dispatch(ctx, tasks.KindGetSnapshots, tasks.GetSnapshotsPayload{
		Delivery: tasks.Delivery{User: cmd.UserID, Channel: cmd.ChannelID},
		OviUser:  oviName,
		OviToken: oviToken,
	})
	if err != nil {
		return Reply{}, err
	}
	return Ack(), nil
}
