package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ambro17/slacker/models"
	"github.com/Ambro17/slacker/rooms"
	"github.com/Ambro17/slacker/tasks"
	"github.com/Ambro17/slacker/utils"
)

// handleRoomsAuthorize shares the consent url with the invoking user.
func (h *SlackHandler) handleRoomsAuthorize(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	url := h.calendar.AuthorizationURL()
	msg := fmt.Sprintf(
		"Visit the following url to get the authorization code:\n%s\nThen enter the auth code via `/set_token <auth_code>`",
		url,
	)
	if err := h.oviBot.PostEphemeral(ctx, cmd.ChannelID, cmd.UserID, msg); err != nil {
		return Reply{}, fmt.Errorf("failed to share authorization url: %w", err)
	}
	return Ack(), nil
}

func (h *SlackHandler) handleRoomsSetToken(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	code := strings.TrimSpace(cmd.Text)
	if code == "" {
		return Ephemeral("Usage: /set_token <my_auth_code>"), nil
	}
	if err := h.calendar.SetToken(ctx, code); err != nil {
		return Reply{}, err
	}
	return Ephemeral(":check: Success!"), nil
}

func (h *SlackHandler) handleFindFreeRooms(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	freeRooms, err := h.calendar.FreeRooms(ctx, strings.Fields(cmd.Text))
	if err != nil {
		return Reply{}, err
	}
	if freeRooms == "" {
		return Ephemeral("No available rooms right now.. Try `/find_free_rooms --all`"), nil
	}
	msg := fmt.Sprintf(
		"_*Available rooms:*_\n%s\n_To know the location of a room run_ `/whereis <room_name>`",
		freeRooms,
	)
	return Ephemeral(msg), nil
}

// handleWhereIs marks the room on its floor map.
func (h *SlackHandler) handleWhereIs(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	roomName := strings.TrimSpace(cmd.Text)
	if roomName == "" {
		return Ephemeral("Specify a room. To show office map run `/office_map`"), nil
	}
	room, err := rooms.RoomByName(roomName)
	if err != nil {
		return Reply{}, err
	}
	return Ephemeral(utils.Monospace(room.LocationMap())), nil
}

// handleOfficeMap uploads the full office layout through the worker.
func (h *SlackHandler) handleOfficeMap(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	_, err := h.dispatcher.Dispatch(ctx, tasks.KindUploadFile, tasks.UploadFilePayload{
		Delivery: tasks.Delivery{User: cmd.UserID, Channel: cmd.ChannelID},
		Filename: "office_map.txt",
		Comment:  "Office map",
		Content:  []byte(rooms.OfficeMap),
	})
	if err != nil {
		return Reply{}, err
	}
	return Ephemeral("Drawing map... :clock4:"), nil
}
