// Package handlers terminates the inbound webhook surface: slash
// commands, event callbacks and interactive component callbacks. Commands
// resolve synchronously through the reply envelope; anything slow is
// handed to the task dispatcher and acked immediately.
package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/slack-go/slack"

	"github.com/Ambro17/slacker/clients"
	"github.com/Ambro17/slacker/core"
	"github.com/Ambro17/slacker/models"
	"github.com/Ambro17/slacker/notify"
	"github.com/Ambro17/slacker/services"
	"github.com/Ambro17/slacker/tasks"
)

// TaskDispatcher is the slice of the broker producer the handlers need.
// *tasks.Dispatcher satisfies it.
type TaskDispatcher interface {
	Dispatch(ctx context.Context, kind tasks.Kind, payload tasks.Payload) (string, error)
}

// Skill interfaces mirror the skills package so tests can stub upstream
// APIs without an HTTP server.
type HolidaysSkill interface {
	Remaining(ctx context.Context) string
}

type SubteSkill interface {
	Status(ctx context.Context) string
}

type MenuSkill interface {
	Weekly(ctx context.Context) string
	ByDay(ctx context.Context, day string) string
	Specials(ctx context.Context) string
}

type DolarSkill interface {
	Rates(ctx context.Context) string
}

// RoomsCalendar is the consent-flow plus free-rooms surface of
// rooms.Calendar.
type RoomsCalendar interface {
	AuthorizationURL() string
	SetToken(ctx context.Context, code string) error
	FreeRooms(ctx context.Context, args []string) (string, error)
}

// CommandHandler answers one slash command invocation.
type CommandHandler func(ctx context.Context, cmd models.CommandInvocation) (Reply, error)

// SlackHandler routes every inbound webhook to its command, event or
// interaction handler.
type SlackHandler struct {
	bot        clients.SlackClient
	oviBot     clients.SlackClient
	dispatcher TaskDispatcher
	admin      notify.AdminNotifier

	users    services.UsersService
	polls    services.PollsService
	stickers services.StickersService
	retro    services.RetroService
	vms      services.VMsService

	holidays HolidaysSkill
	subte    SubteSkill
	menu     MenuSkill
	dolar    DolarSkill
	calendar RoomsCalendar

	commands map[string]CommandHandler
}

// SlackHandlerParams carries the handler's collaborators.
type SlackHandlerParams struct {
	Bot        clients.SlackClient
	OviBot     clients.SlackClient
	Dispatcher TaskDispatcher
	Admin      notify.AdminNotifier

	Users    services.UsersService
	Polls    services.PollsService
	Stickers services.StickersService
	Retro    services.RetroService
	VMs      services.VMsService

	Holidays HolidaysSkill
	Subte    SubteSkill
	Menu     MenuSkill
	Dolar    DolarSkill
	Calendar RoomsCalendar
}

func NewSlackHandler(p SlackHandlerParams) *SlackHandler {
	h := &SlackHandler{
		bot:        p.Bot,
		oviBot:     p.OviBot,
		dispatcher: p.Dispatcher,
		admin:      p.Admin,
		users:      p.Users,
		polls:      p.Polls,
		stickers:   p.Stickers,
		retro:      p.Retro,
		vms:        p.VMs,
		holidays:   p.Holidays,
		subte:      p.Subte,
		menu:       p.Menu,
		dolar:      p.Dolar,
		calendar:   p.Calendar,
	}
	h.commands = map[string]CommandHandler{
		"feriados": h.handleFeriados,
		"subte":    h.handleSubte,
		"hoypido":  h.handleHoypido,
		"dolar":    h.handleDolar,

		"poll": h.handlePoll,

		"add_sticker":    h.handleAddSticker,
		"sticker":        h.handleSendSticker,
		"list_stickers":  h.handleListStickers,
		"delete_sticker": h.handleDeleteSticker,

		"add_team":         h.handleAddTeam,
		"start_sprint":     h.handleStartSprint,
		"end_sprint":       h.handleEndSprint,
		"add_retro_item":   h.handleAddRetroItem,
		"show_retro_items": h.handleShowRetroItems,
		"team_members":     h.handleTeamMembers,

		"register":  h.handleRegisterVMs,
		"start":     h.handleStartVMs,
		"stop":      h.handleStopVMs,
		"info":      h.handleListVMs,
		"redeploy":  h.handleRedeployVM,
		"snapshots": h.handleSnapshots,

		"authorize":       h.handleRoomsAuthorize,
		"set_token":       h.handleRoomsSetToken,
		"find_free_rooms": h.handleFindFreeRooms,
		"whereis":         h.handleWhereIs,
		"office_map":      h.handleOfficeMap,
	}
	return h
}

// HandleCommand serves the slash-command endpoint. The command name is
// looked up in a flat case-sensitive map; unknown names get a 200 reply,
// never an error status.
func (h *SlackHandler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	log.Printf("⚡ Slash command received from %s", r.RemoteAddr)

	parsed, err := slack.SlashCommandParse(r)
	if err != nil {
		log.Printf("❌ Failed to parse slash command: %v", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	cmd := models.CommandInvocation{
		Command:   strings.TrimPrefix(parsed.Command, "/"),
		Text:      parsed.Text,
		UserID:    parsed.UserID,
		ChannelID: parsed.ChannelID,
		TriggerID: parsed.TriggerID,
	}
	log.Printf("⚡ Parsed slash command: %s from user %s in channel %s", cmd.Command, cmd.UserID, cmd.ChannelID)

	handler, ok := h.commands[cmd.Command]
	if !ok {
		log.Printf("⚠️ Unknown slash command: %s", cmd.Command)
		writeReply(w, Ephemeral("Unknown command 🤔"))
		return
	}

	reply, err := handler(r.Context(), cmd)
	if err != nil {
		h.replyError(r.Context(), w, cmd, err)
		return
	}
	writeReply(w, reply)
}

// replyError maps a handler failure to the user-facing reply. Expected
// domain failures show their own message; anything else pages the admin
// and apologizes. Both are 200.
func (h *SlackHandler) replyError(ctx context.Context, w http.ResponseWriter, cmd models.CommandInvocation, err error) {
	if domainErr, ok := core.AsDomainError(err); ok {
		log.Printf("⚠️ Command %s domain failure: %s", cmd.Command, domainErr.Message)
		writeReply(w, Ephemeral(domainErr.Message))
		return
	}

	log.Printf("❌ Command %s failed: %v", cmd.Command, err)
	detail := fmt.Sprintf("Command /%s by %s failed.\nText: %q\nError: %v", cmd.Command, cmd.UserID, cmd.Text, err)
	if nerr := h.admin.NotifyError(ctx, detail); nerr != nil {
		log.Printf("⚠️ Failed to notify admin: %v", nerr)
	}
	writeReply(w, Ephemeral("Something went wrong, try again later 🍀"))
}
