package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/slack-go/slack"

	"github.com/Ambro17/slacker/models"
	"github.com/Ambro17/slacker/tasks"
)

// Action id prefixes routed by the interactivity endpoint.
const (
	sendStickerActionPrefix = "send_sticker"
	pollVoteActionPrefix    = "poll_vote"
)

// HandleInteractivity serves dialog submissions and block action
// callbacks. Slack posts a form with a single `payload` field holding the
// interaction JSON.
func (h *SlackHandler) HandleInteractivity(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Interaction received from %s", r.RemoteAddr)

	payload := r.FormValue("payload")
	if payload == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		log.Printf("❌ Failed to parse interaction payload: %v", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	switch callback.Type {
	case slack.InteractionTypeDialogSubmission:
		if strings.HasPrefix(callback.CallbackID, vmRegisterCallbackID) {
			h.handleVMRegistration(r.Context(), w, callback)
			return
		}
		log.Printf("⚠️ Unknown dialog callback id: %s", callback.CallbackID)
		w.WriteHeader(http.StatusOK)

	case slack.InteractionTypeBlockActions:
		h.handleBlockAction(r.Context(), w, callback)

	default:
		log.Printf("⚠️ Unknown interaction type: %s", callback.Type)
		w.WriteHeader(http.StatusOK)
	}
}

// handleVMRegistration persists the credentials and vms submitted through
// the registration dialog. Validation failures answer the dialog error
// format so Slack shows them next to the offending field.
func (h *SlackHandler) handleVMRegistration(ctx context.Context, w http.ResponseWriter, callback slack.InteractionCallback) {
	name := callback.Submission["user"]
	token := callback.Submission["token"]
	rawVMs := callback.Submission["vms_info"]

	vms, err := models.ParseVMsInfo(rawVMs)
	if err != nil {
		writeJSON(w, slack.DialogInputValidationErrors{
			Errors: []slack.DialogInputValidationError{{
				Name:  "vms_info",
				Error: "Invalid VMs format. Check the placeholder to see the correct format",
			}},
		})
		return
	}

	if err := h.vms.RegisterVMs(ctx, callback.User.ID, name, token, vms); err != nil {
		log.Printf("❌ Failed to save vms for user %s: %v", callback.User.ID, err)
		writeJSON(w, slack.DialogInputValidationErrors{
			Errors: []slack.DialogInputValidationError{{Name: "vms_info", Error: err.Error()}},
		})
		return
	}

	// Confirmation arrives out of band; the dialog just closes.
	aliases := make([]string, 0, len(vms))
	for alias := range vms {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	var lines []string
	for _, alias := range aliases {
		lines = append(lines, fmt.Sprintf("`%s: %s`", alias, vms[alias]))
	}
	msg := fmt.Sprintf(":check: Tus vms quedaron guardadas.\nUser: `%s`\nVMs:\n%s", name, strings.Join(lines, "\n"))

	if _, err := h.dispatcher.Dispatch(ctx, tasks.KindSendEphemeral, tasks.SendEphemeralPayload{
		Delivery: tasks.Delivery{User: callback.User.ID, Channel: callback.Channel.ID},
		Message:  msg,
	}); err != nil {
		log.Printf("⚠️ Failed to enqueue registration confirmation: %v", err)
	}

	w.WriteHeader(http.StatusOK)
}

// handleBlockAction dispatches on the exact action id prefix.
func (h *SlackHandler) handleBlockAction(ctx context.Context, w http.ResponseWriter, callback slack.InteractionCallback) {
	if len(callback.ActionCallback.BlockActions) == 0 {
		w.WriteHeader(http.StatusOK)
		return
	}
	action := callback.ActionCallback.BlockActions[0]

	switch {
	case strings.HasPrefix(action.ActionID, sendStickerActionPrefix):
		h.sendSticker(ctx, callback, action)
	case strings.HasPrefix(action.ActionID, pollVoteActionPrefix):
		h.votePoll(ctx, callback, action)
	default:
		log.Printf("⚠️ Unknown block action id: %s", action.ActionID)
	}
	w.WriteHeader(http.StatusOK)
}

// sendSticker posts the sticker image picked from the sticker listing.
// The action id carries the name, the value carries the image url.
func (h *SlackHandler) sendSticker(ctx context.Context, callback slack.InteractionCallback, action *slack.BlockAction) {
	_, stickerName, _ := strings.Cut(action.ActionID, ":")
	imageURL := action.Value

	title := slack.NewTextBlockObject(slack.PlainTextType, stickerName, false, false)
	blocks := []slack.Block{slack.NewImageBlock(imageURL, stickerName, "", title)}
	if err := h.bot.PostBlocks(ctx, callback.Channel.ID, blocks); err != nil {
		log.Printf("❌ Sticker not sent: %v", err)
	}
}

// votePoll registers one vote per user per poll and refreshes the poll
// message with the new counts.
func (h *SlackHandler) votePoll(ctx context.Context, callback slack.InteractionCallback, action *slack.BlockAction) {
	pollID := action.BlockID
	userID := callback.User.ID
	channelID := callback.Channel.ID

	maybePoll, err := h.polls.GetPollByID(ctx, pollID)
	if err != nil {
		log.Printf("❌ Failed to load poll %s: %v", pollID, err)
		return
	}
	poll, ok := maybePoll.Get()
	if !ok {
		h.tellVoter(ctx, channelID, userID, "Poll not found.")
		return
	}

	choice, err := strconv.Atoi(action.Value)
	if err != nil {
		h.tellVoter(ctx, channelID, userID, "Vote choice not found")
		return
	}
	if _, ok := poll.OptionByNumber(choice); !ok {
		h.tellVoter(ctx, channelID, userID, "Vote choice not found")
		return
	}

	voted, err := h.polls.HasVoted(ctx, poll.ID, userID)
	if err != nil {
		log.Printf("❌ Failed to check vote of user %s on poll %s: %v", userID, poll.ID, err)
		return
	}
	if voted {
		h.tellVoter(ctx, channelID, userID, "You have already voted.")
		return
	}

	updated, err := h.polls.Vote(ctx, poll.ID, choice, userID, callback.User.Name)
	if err != nil {
		log.Printf("❌ Failed to register vote: %v", err)
		h.tellVoter(ctx, channelID, userID, "Error updating vote")
		return
	}

	timestamp := callback.Container.MessageTs
	if err := h.bot.UpdateMessage(ctx, channelID, timestamp, PollBlocks(updated)); err != nil {
		log.Printf("❌ Failed to update poll message: %v", err)
		return
	}
	log.Printf("✅ Poll %s vote registered for user %s", poll.ID, userID)
}

func (h *SlackHandler) tellVoter(ctx context.Context, channel, user, msg string) {
	if err := h.bot.PostEphemeral(ctx, channel, user, msg); err != nil {
		log.Printf("⚠️ Failed to notify voter: %v", err)
	}
}
