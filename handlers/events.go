package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

type eventEnvelope struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Event     struct {
		Type     string `json:"type"`
		SubType  string `json:"subtype"`
		User     string `json:"user"`
		Channel  string `json:"channel"`
		Text     string `json:"text"`
		Reaction string `json:"reaction"`
		Item     struct {
			Channel   string `json:"channel"`
			Timestamp string `json:"ts"`
		} `json:"item"`
	} `json:"event"`
}

// HandleEvent serves the events endpoint: answers the url_verification
// handshake and processes event callbacks.
func (h *SlackHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Event received from %s", r.RemoteAddr)

	var envelope eventEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		log.Printf("❌ Failed to parse event body: %v", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	switch envelope.Type {
	case "url_verification":
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(envelope.Challenge))

	case "event_callback":
		h.handleEventCallback(w, r, envelope)

	default:
		log.Printf("⚠️ Unknown event envelope type: %s", envelope.Type)
		w.WriteHeader(http.StatusOK)
	}
}

func (h *SlackHandler) handleEventCallback(w http.ResponseWriter, r *http.Request, envelope eventEnvelope) {
	event := envelope.Event
	switch event.Type {
	case "message":
		// Keep the author's profile on record; bot messages have no
		// human author to persist.
		if event.SubType != "bot_message" && event.User != "" {
			if _, err := h.users.GetOrCreateUser(r.Context(), event.User); err != nil {
				log.Printf("⚠️ Failed to persist user %s: %v", event.User, err)
			}
		}

	case "reaction_added":
		if err := h.bot.PostMessage(r.Context(), event.Item.Channel, ":"+event.Reaction+":"); err != nil {
			log.Printf("⚠️ Failed to echo reaction: %v", err)
		}
		// The bot also piles onto the reacted message. A second reaction
		// on the same message answers already_reacted, which only logs.
		if err := h.bot.AddReaction(r.Context(), event.Reaction, event.Item.Channel, event.Item.Timestamp); err != nil {
			log.Printf("⚠️ Failed to join reaction: %v", err)
		}

	default:
		log.Printf("📨 Ignoring event type %s", event.Type)
	}
	w.WriteHeader(http.StatusOK)
}
