package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/slack-go/slack"
)

// Reply is the synchronous answer to a slash command: the JSON envelope
// Slack renders in place. The zero value is a bare 200 acknowledgment with
// an empty body, used by commands whose real answer arrives later from the
// worker.
type Reply struct {
	ResponseType string        `json:"response_type,omitempty"`
	Text         string        `json:"text,omitempty"`
	Blocks       []slack.Block `json:"blocks,omitempty"`
}

const (
	responseInChannel = "in_channel"
	responseEphemeral = "ephemeral"
)

// Ack is the empty acknowledgment for async-dispatching commands.
func Ack() Reply {
	return Reply{}
}

// InChannel answers visibly to the whole channel.
func InChannel(text string) Reply {
	return Reply{ResponseType: responseInChannel, Text: text}
}

// Ephemeral answers visibly only to the invoking user.
func Ephemeral(text string) Reply {
	return Reply{ResponseType: responseEphemeral, Text: text}
}

// EphemeralBlocks answers with Block Kit blocks, visible only to the
// invoking user.
func EphemeralBlocks(text string, blocks []slack.Block) Reply {
	return Reply{ResponseType: responseEphemeral, Text: text, Blocks: blocks}
}

// InChannelBlocks answers with Block Kit blocks to the whole channel.
func InChannelBlocks(text string, blocks []slack.Block) Reply {
	return Reply{ResponseType: responseInChannel, Text: text, Blocks: blocks}
}

func (rep Reply) isAck() bool {
	return rep.ResponseType == "" && rep.Text == "" && len(rep.Blocks) == 0
}

// writeReply renders the envelope. Always 200: any non-200 would trigger
// the platform's own retry and duplicate side effects.
func writeReply(w http.ResponseWriter, rep Reply) {
	if rep.isAck() {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		log.Printf("❌ Failed to encode reply: %v", err)
	}
}

// writeJSON renders an arbitrary payload, used by the interactivity
// endpoint's dialog validation errors.
func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}
