package models

// CommandInvocation is one slash-command call, parsed from the
// form-encoded body Slack posts to the command endpoint.
type CommandInvocation struct {
	Command   string `json:"command"`    // command name without the leading slash
	Text      string `json:"text"`       // free-text argument string
	UserID    string `json:"user_id"`    // invoking user
	ChannelID string `json:"channel_id"` // invoking channel
	TriggerID string `json:"trigger_id"` // present when a follow-up dialog may be opened
}
