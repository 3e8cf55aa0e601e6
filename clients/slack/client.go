package slack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"github.com/Ambro17/slacker/clients"
	"github.com/Ambro17/slacker/core"
)

// apiTimeout bounds every outgoing Slack call so neither the webhook tier
// nor a worker task ever blocks on a slow platform response.
const apiTimeout = 5 * time.Second

// Client implements clients.SlackClient using the slack-go/slack SDK.
// In-body `ok: false` responses are decoded once here and surfaced as
// core.ResponseNotOK; transport errors are wrapped normally.
type Client struct {
	api *slack.Client
}

// NewClient creates a new Slack client with the provided bot token.
func NewClient(botToken string) *Client {
	return &Client{
		api: slack.New(botToken, slack.OptionHTTPClient(&http.Client{Timeout: apiTimeout})),
	}
}

// PostMessage sends a plain text message visible to the whole channel.
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	return wrapAPIError("chat.postMessage", err)
}

// PostBlocks sends a block-kit message visible to the whole channel.
func (c *Client) PostBlocks(ctx context.Context, channel string, blocks []slack.Block) error {
	_, _, err := c.api.PostMessageContext(ctx, channel, slack.MsgOptionBlocks(blocks...))
	return wrapAPIError("chat.postMessage", err)
}

// PostEphemeral sends a message only the given user can see.
func (c *Client) PostEphemeral(ctx context.Context, channel, user, text string) error {
	_, err := c.api.PostEphemeralContext(ctx, channel, user, slack.MsgOptionText(text, false))
	return wrapAPIError("chat.postEphemeral", err)
}

// UpdateMessage replaces the blocks of an already posted message.
func (c *Client) UpdateMessage(ctx context.Context, channel, timestamp string, blocks []slack.Block) error {
	_, _, _, err := c.api.UpdateMessageContext(ctx, channel, timestamp, slack.MsgOptionBlocks(blocks...))
	return wrapAPIError("chat.update", err)
}

// OpenDialog opens a modal form in response to a command trigger.
func (c *Client) OpenDialog(ctx context.Context, triggerID string, dialog slack.Dialog) error {
	return wrapAPIError("dialog.open", c.api.OpenDialogContext(ctx, triggerID, dialog))
}

// UploadFile uploads a file to a channel with an initial comment.
func (c *Client) UploadFile(
	ctx context.Context,
	channel, filename, comment string,
	size int,
	content io.Reader,
) error {
	_, err := c.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Channel:        channel,
		Filename:       filename,
		Title:          filename,
		InitialComment: comment,
		FileSize:       size,
		Reader:         content,
	})
	return wrapAPIError("files.upload", err)
}

// AddReaction adds an emoji reaction to a message.
func (c *Client) AddReaction(ctx context.Context, name, channel, timestamp string) error {
	err := c.api.AddReactionContext(ctx, name, slack.ItemRef{Channel: channel, Timestamp: timestamp})
	return wrapAPIError("reactions.add", err)
}

// GetUserInfo fetches the profile of a Slack user.
func (c *Client) GetUserInfo(ctx context.Context, userID string) (*clients.SlackUser, error) {
	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, wrapAPIError("users.info", err)
	}

	return &clients.SlackUser{
		ID:        user.ID,
		FirstName: user.Profile.FirstName,
		LastName:  user.Profile.LastName,
		RealName:  user.RealName,
		Timezone:  user.TZ,
	}, nil
}

// wrapAPIError converts the SDK's in-body failure type into the
// distinguished core.ResponseNotOK. The platform can answer HTTP 200 with
// ok:false, so status-code checking alone would miss these.
func wrapAPIError(method string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr slack.SlackErrorResponse
	if errors.As(err, &apiErr) {
		return core.NewResponseNotOK(method, apiErr.Err)
	}
	return fmt.Errorf("%s request failed: %w", method, err)
}
