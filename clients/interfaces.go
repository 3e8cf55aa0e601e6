package clients

import (
	"context"
	"io"

	"github.com/slack-go/slack"
)

// SlackUser is the subset of a Slack profile the gateway persists.
type SlackUser struct {
	ID        string
	FirstName string
	LastName  string
	RealName  string
	Timezone  string
}

// SlackClient is the outbound Slack Web API surface used by handlers and
// worker tasks. Implementations must decode the in-body `ok` flag once and
// surface failures as core.ResponseNotOK, so callers never inspect raw maps.
type SlackClient interface {
	PostMessage(ctx context.Context, channel, text string) error
	PostBlocks(ctx context.Context, channel string, blocks []slack.Block) error
	PostEphemeral(ctx context.Context, channel, user, text string) error
	UpdateMessage(ctx context.Context, channel, timestamp string, blocks []slack.Block) error
	OpenDialog(ctx context.Context, triggerID string, dialog slack.Dialog) error
	UploadFile(ctx context.Context, channel, filename, comment string, size int, content io.Reader) error
	AddReaction(ctx context.Context, name, channel, timestamp string) error
	GetUserInfo(ctx context.Context, userID string) (*SlackUser, error)
}

// VMClient is the remote VM lifecycle API consumed by worker tasks.
type VMClient interface {
	StartMany(ctx context.Context, user, token string, vmIDs []string) (string, error)
	StopMany(ctx context.Context, user, token string, vmIDs []string) (string, error)
	ListVMs(ctx context.Context, user, token string) (string, error)
	Redeploy(ctx context.Context, user, token, vmID, snapshotID string) (string, error)
	Snapshots(ctx context.Context, user, token string) (string, error)
}
