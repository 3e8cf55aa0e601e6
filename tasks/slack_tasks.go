package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/slack-go/slack"

	"github.com/Ambro17/slacker/core"
)

func (w *Worker) sendMessage(ctx context.Context, t *asynq.Task) (any, error) {
	var p SendMessagePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, fmt.Errorf("failed to decode send_message payload: %w", err)
	}
	if err := w.slack.PostMessage(ctx, p.Channel, p.Message); err != nil {
		return rejectedOrError(err)
	}
	return Done(), nil
}

func (w *Worker) sendEphemeral(ctx context.Context, t *asynq.Task) (any, error) {
	var p SendEphemeralPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, fmt.Errorf("failed to decode send_ephemeral_message payload: %w", err)
	}
	if err := w.slack.PostEphemeral(ctx, p.Channel, p.User, p.Message); err != nil {
		return rejectedOrError(err)
	}
	return Done(), nil
}

func (w *Worker) sendBlocks(ctx context.Context, t *asynq.Task) (any, error) {
	var p SendBlocksPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, fmt.Errorf("failed to decode send_message_with_blocks payload: %w", err)
	}
	var blocks slack.Blocks
	if err := json.Unmarshal(p.Blocks, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}
	if err := w.slack.PostBlocks(ctx, p.Channel, blocks.BlockSet); err != nil {
		return rejectedOrError(err)
	}
	return Done(), nil
}

func (w *Worker) uploadFile(ctx context.Context, t *asynq.Task) (any, error) {
	var p UploadFilePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, fmt.Errorf("failed to decode upload_file payload: %w", err)
	}
	err := w.slack.UploadFile(ctx, p.Channel, p.Filename, p.Comment, len(p.Content), bytes.NewReader(p.Content))
	if err != nil {
		return rejectedOrError(err)
	}
	return Done(), nil
}

// rejectedOrError turns an in-body API rejection into a not-ok outcome and
// leaves transport failures as errors so the broker can retry them.
func rejectedOrError(err error) (any, error) {
	var notOK *core.ResponseNotOK
	if errors.As(err, &notOK) {
		return Failed(notOK.Error()), nil
	}
	return nil, err
}
