package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ambro17/slacker/models"
	"github.com/Ambro17/slacker/tasks"
)

func postInteraction(t *testing.T, handler http.HandlerFunc, payload string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"payload": {payload}}
	req := httptest.NewRequest(http.MethodPost, "/interactive/message_actions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func votePayload(pollID, choice string) string {
	return fmt.Sprintf(`{
		"type": "block_actions",
		"user": {"id": "U1", "name": "ana"},
		"channel": {"id": "C1"},
		"container": {"message_ts": "1629.001"},
		"actions": [{"action_id": "poll_vote:%s", "block_id": "%s", "value": "%s"}]
	}`, choice, pollID, choice)
}

func testPoll() *models.Poll {
	return &models.Poll{
		ID:       "poll_1",
		Question: "best color",
		Options: []models.PollOption{
			{ID: "op_1", PollID: "poll_1", Number: 1, Text: "red"},
			{ID: "op_2", PollID: "poll_1", Number: 2, Text: "blue"},
		},
	}
}

func TestPollVoteUpdatesMessage(t *testing.T) {
	f := newFixture()
	poll := testPoll()
	voted := testPoll()
	voted.Options[1].Votes = 1

	f.polls.On("GetPollByID", mock.Anything, "poll_1").Return(mo.Some(poll), nil)
	f.polls.On("HasVoted", mock.Anything, "poll_1", "U1").Return(false, nil)
	f.polls.On("Vote", mock.Anything, "poll_1", 2, "U1", "ana").Return(voted, nil)
	f.bot.On("UpdateMessage", mock.Anything, "C1", "1629.001", mock.Anything).Return(nil)

	rec := postInteraction(t, f.handler.HandleInteractivity, votePayload("poll_1", "2"))

	require.Equal(t, http.StatusOK, rec.Code)
	f.polls.AssertExpectations(t)
	f.bot.AssertExpectations(t)
}

func TestPollVoteOncePerUser(t *testing.T) {
	f := newFixture()
	f.polls.On("GetPollByID", mock.Anything, "poll_1").Return(mo.Some(testPoll()), nil)
	f.polls.On("HasVoted", mock.Anything, "poll_1", "U1").Return(true, nil)
	f.bot.On("PostEphemeral", mock.Anything, "C1", "U1", "You have already voted.").Return(nil)

	rec := postInteraction(t, f.handler.HandleInteractivity, votePayload("poll_1", "1"))

	require.Equal(t, http.StatusOK, rec.Code)
	f.bot.AssertExpectations(t)
	// The vote is not stored and the poll message is untouched.
	f.polls.AssertNotCalled(t, "Vote", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.bot.AssertNotCalled(t, "UpdateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPollVoteUnknownPoll(t *testing.T) {
	f := newFixture()
	f.polls.On("GetPollByID", mock.Anything, "poll_404").Return(mo.None[*models.Poll](), nil)
	f.bot.On("PostEphemeral", mock.Anything, "C1", "U1", "Poll not found.").Return(nil)

	rec := postInteraction(t, f.handler.HandleInteractivity, votePayload("poll_404", "1"))

	require.Equal(t, http.StatusOK, rec.Code)
	f.bot.AssertExpectations(t)
}

func TestVMRegistrationRejectsMalformedVMs(t *testing.T) {
	f := newFixture()

	payload := `{
		"type": "dialog_submission",
		"callback_id": "aws_callback",
		"user": {"id": "U1"},
		"channel": {"id": "C1"},
		"submission": {"user": "api_user", "token": "api_token", "vms_info": "not an alias pair"}
	}`
	rec := postInteraction(t, f.handler.HandleInteractivity, payload)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"vms_info"`)
	assert.Contains(t, rec.Body.String(), "Invalid VMs format")
	f.vms.AssertNotCalled(t, "RegisterVMs", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVMRegistrationSavesAndConfirmsAsync(t *testing.T) {
	f := newFixture()
	f.vms.On("RegisterVMs", mock.Anything, "U1", "api_user", "api_token",
		map[string]string{"console": "5kyq3bdcnl6sbnsv9t6q"}).Return(nil)

	payload := `{
		"type": "dialog_submission",
		"callback_id": "aws_callback",
		"user": {"id": "U1"},
		"channel": {"id": "C1"},
		"submission": {"user": "api_user", "token": "api_token", "vms_info": "console=5kyq3bdcnl6sbnsv9t6q"}
	}`
	rec := postInteraction(t, f.handler.HandleInteractivity, payload)

	require.Equal(t, http.StatusOK, rec.Code)
	f.vms.AssertExpectations(t)
	require.Len(t, f.dispatcher.kinds, 1)
	assert.Equal(t, tasks.KindSendEphemeral, f.dispatcher.kinds[0])
	confirmation := f.dispatcher.payloads[0].(tasks.SendEphemeralPayload)
	assert.Contains(t, confirmation.Message, "Tus vms quedaron guardadas")
	assert.Contains(t, confirmation.Message, "`console: 5kyq3bdcnl6sbnsv9t6q`")
}

func TestStickerButtonPostsImageBlock(t *testing.T) {
	f := newFixture()
	f.bot.On("PostBlocks", mock.Anything, "C1", mock.Anything).Return(nil)

	payload := `{
		"type": "block_actions",
		"user": {"id": "U1"},
		"channel": {"id": "C1"},
		"actions": [{
			"type": "button",
			"action_id": "send_sticker:facepalm",
			"block_id": "stickers",
			"value": "https://i.imgur.com/123.png"
		}]
	}`
	rec := postInteraction(t, f.handler.HandleInteractivity, payload)

	require.Equal(t, http.StatusOK, rec.Code)
	f.bot.AssertExpectations(t)
}
