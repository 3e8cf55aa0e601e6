package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ambro17/slacker/models"
)

func postEvent(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestURLVerificationEchoesChallenge(t *testing.T) {
	f := newFixture()

	rec := postEvent(t, f.handler.HandleEvent, `{"type": "url_verification", "challenge": "c4ll3ng3"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c4ll3ng3", rec.Body.String())
}

func TestReactionAddedEchoesAndJoins(t *testing.T) {
	f := newFixture()
	f.bot.On("PostMessage", mock.Anything, "C1", ":tada:").Return(nil)
	f.bot.On("AddReaction", mock.Anything, "tada", "C1", "1629.001").Return(nil)

	rec := postEvent(t, f.handler.HandleEvent, `{
		"type": "event_callback",
		"event": {
			"type": "reaction_added",
			"reaction": "tada",
			"item": {"channel": "C1", "ts": "1629.001"}
		}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	f.bot.AssertExpectations(t)
}

func TestMessageEventPersistsAuthor(t *testing.T) {
	f := newFixture()
	f.users.On("GetOrCreateUser", mock.Anything, "U1").Return(&models.User{ID: "u_1", SlackID: "U1"}, nil)

	rec := postEvent(t, f.handler.HandleEvent, `{
		"type": "event_callback",
		"event": {"type": "message", "user": "U1", "channel": "C1", "text": "hola"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	f.users.AssertExpectations(t)
}

func TestBotMessagesAreNotPersisted(t *testing.T) {
	f := newFixture()

	rec := postEvent(t, f.handler.HandleEvent, `{
		"type": "event_callback",
		"event": {"type": "message", "subtype": "bot_message", "channel": "C1", "text": "beep"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	f.users.AssertNotCalled(t, "GetOrCreateUser", mock.Anything, mock.Anything)
}
