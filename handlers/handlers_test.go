package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ambro17/slacker/clients"
	"github.com/Ambro17/slacker/core"
	"github.com/Ambro17/slacker/middleware"
	"github.com/Ambro17/slacker/notify"
	"github.com/Ambro17/slacker/services"
	"github.com/Ambro17/slacker/tasks"
)

type stubHolidays struct{ text string }

func (s stubHolidays) Remaining(context.Context) string { return s.text }

type recordingDispatcher struct {
	kinds    []tasks.Kind
	payloads []tasks.Payload
}

func (d *recordingDispatcher) Dispatch(_ context.Context, kind tasks.Kind, payload tasks.Payload) (string, error) {
	d.kinds = append(d.kinds, kind)
	d.payloads = append(d.payloads, payload)
	return "t_1", nil
}

type handlerFixture struct {
	handler    *SlackHandler
	bot        *clients.MockSlackClient
	oviBot     *clients.MockSlackClient
	dispatcher *recordingDispatcher
	admin      *notify.MockAdminNotifier
	users      *services.MockUsersService
	polls      *services.MockPollsService
	stickers   *services.MockStickersService
	vms        *services.MockVMsService
}

func newFixture() *handlerFixture {
	f := &handlerFixture{
		bot:        new(clients.MockSlackClient),
		oviBot:     new(clients.MockSlackClient),
		dispatcher: &recordingDispatcher{},
		admin:      &notify.MockAdminNotifier{},
		users:      new(services.MockUsersService),
		polls:      new(services.MockPollsService),
		stickers:   new(services.MockStickersService),
		vms:        new(services.MockVMsService),
	}
	f.handler = NewSlackHandler(SlackHandlerParams{
		Bot:        f.bot,
		OviBot:     f.oviBot,
		Dispatcher: f.dispatcher,
		Admin:      f.admin,
		Users:      f.users,
		Polls:      f.polls,
		Stickers:   f.stickers,
		Retro:      new(services.MockRetroService),
		VMs:        f.vms,
		Holidays:   stubHolidays{text: "El próximo feriado es el 9/7 por *Día de la Independencia*"},
	})
	return f
}

func postCommand(t *testing.T, handler http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/cmd", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeReply(t *testing.T, rec *httptest.ResponseRecorder) Reply {
	t.Helper()
	var rep Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	return rep
}

func TestUnknownCommandAnswers200WithGenericReply(t *testing.T) {
	f := newFixture()

	rec := postCommand(t, f.handler.HandleCommand, url.Values{
		"command": {"/frobnicate"},
		"user_id": {"U1"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	rep := decodeReply(t, rec)
	assert.Equal(t, responseEphemeral, rep.ResponseType)
	assert.Equal(t, "Unknown command 🤔", rep.Text)
}

func TestFeriadosEndToEndThroughSignatureGate(t *testing.T) {
	f := newFixture()
	gate := middleware.NewSignatureMiddleware([]string{"s3cret"}, false)
	handler := gate.HTTPMiddleware(http.HandlerFunc(f.handler.HandleCommand))

	body := url.Values{
		"command":    {"/feriados"},
		"user_id":    {"U1"},
		"channel_id": {"C1"},
	}.Encode()
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte("s3cret"))
	fmt.Fprintf(mac, "v0:%s:%s", ts, body)

	req := httptest.NewRequest(http.MethodPost, "/cmd", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	rep := decodeReply(t, rec)
	assert.Equal(t, responseInChannel, rep.ResponseType)
	assert.Contains(t, rep.Text, "El próximo feriado es el 9/7")
}

func TestDomainFailureAnswersSpecificEphemeral(t *testing.T) {
	f := newFixture()
	f.vms.On("ResolveAliases", mock.Anything, "U1", []string{"console"}).
		Return(nil, core.NewDomainError(core.KindUnknownTarget, "You don't have a VM under alias 'console'"))

	rec := postCommand(t, f.handler.HandleCommand, url.Values{
		"command": {"/start"},
		"text":    {"console"},
		"user_id": {"U1"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	rep := decodeReply(t, rec)
	assert.Equal(t, "You don't have a VM under alias 'console'", rep.Text)
	// Expected failures never page the admin.
	assert.Empty(t, f.admin.Notifications)
}

func TestUnexpectedFailureApologizesAndNotifiesAdmin(t *testing.T) {
	f := newFixture()
	f.stickers.On("ListStickers", mock.Anything).Return(nil, fmt.Errorf("connection refused"))

	rec := postCommand(t, f.handler.HandleCommand, url.Values{
		"command": {"/list_stickers"},
		"user_id": {"U1"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	rep := decodeReply(t, rec)
	assert.Equal(t, "Something went wrong, try again later 🍀", rep.Text)
	require.Len(t, f.admin.Notifications, 1)
	assert.Contains(t, f.admin.Notifications[0], "connection refused")
}

func TestVMStartDispatchesAsyncAndAcks(t *testing.T) {
	f := newFixture()
	f.vms.On("ResolveAliases", mock.Anything, "U1", []string{"console", "sensor"}).
		Return([]string{"vm-1", "vm-2"}, nil)
	f.vms.On("Credentials", mock.Anything, "U1").Return("api_user", "api_token", nil)

	rec := postCommand(t, f.handler.HandleCommand, url.Values{
		"command":    {"/start"},
		"text":       {"console sensor"},
		"user_id":    {"U1"},
		"channel_id": {"C1"},
	})

	// Async commands ack with an empty body; content arrives via the worker.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	require.Len(t, f.dispatcher.kinds, 1)
	assert.Equal(t, tasks.KindStartVMs, f.dispatcher.kinds[0])
	payload := f.dispatcher.payloads[0].(tasks.VMActionPayload)
	assert.Equal(t, []string{"vm-1", "vm-2"}, payload.VMIDs)
	assert.Equal(t, tasks.Delivery{User: "U1", Channel: "C1"}, payload.Delivery)
}

func TestAddStickerUsageHint(t *testing.T) {
	f := newFixture()

	rec := postCommand(t, f.handler.HandleCommand, url.Values{
		"command": {"/add_sticker"},
		"text":    {"onlyname"},
		"user_id": {"U1"},
	})

	rep := decodeReply(t, rec)
	assert.Contains(t, rep.Text, "Usage: `/add_sticker")
	f.stickers.AssertNotCalled(t, "AddSticker", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
