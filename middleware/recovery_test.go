package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ambro17/slacker/notify"
)

func TestPanicAnswers200WithApology(t *testing.T) {
	recovery := NewRecoveryMiddleware(&notify.MockAdminNotifier{})
	handler := recovery.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/feriados", nil))

	// Slack retries non-200 answers, which would re-run the crashed handler.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong, try again later 🍀")
}

// Mirrors the production router layout: every webhook route hangs off a
// subrouter gated with Use, health stays outside.
func TestRouterGatesEveryWebhookRoute(t *testing.T) {
	now := time.Now()
	gate := NewSignatureMiddleware([]string{"s3cret"}, false)
	gate.now = func() time.Time { return now }
	recovery := NewRecoveryMiddleware(&notify.MockAdminNotifier{})

	var reached []string
	record := func(w http.ResponseWriter, r *http.Request) {
		reached = append(reached, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	webhooks := router.PathPrefix("/").Subrouter()
	webhooks.Use(recovery.HTTPMiddleware, gate.HTTPMiddleware)
	webhooks.HandleFunc("/slack/events", record).Methods("POST")
	webhooks.HandleFunc("/{command}", record).Methods("POST")

	// Unsigned requests never reach a handler, whichever route they hit.
	for _, path := range []string{"/slack/events", "/feriados", "/added-later"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader("text=x")))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "unsigned POST %s must be rejected", path)
	}
	require.Empty(t, reached)

	// Health is not a webhook and needs no signature.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// A properly signed request still routes through.
	body := "command=%2Fferiados"
	ts := strconv.FormatInt(now.Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, "/feriados", strings.NewReader(body))
	req.Header.Set(timestampHeader, ts)
	req.Header.Set(signatureHeader, signBody("s3cret", ts, []byte(body)))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"/feriados"}, reached)
}
