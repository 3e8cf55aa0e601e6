package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func signedRequest(t *testing.T, secret string, at time.Time, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader(body))
	ts := strconv.FormatInt(at.Unix(), 10)
	req.Header.Set(timestampHeader, ts)
	req.Header.Set(signatureHeader, signBody(secret, ts, []byte(body)))
	return req
}

func serveWith(m *SignatureMiddleware, req *http.Request) (*httptest.ResponseRecorder, string) {
	var seenBody string
	handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		seenBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seenBody
}

func TestValidSignaturePassesAndBodySurvives(t *testing.T) {
	now := time.Now()
	m := NewSignatureMiddleware([]string{"s3cret"}, false)
	m.now = func() time.Time { return now }

	body := "command=%2Fferiados&user_id=U1"
	rec, seenBody := serveWith(m, signedRequest(t, "s3cret", now, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	// Downstream handlers must still be able to read the body.
	assert.Equal(t, body, seenBody)
}

func TestMutatedBodyIsRejected(t *testing.T) {
	now := time.Now()
	m := NewSignatureMiddleware([]string{"s3cret"}, false)
	m.now = func() time.Time { return now }

	req := signedRequest(t, "s3cret", now, "command=%2Fferiados")
	req.Body = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("command=%2Fevil")).Body

	rec, _ := serveWith(m, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWrongSecretIsRejected(t *testing.T) {
	now := time.Now()
	m := NewSignatureMiddleware([]string{"s3cret"}, false)
	m.now = func() time.Time { return now }

	rec, _ := serveWith(m, signedRequest(t, "other-secret", now, "payload=x"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnyConfiguredSecretIsAccepted(t *testing.T) {
	now := time.Now()
	m := NewSignatureMiddleware([]string{"old-secret", "new-secret"}, false)
	m.now = func() time.Time { return now }

	for _, secret := range []string{"old-secret", "new-secret"} {
		rec, _ := serveWith(m, signedRequest(t, secret, now, "payload=x"))
		assert.Equal(t, http.StatusOK, rec.Code, "secret %q should be accepted", secret)
	}
}

func TestStaleAndFutureTimestampsAreRejected(t *testing.T) {
	now := time.Now()
	m := NewSignatureMiddleware([]string{"s3cret"}, false)
	m.now = func() time.Time { return now }

	stale := signedRequest(t, "s3cret", now.Add(-3*time.Minute), "payload=x")
	rec, _ := serveWith(m, stale)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	future := signedRequest(t, "s3cret", now.Add(3*time.Minute), "payload=x")
	rec, _ = serveWith(m, future)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissingHeadersAreRejected(t *testing.T) {
	m := NewSignatureMiddleware([]string{"s3cret"}, false)

	req := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader("payload=x"))
	rec, _ := serveWith(m, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader("payload=x"))
	req.Header.Set(timestampHeader, strconv.FormatInt(time.Now().Unix(), 10))
	rec, _ = serveWith(m, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedTimestampIsRejected(t *testing.T) {
	m := NewSignatureMiddleware([]string{"s3cret"}, false)

	req := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader("payload=x"))
	req.Header.Set(timestampHeader, "not-a-number")
	req.Header.Set(signatureHeader, "v0=deadbeef")
	rec, _ := serveWith(m, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSkipVerificationBypassesChecks(t *testing.T) {
	m := NewSignatureMiddleware([]string{"s3cret"}, true)

	req := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader("payload=x"))
	rec, _ := serveWith(m, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
