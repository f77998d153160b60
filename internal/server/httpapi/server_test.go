package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filegate/internal/logging"
)

type fakeUpdateHandler struct {
	mu      sync.Mutex
	updates []tgbotapi.Update
	panics  bool
}

func (f *fakeUpdateHandler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if f.panics {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, upd)
}

type fakeIdentity struct {
	username string
	info     tgbotapi.WebhookInfo
	infoErr  error
}

func (f *fakeIdentity) Username() string { return f.username }

func (f *fakeIdentity) WebhookInfo() (tgbotapi.WebhookInfo, error) {
	return f.info, f.infoErr
}

func newTestServer(h *fakeUpdateHandler, bot *fakeIdentity) *Server {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(":0", log, h, bot)
}

func perform(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	srv := newTestServer(&fakeUpdateHandler{}, &fakeIdentity{username: "filegatebot"})

	rec := perform(srv, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, livenessText, rec.Body.String())
}

func TestWebhook_ValidUpdate(t *testing.T) {
	h := &fakeUpdateHandler{}
	srv := newTestServer(h, &fakeIdentity{})

	body := `{"update_id":77,"message":{"message_id":5,"chat":{"id":55},"text":"hi"}}`
	rec := perform(srv, http.MethodPost, "/webhook", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	require.Len(t, h.updates, 1)
	assert.Equal(t, 77, h.updates[0].UpdateID)
	require.NotNil(t, h.updates[0].Message)
	assert.Equal(t, "hi", h.updates[0].Message.Text)
}

func TestWebhook_MalformedPayloadStillOK(t *testing.T) {
	h := &fakeUpdateHandler{}
	srv := newTestServer(h, &fakeIdentity{})

	rec := perform(srv, http.MethodPost, "/webhook", "{{{not json")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Empty(t, h.updates, "broken payload never reaches the handler")
}

func TestWebhook_HandlerPanicStillOK(t *testing.T) {
	srv := newTestServer(&fakeUpdateHandler{panics: true}, &fakeIdentity{})

	rec := perform(srv, http.MethodPost, "/webhook", `{"update_id":1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRedirect(t *testing.T) {
	srv := newTestServer(&fakeUpdateHandler{}, &fakeIdentity{username: "filegatebot"})

	rec := perform(srv, http.MethodGet, "/abc123", "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://t.me/filegatebot?start=abc123", rec.Header().Get("Location"))
}

func TestRedirect_UnknownIdentity(t *testing.T) {
	srv := newTestServer(&fakeUpdateHandler{}, &fakeIdentity{})

	rec := perform(srv, http.MethodGet, "/abc123", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDebug(t *testing.T) {
	bot := &fakeIdentity{info: tgbotapi.WebhookInfo{URL: "https://example.com/webhook", PendingUpdateCount: 3}}
	srv := newTestServer(&fakeUpdateHandler{}, bot)

	rec := perform(srv, http.MethodGet, "/debug", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://example.com/webhook")
}

func TestDebug_Error(t *testing.T) {
	bot := &fakeIdentity{infoErr: errors.New("api unavailable")}
	srv := newTestServer(&fakeUpdateHandler{}, bot)

	rec := perform(srv, http.MethodGet, "/debug", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "api unavailable")
}
