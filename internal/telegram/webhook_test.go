package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filegate/internal/logging"
)

type fakeWebhookAPI struct {
	info    tgbotapi.WebhookInfo
	infoErr error

	requests    []tgbotapi.Chattable
	requestErrs []error // consumed one per Request call; nil entry means success
}

func (f *fakeWebhookAPI) GetWebhookInfo() (tgbotapi.WebhookInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeWebhookAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	if len(f.requestErrs) > 0 {
		err := f.requestErrs[0]
		f.requestErrs = f.requestErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWebhookEndpoint(t *testing.T) {
	assert.Equal(t, "https://x.example.com/webhook", WebhookEndpoint("https://x.example.com"))
	assert.Equal(t, "https://x.example.com/webhook", WebhookEndpoint("https://x.example.com/"))
}

func TestEnsureWebhook_AlreadySet(t *testing.T) {
	api := &fakeWebhookAPI{info: tgbotapi.WebhookInfo{URL: "https://x.example.com/webhook"}}

	err := EnsureWebhook(context.Background(), api, "https://x.example.com", testLogger())
	require.NoError(t, err)
	assert.Empty(t, api.requests, "nothing to change")
}

func TestEnsureWebhook_SetsWhenUnset(t *testing.T) {
	api := &fakeWebhookAPI{}

	err := EnsureWebhook(context.Background(), api, "https://x.example.com", testLogger())
	require.NoError(t, err)

	// No previous webhook, so no delete: just the set request.
	require.Len(t, api.requests, 1)
	_, ok := api.requests[0].(tgbotapi.WebhookConfig)
	assert.True(t, ok)
}

func TestEnsureWebhook_ReplacesDifferentURL(t *testing.T) {
	api := &fakeWebhookAPI{info: tgbotapi.WebhookInfo{URL: "https://old.example.com/webhook"}}

	err := EnsureWebhook(context.Background(), api, "https://x.example.com", testLogger())
	require.NoError(t, err)

	require.Len(t, api.requests, 2)
	_, ok := api.requests[0].(tgbotapi.DeleteWebhookConfig)
	assert.True(t, ok, "old webhook deleted first")
	_, ok = api.requests[1].(tgbotapi.WebhookConfig)
	assert.True(t, ok)
}

func TestEnsureWebhook_FloodControlRetriesOnce(t *testing.T) {
	flood := &tgbotapi.Error{
		Code:               429,
		Message:            "Too Many Requests",
		ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 1},
	}
	api := &fakeWebhookAPI{requestErrs: []error{flood, nil}}

	err := EnsureWebhook(context.Background(), api, "https://x.example.com", testLogger())
	require.NoError(t, err)
	assert.Len(t, api.requests, 2, "one flood-controlled attempt plus one retry")
}

func TestEnsureWebhook_FloodControlGivesUpAfterOneRetry(t *testing.T) {
	flood := &tgbotapi.Error{
		Code:               429,
		Message:            "Too Many Requests",
		ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 1},
	}
	api := &fakeWebhookAPI{requestErrs: []error{flood, flood, flood}}

	err := EnsureWebhook(context.Background(), api, "https://x.example.com", testLogger())
	require.Error(t, err)

	var tgErr *tgbotapi.Error
	assert.True(t, errors.As(err, &tgErr))
	assert.Len(t, api.requests, 2, "exactly one retry, then give up")
}

func TestEnsureWebhook_NonFloodErrorNotRetried(t *testing.T) {
	api := &fakeWebhookAPI{requestErrs: []error{errors.New("unauthorized")}}

	err := EnsureWebhook(context.Background(), api, "https://x.example.com", testLogger())
	require.Error(t, err)
	assert.Len(t, api.requests, 1)
}

func TestEnsureWebhook_InfoError(t *testing.T) {
	api := &fakeWebhookAPI{infoErr: errors.New("network down")}

	err := EnsureWebhook(context.Background(), api, "https://x.example.com", testLogger())
	require.Error(t, err)
	assert.Empty(t, api.requests)
}
