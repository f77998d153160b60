package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sethvargo/go-retry"

	"filegate/internal/logging"
)

// WebhookAPI is the Bot API subset needed to register a webhook.
type WebhookAPI interface {
	GetWebhookInfo() (tgbotapi.WebhookInfo, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// WebhookEndpoint returns the update-delivery URL under the given base URL.
func WebhookEndpoint(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/webhook"
}

// EnsureWebhook points the bot's webhook at baseURL's webhook endpoint. If
// the registered webhook already matches, nothing is changed; otherwise the
// old webhook is deleted and the new one set.
//
// When Telegram answers with flood control, the call is retried exactly once
// after the server-specified delay, then gives up. Other errors are not
// retried.
func EnsureWebhook(ctx context.Context, api WebhookAPI, baseURL string, log logging.Logger) error {
	endpoint := WebhookEndpoint(baseURL)

	// The delay is whatever the server asked for on the failed attempt;
	// WithMaxRetries caps the whole operation at a single retry.
	var floodDelay time.Duration
	backoff := retry.WithMaxRetries(1, retry.BackoffFunc(func() (time.Duration, bool) {
		return floodDelay, false
	}))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := registerWebhook(ctx, api, endpoint, log)

		var tgErr *tgbotapi.Error
		if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
			floodDelay = time.Duration(tgErr.RetryAfter) * time.Second
			log.Warn(ctx, "flood control exceeded, retrying once", "retry_after", floodDelay)
			return retry.RetryableError(err)
		}
		return err
	})
}

func registerWebhook(ctx context.Context, api WebhookAPI, endpoint string, log logging.Logger) error {
	info, err := api.GetWebhookInfo()
	if err != nil {
		return fmt.Errorf("webhook info error: %w", err)
	}

	if info.URL == endpoint {
		log.Info(ctx, "webhook already set", "url", endpoint)
		return nil
	}

	log.Info(ctx, "setting webhook", "current", info.URL, "desired", endpoint)

	if info.URL != "" {
		if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			return fmt.Errorf("webhook delete error: %w", err)
		}
	}

	wh, err := tgbotapi.NewWebhook(endpoint)
	if err != nil {
		return fmt.Errorf("webhook config error: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("webhook set error: %w", err)
	}

	log.Info(ctx, "webhook set", "url", endpoint)
	return nil
}
