// Command setwebhook points the bot's Telegram webhook at the configured
// base URL. Intended to run once per deployment.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"filegate/internal/config"
	"filegate/internal/logging"
	"filegate/internal/telegram"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	// Unlike the server, this tool needs only the credential and the URL.
	if cfg.BotToken == "" || cfg.BaseURL == "" {
		log.Printf("BOT_TOKEN and BASE_URL (or HEROKU_APP_NAME) must be set")
		return
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	bot, err := telegram.NewClient(cfg.BotToken)
	if err != nil {
		logger.Error(ctx, "bot init error", "error", err)
		return
	}

	if err := telegram.EnsureWebhook(ctx, bot, cfg.BaseURL, logger); err != nil {
		logger.Error(ctx, "webhook registration failed", "error", err)
	}
}
