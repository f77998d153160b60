// Package server initializes and runs the bot application: it connects the
// user directory store, builds the services and the update router, starts
// the HTTP server, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"filegate/internal/config"
	"filegate/internal/logging"
	"filegate/internal/server/handler"
	"filegate/internal/server/httpapi"
	usersrepo "filegate/internal/server/repositories/users"
	"filegate/internal/server/services"
	"filegate/internal/telegram"
)

const dbConnectTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	bot        *telegram.Client
	db         *mongo.Client
	httpServer *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	bot, err := telegram.NewClient(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("bot init error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbConnectTimeout)
	defer cancel()
	db, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	dump := telegram.ParseChatRef(cfg.DumpChannel)
	channels := []telegram.ChatRef{
		telegram.ParseChatRef(cfg.ForceSubChannel1),
		telegram.ParseChatRef(cfg.ForceSubChannel2),
	}

	us := services.NewUserService(usersrepo.NewMongoRepository(db.Database(cfg.MongoDatabase)), logger)
	ds := services.NewDumpService(bot, logger, dump, cfg.BaseURL, cfg.FlushDelay)
	rs := services.NewRetrievalService(bot, logger, dump, channels)

	h := handler.New(bot, logger, cfg.AdminIDs, us, ds, rs)
	srv := httpapi.New(cfg.Addr, logger, h, bot)

	return &App{
		config:     cfg,
		logger:     logger,
		bot:        bot,
		db:         db,
		httpServer: srv,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// notifyAdmins tells each configured admin the bot came up. Failures are
// logged and do not block startup.
func (app *App) notifyAdmins(ctx context.Context) {
	text := "Bot deployed, serving webhook at " + telegram.WebhookEndpoint(app.config.BaseURL)
	for _, id := range app.config.AdminIDs {
		if _, err := app.bot.Send(tgbotapi.NewMessage(id, text)); err != nil {
			app.logger.Error(ctx, "admin notification failed", "admin_id", id, "error", err)
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "bot", app.bot.Username())

	app.initSignalHandler(cancelFunc)
	app.notifyAdmins(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	disconnectCtx, cancel := context.WithTimeout(context.Background(), dbConnectTimeout)
	defer cancel()
	if err := app.db.Disconnect(disconnectCtx); err != nil {
		app.logger.Error(ctx, "db disconnect error", "error", err)
	}
}
