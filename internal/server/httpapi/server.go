// Package httpapi serves the bot's HTTP surface: the webhook update
// endpoint, a liveness probe, a webhook-info debug view, and the redirect
// that turns a shareable link into a deep-link start URL.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"filegate/internal/logging"
)

const livenessText = "Telegram file gate bot is running."

// UpdateHandler processes one decoded webhook update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd tgbotapi.Update)
}

// Identity exposes the bot's own username and webhook registration state.
type Identity interface {
	Username() string
	WebhookInfo() (tgbotapi.WebhookInfo, error)
}

type Server struct {
	addr    string
	log     logging.Logger
	engine  *gin.Engine
	handler UpdateHandler
	bot     Identity
}

func New(addr string, log logging.Logger, h UpdateHandler, bot Identity) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		addr:    addr,
		log:     log.With("module", "httpapi"),
		handler: h,
		bot:     bot,
	}

	engine := gin.New()
	engine.Use(requestLogger(s.log), gin.Recovery())

	engine.GET("/", s.index)
	engine.GET("/debug", s.debug)
	engine.GET("/:token", s.redirect)
	engine.POST("/webhook", s.webhook)

	s.engine = engine
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() http.Handler {
	return s.engine
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	go func() {
		<-ctx.Done()
		s.log.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.log.Info(ctx, "Starting HTTP server", "address", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) index(c *gin.Context) {
	c.String(http.StatusOK, livenessText)
}

// webhook accepts one JSON update per call and always acknowledges with OK:
// Telegram would otherwise redeliver the update, and a poison update must
// not wedge the queue. Processing failures are logged only.
func (s *Server) webhook(c *gin.Context) {
	ctx := c.Request.Context()

	var upd tgbotapi.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		s.log.Error(ctx, "malformed update payload", "error", err)
		c.String(http.StatusOK, "OK")
		return
	}

	s.process(ctx, upd)
	c.String(http.StatusOK, "OK")
}

func (s *Server) process(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(ctx, "update processing panicked", "update_id", upd.UpdateID, "panic", r)
		}
	}()
	s.handler.HandleUpdate(ctx, upd)
}

func (s *Server) debug(c *gin.Context) {
	info, err := s.bot.WebhookInfo()
	if err != nil {
		s.log.Error(c.Request.Context(), "webhook info error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// redirect turns "/<token>" into the bot's deep-link start URL. Without the
// bot's own identity there is nothing to redirect to.
func (s *Server) redirect(c *gin.Context) {
	username := s.bot.Username()
	if username == "" {
		c.String(http.StatusNotFound, "not found")
		return
	}
	c.Redirect(http.StatusFound, "https://t.me/"+username+"?start="+c.Param("token"))
}
