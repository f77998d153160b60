// Package handler routes inbound Telegram updates to the dump and retrieval
// workflows.
package handler

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"filegate/internal/logging"
	"filegate/internal/server/services"
)

const (
	helpText      = "Available commands:\n/start - Welcome message\n/help - This help text"
	rejectionText = "You are not allowed to upload files here."
)

// Sender is the Bot API subset the router itself needs for replies and
// callback acknowledgements.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler dispatches one update at a time: commands, retry callbacks, and
// admin uploads. The admin set is fixed at construction.
type Handler struct {
	api       Sender
	log       logging.Logger
	admins    map[int64]struct{}
	users     *services.UserService
	dump      *services.DumpService
	retrieval *services.RetrievalService
}

func New(api Sender, log logging.Logger, adminIDs []int64, users *services.UserService, dump *services.DumpService, retrieval *services.RetrievalService) *Handler {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Handler{
		api:       api,
		log:       log.With("module", "handler"),
		admins:    admins,
		users:     users,
		dump:      dump,
		retrieval: retrieval,
	}
}

// HandleUpdate processes a single webhook update. Unknown update types are
// ignored.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		h.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		h.handleMessage(ctx, upd.Message)
	}
}

func (h *Handler) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	if m.From == nil {
		return
	}

	if m.IsCommand() {
		h.handleCommand(ctx, m)
		return
	}

	if _, ok := h.admins[m.From.ID]; !ok {
		h.reply(ctx, m, rejectionText)
		return
	}
	h.dump.HandleUpload(ctx, m)
}

func (h *Handler) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	switch m.Command() {
	case "start":
		h.users.RegisterVisit(ctx, m.From)
		if tok := strings.TrimSpace(m.CommandArguments()); tok != "" {
			h.retrieval.Handle(ctx, m.From.ID, m.Chat.ID, tok)
			return
		}
		h.reply(ctx, m, "Welcome, "+m.From.FirstName+"! Send this bot a link to receive files.")
	case "help":
		h.reply(ctx, m, helpText)
	}
}

// handleCallback serves the "Try again" button: acknowledge the callback,
// then re-run the shared retrieval path with the embedded token.
func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := h.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		h.log.Error(ctx, "callback answer failed", "error", err)
	}

	if q.From == nil || q.Message == nil {
		return
	}
	h.users.RegisterVisit(ctx, q.From)

	if !strings.HasPrefix(q.Data, services.RetryPrefix) {
		return
	}
	tok := strings.TrimPrefix(q.Data, services.RetryPrefix)
	h.retrieval.Handle(ctx, q.From.ID, q.Message.Chat.ID, tok)
}

func (h *Handler) reply(ctx context.Context, m *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(m.Chat.ID, text)
	msg.ReplyToMessageID = m.MessageID
	if _, err := h.api.Send(msg); err != nil {
		h.log.Error(ctx, "reply failed", "chat_id", m.Chat.ID, "error", err)
	}
}
