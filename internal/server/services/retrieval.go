package services

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"filegate/internal/logging"
	"filegate/internal/telegram"
	"filegate/internal/token"
)

// RetryPrefix tags callback data carrying a token for a gate re-check.
const RetryPrefix = "retry:"

const (
	invalidLinkText   = "Invalid or expired link."
	gateText          = "To get the files, join both channels and press Try again."
	deliveryFailText  = "Failed to deliver one of the files."
	placeholderInvite = "#"
)

// Channel membership statuses that count as subscribed.
var activeMemberStatuses = map[string]bool{
	"member":        true,
	"administrator": true,
	"creator":       true,
}

// RetrievalService resolves a token from a deep-link start payload or a
// retry callback: decode, subscription gate, then re-delivery of the
// archived messages.
type RetrievalService struct {
	api      telegram.API
	log      logging.Logger
	dump     telegram.ChatRef
	channels []telegram.ChatRef
}

func NewRetrievalService(api telegram.API, log logging.Logger, dump telegram.ChatRef, channels []telegram.ChatRef) *RetrievalService {
	return &RetrievalService{
		api:      api,
		log:      log.With("module", "retrieval"),
		dump:     dump,
		channels: channels,
	}
}

// Handle runs one retrieval request for the user in the given chat. Every
// outcome is terminal: an invalid token notifies the user, a failed gate
// presents join and retry buttons, a passed gate delivers the files.
func (s *RetrievalService) Handle(ctx context.Context, userID, chatID int64, tok string) {
	payload, err := token.Decode(tok)
	if err != nil {
		s.log.Info(ctx, "token rejected", "user_id", userID, "error", err)
		s.send(ctx, tgbotapi.NewMessage(chatID, invalidLinkText))
		return
	}

	if !s.subscribed(ctx, userID) {
		s.sendGate(ctx, chatID, tok)
		return
	}

	s.deliver(ctx, chatID, payload)
}

// subscribed requires active membership in every configured channel;
// failing any one fails the whole gate.
func (s *RetrievalService) subscribed(ctx context.Context, userID int64) bool {
	for _, ch := range s.channels {
		if !s.isMember(ctx, userID, ch) {
			return false
		}
	}
	return true
}

// isMember collapses lookup errors to "not a member": a user who never
// interacted with the channel makes getChatMember fail, which is not a hard
// error.
func (s *RetrievalService) isMember(ctx context.Context, userID int64, ch telegram.ChatRef) bool {
	member, err := s.api.GetChatMember(telegram.MemberConfig(ch, userID))
	if err != nil {
		s.log.Info(ctx, "membership check failed", "user_id", userID, "channel", ch.String(), "error", err)
		return false
	}
	return activeMemberStatuses[member.Status]
}

// sendGate presents a join button per channel plus a retry button carrying
// the same token.
func (s *RetrievalService) sendGate(ctx context.Context, chatID int64, tok string) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(s.channels)+1)
	for i, ch := range s.channels {
		label := "Join channel " + string(rune('1'+i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(label, s.inviteLink(ctx, ch)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Try again", RetryPrefix+tok),
	))

	msg := tgbotapi.NewMessage(chatID, gateText)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	s.send(ctx, msg)
}

// inviteLink exports an invite link on demand; on failure the button gets a
// non-functional placeholder rather than aborting the whole response.
func (s *RetrievalService) inviteLink(ctx context.Context, ch telegram.ChatRef) string {
	link, err := s.api.GetInviteLink(telegram.InviteLinkConfig(ch))
	if err != nil {
		s.log.Error(ctx, "invite link export failed", "channel", ch.String(), "error", err)
		return placeholderInvite
	}
	return link
}

// deliver re-copies each archived message to the requester in token order.
// A failed copy is reported inline and does not stop the rest.
func (s *RetrievalService) deliver(ctx context.Context, chatID int64, payload token.Payload) {
	to := telegram.ChatRef{ID: chatID}
	for _, id := range payload.IDs {
		if _, err := s.api.CopyMessage(telegram.CopyConfig(to, s.dump, id)); err != nil {
			s.log.Error(ctx, "delivery failed", "chat_id", chatID, "dump_message_id", id, "error", err)
			s.send(ctx, tgbotapi.NewMessage(chatID, deliveryFailText))
		}
	}
	s.log.Info(ctx, "retrieval served", "chat_id", chatID, "kind", payload.Kind, "count", len(payload.IDs))
}

func (s *RetrievalService) send(ctx context.Context, msg tgbotapi.MessageConfig) {
	if _, err := s.api.Send(msg); err != nil {
		s.log.Error(ctx, "send failed", "chat_id", msg.ChatID, "error", err)
	}
}
