package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ChatRef identifies a chat either by numeric ID (private channels,
// "-100..." style) or by public @username. Exactly one field is set.
type ChatRef struct {
	ID       int64
	Username string
}

// ParseChatRef interprets a configured chat reference. Anything that parses
// as an integer is a chat ID; everything else is a username, normalized to
// carry the leading "@".
func ParseChatRef(s string) ChatRef {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ChatRef{ID: id}
	}
	if s != "" && !strings.HasPrefix(s, "@") {
		s = "@" + s
	}
	return ChatRef{Username: s}
}

// String renders the reference the way it was configured.
func (r ChatRef) String() string {
	if r.Username != "" {
		return r.Username
	}
	return strconv.FormatInt(r.ID, 10)
}

// CopyConfig builds a copyMessage request moving messageID from one chat to
// another, preserving media and caption.
func CopyConfig(to, from ChatRef, messageID int) tgbotapi.CopyMessageConfig {
	return tgbotapi.CopyMessageConfig{
		BaseChat: tgbotapi.BaseChat{
			ChatID:          to.ID,
			ChannelUsername: to.Username,
		},
		FromChatID:          from.ID,
		FromChannelUsername: from.Username,
		MessageID:           messageID,
	}
}

// MemberConfig builds a getChatMember request for one user in one chat.
func MemberConfig(ch ChatRef, userID int64) tgbotapi.GetChatMemberConfig {
	return tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID:             ch.ID,
			SuperGroupUsername: ch.Username,
			UserID:             userID,
		},
	}
}

// InviteLinkConfig builds an exportChatInviteLink request.
func InviteLinkConfig(ch ChatRef) tgbotapi.ChatInviteLinkConfig {
	return tgbotapi.ChatInviteLinkConfig{
		ChatConfig: tgbotapi.ChatConfig{
			ChatID:             ch.ID,
			SuperGroupUsername: ch.Username,
		},
	}
}
