// Package telegram wraps the Bot API surface the bot depends on behind a
// narrow interface, so services can be tested against fakes.
package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the subset of the Bot API the services use. *tgbotapi.BotAPI
// satisfies it directly. The underlying library does not take contexts, so
// neither does this interface; remote-call failures are handled by per-item
// isolation rather than cancellation.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	CopyMessage(c tgbotapi.CopyMessageConfig) (tgbotapi.MessageID, error)
	GetChatMember(c tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
	GetInviteLink(c tgbotapi.ChatInviteLinkConfig) (string, error)
}

// Client is the production API implementation plus the bot's own identity.
type Client struct {
	*tgbotapi.BotAPI
}

// NewClient authorizes against the Bot API. tgbotapi performs a getMe call,
// so a bad credential fails here rather than on first use.
func NewClient(botToken string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Client{BotAPI: api}, nil
}

// Username returns the bot's own username, used to build deep-link URLs.
func (c *Client) Username() string {
	return c.Self.UserName
}

// WebhookInfo reports the currently registered webhook.
func (c *Client) WebhookInfo() (tgbotapi.WebhookInfo, error) {
	return c.GetWebhookInfo()
}
