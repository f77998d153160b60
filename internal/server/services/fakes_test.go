package services

import (
	"io"
	"log/slog"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"filegate/internal/logging"
)

// archiveOffset maps a source message ID to the fake's deterministic
// dump-channel message ID.
const archiveOffset = 1000

// fakeAPI implements telegram.API for tests. All recorders are guarded by a
// mutex because the batcher's flush callback runs on a timer goroutine.
type fakeAPI struct {
	mu sync.Mutex

	copies  []tgbotapi.CopyMessageConfig
	copyErr map[int]error // keyed by source message ID

	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable

	memberStatus map[string]string // keyed by chat reference
	memberErr    map[string]error
	inviteErr    map[string]error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		copyErr:      make(map[int]error),
		memberStatus: make(map[string]string),
		memberErr:    make(map[string]error),
		inviteErr:    make(map[string]error),
	}
}

func chatKey(id int64, username string) string {
	if username != "" {
		return username
	}
	return strconv.FormatInt(id, 10)
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) CopyMessage(c tgbotapi.CopyMessageConfig) (tgbotapi.MessageID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.copyErr[c.MessageID]; ok {
		return tgbotapi.MessageID{}, err
	}
	f.copies = append(f.copies, c)
	return tgbotapi.MessageID{MessageID: archiveOffset + c.MessageID}, nil
}

func (f *fakeAPI) GetChatMember(c tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	key := chatKey(c.ChatID, c.SuperGroupUsername)
	if err, ok := f.memberErr[key]; ok {
		return tgbotapi.ChatMember{}, err
	}
	return tgbotapi.ChatMember{Status: f.memberStatus[key]}, nil
}

func (f *fakeAPI) GetInviteLink(c tgbotapi.ChatInviteLinkConfig) (string, error) {
	key := chatKey(c.ChatID, c.SuperGroupUsername)
	if err, ok := f.inviteErr[key]; ok {
		return "", err
	}
	return "https://t.me/+join-" + key, nil
}

func (f *fakeAPI) sentSnapshot() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tgbotapi.MessageConfig, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeAPI) copiesSnapshot() []tgbotapi.CopyMessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tgbotapi.CopyMessageConfig, len(f.copies))
	copy(out, f.copies)
	return out
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
