package services

import (
	"context"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"filegate/internal/logging"
	"filegate/internal/mediagroup"
	"filegate/internal/telegram"
	"filegate/internal/token"
)

const (
	storeFailedText      = "Failed to store the file, please try again later."
	storeBatchFailedText = "Failed to store the files, please try again later."
)

// DumpService archives admin uploads into the dump channel and replies with
// a permanent shareable link. Grouped uploads go through the media-group
// batcher and get their link asynchronously once the group flushes.
type DumpService struct {
	api     telegram.API
	log     logging.Logger
	dump    telegram.ChatRef
	baseURL string
	batch   *mediagroup.Batcher[*tgbotapi.Message]
}

func NewDumpService(api telegram.API, log logging.Logger, dump telegram.ChatRef, baseURL string, flushDelay time.Duration) *DumpService {
	s := &DumpService{
		api:     api,
		log:     log.With("module", "dump"),
		dump:    dump,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	s.batch = mediagroup.New(flushDelay, s.flushGroup)
	return s
}

// HandleUpload archives one admin-submitted message. Messages carrying a
// media-group ID are parked in the batcher; everything else is copied into
// the dump channel right away and answered with its link.
func (s *DumpService) HandleUpload(ctx context.Context, m *tgbotapi.Message) {
	if m.MediaGroupID != "" {
		s.batch.Add(m.MediaGroupID, m)
		return
	}

	id, err := s.archive(m)
	if err != nil {
		s.log.Error(ctx, "archive failed", "message_id", m.MessageID, "error", err)
		s.reply(ctx, m, storeFailedText)
		return
	}
	s.replyWithLink(ctx, m, token.Single, []int{id})
}

// archive copies the message into the dump channel, preserving media and
// caption, and returns the new dump-channel message ID. Tokens reference
// that ID, never the original.
func (s *DumpService) archive(m *tgbotapi.Message) (int, error) {
	from := telegram.ChatRef{ID: m.Chat.ID}
	res, err := s.api.CopyMessage(telegram.CopyConfig(s.dump, from, m.MessageID))
	if err != nil {
		return 0, err
	}
	return res.MessageID, nil
}

// flushGroup runs on the batcher's timer goroutine once per media group.
// Members arrive in network order; sorting by original message ID restores
// wire order before archiving. A failed copy is logged and its ID omitted
// from the token; the rest of the group still goes through.
func (s *DumpService) flushGroup(groupID string, msgs []*tgbotapi.Message) {
	ctx := context.Background()

	sort.Slice(msgs, func(i, j int) bool { return msgs[i].MessageID < msgs[j].MessageID })

	ids := make([]int, 0, len(msgs))
	for _, m := range msgs {
		id, err := s.archive(m)
		if err != nil {
			s.log.Error(ctx, "archive failed", "media_group_id", groupID, "message_id", m.MessageID, "error", err)
			continue
		}
		ids = append(ids, id)
	}

	// The link is attached to the last original message in sorted order.
	last := msgs[len(msgs)-1]
	if len(ids) == 0 {
		s.reply(ctx, last, storeBatchFailedText)
		return
	}
	s.replyWithLink(ctx, last, token.KindFor(len(ids)), ids)
}

func (s *DumpService) replyWithLink(ctx context.Context, m *tgbotapi.Message, kind token.Kind, ids []int) {
	t, err := token.Encode(kind, ids)
	if err != nil {
		s.log.Error(ctx, "token encode failed", "error", err)
		s.reply(ctx, m, storeFailedText)
		return
	}
	s.log.Info(ctx, "archived upload", "kind", kind, "count", len(ids))
	s.reply(ctx, m, s.baseURL+"/"+t)
}

func (s *DumpService) reply(ctx context.Context, m *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(m.Chat.ID, text)
	msg.ReplyToMessageID = m.MessageID
	if _, err := s.api.Send(msg); err != nil {
		s.log.Error(ctx, "reply failed", "chat_id", m.Chat.ID, "error", err)
	}
}
