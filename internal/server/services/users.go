// Package services contains the bot's business logic: the dump workflow,
// the retrieval workflow with its subscription gate, and user directory
// registration.
package services

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"filegate/internal/logging"
	"filegate/internal/server/models"
	usersrepo "filegate/internal/server/repositories/users"
)

// UserService records user visits in the directory. Registration is
// best-effort: a storage failure is logged and never surfaced to the user.
type UserService struct {
	repo usersrepo.Repository
	log  logging.Logger
}

func NewUserService(repo usersrepo.Repository, log logging.Logger) *UserService {
	return &UserService{repo: repo, log: log.With("module", "users")}
}

// RegisterVisit upserts the directory record for the user behind an inbound
// /start, stamping the current time as last seen.
func (s *UserService) RegisterVisit(ctx context.Context, from *tgbotapi.User) {
	if from == nil {
		return
	}
	user := &models.User{
		TelegramID: from.ID,
		Username:   from.UserName,
		FirstName:  from.FirstName,
		LastName:   from.LastName,
		LastSeen:   time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		s.log.Error(ctx, "user upsert failed", "user_id", from.ID, "error", err)
		return
	}
	s.log.Info(ctx, "registered user visit", "user_id", from.ID)
}
