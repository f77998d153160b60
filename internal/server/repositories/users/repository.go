package users

import (
	"context"

	"filegate/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, user *models.User) error
}
