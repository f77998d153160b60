// Package models holds the persisted record types.
package models

import "time"

// User is the upsert-only user directory record written on every /start.
// Nothing in the bot's decision logic reads it back.
type User struct {
	TelegramID int64     `bson:"user_id"`
	Username   string    `bson:"username"`
	FirstName  string    `bson:"first_name"`
	LastName   string    `bson:"last_name"`
	LastSeen   time.Time `bson:"last_seen"`
}
