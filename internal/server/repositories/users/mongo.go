package users

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"filegate/internal/server/models"
)

const collectionName = "users"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(collectionName)}
}

// Upsert writes the directory record keyed by Telegram user ID, inserting it
// on first contact and refreshing the name fields and last-seen timestamp on
// every later one.
func (r *MongoRepository) Upsert(ctx context.Context, user *models.User) error {
	filter := bson.M{"user_id": user.TelegramID}
	update := bson.M{"$set": user}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
