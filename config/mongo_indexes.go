package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DraftsCollection holds one document per saved email draft.
const DraftsCollection = "drafts"

func EnsureMongoIndexes(dbName string) error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoClient.Database(dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	drafts := db.Collection(DraftsCollection)
	_, err := drafts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_created"),
		},
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_session_created"),
		},
		{
			Keys:    bson.D{{Key: "file_name", Value: 1}},
			Options: options.Index().SetName("by_file_name"),
		},
	})
	return err
}
