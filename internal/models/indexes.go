package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the lookup indexes and the unique (author, location)
// index that backs the one-review-per-location rule.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	reviews, err := mdb.GetCollection(ReviewsColName)
	if err != nil {
		return err
	}
	locations, err := mdb.GetCollection(LocationsColName)
	if err != nil {
		return err
	}

	reviewIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "location_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("author_location_unique"),
		},
		{
			Keys:    bson.D{{Key: "location_id", Value: 1}},
			Options: options.Index().SetName("location_id_idx"),
		},
	}
	if _, err := reviews.Indexes().CreateMany(ctx, reviewIndexes); err != nil {
		return Transport("error creating review indexes", err)
	}

	if _, err := locations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}},
		Options: options.Index().SetName("status_idx"),
	}); err != nil {
		return Transport("error creating location indexes", err)
	}
	return nil
}
