package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type LocationsRepo interface {
	ListLocations(ctx context.Context, where Equal) ([]*Location, error)
	GetLocation(ctx context.Context, id string) (*Location, error)
	CreateLocation(ctx context.Context, loc *Location) (*Location, error)
	SeedLocations(ctx context.Context, locs []Location) (int64, error)
}

func (mdb *MongodbRepo) ListLocations(ctx context.Context, where Equal) ([]*Location, error) {
	col, err := mdb.GetCollection(LocationsColName)
	if err != nil {
		return nil, err
	}
	return findMany[Location](ctx, col, where.filter(), 0)
}

func (mdb *MongodbRepo) GetLocation(ctx context.Context, id string) (*Location, error) {
	col, err := mdb.GetCollection(LocationsColName)
	if err != nil {
		return nil, err
	}
	return findOne[Location](ctx, col, id, "location")
}

func (mdb *MongodbRepo) CreateLocation(ctx context.Context, loc *Location) (*Location, error) {
	col, err := mdb.GetCollection(LocationsColName)
	if err != nil {
		return nil, err
	}
	if _, err := col.InsertOne(ctx, loc); err != nil {
		return nil, Transport("failed to insert location", err)
	}
	return loc, nil
}

// SeedLocations upserts the given locations by id and returns how many
// documents were inserted or changed.
func (mdb *MongodbRepo) SeedLocations(ctx context.Context, locs []Location) (int64, error) {
	if len(locs) == 0 {
		return 0, nil
	}
	col, err := mdb.GetCollection(LocationsColName)
	if err != nil {
		return 0, err
	}

	writes := make([]mongo.WriteModel, 0, len(locs))
	for i := range locs {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": locs[i].ID}).
			SetReplacement(locs[i]).
			SetUpsert(true))
	}

	res, err := col.BulkWrite(ctx, writes)
	if err != nil {
		return 0, Transport("failed to seed locations", err)
	}
	return res.UpsertedCount + res.ModifiedCount, nil
}

// ratingFold returns an update pipeline that folds one rating into, or out
// of, a location's running average. sign is +1 to add and -1 to remove.
func ratingFold(rating int, sign int) bson.A {
	count := bson.M{"$ifNull": bson.A{"$review_count", 0}}
	avg := bson.M{"$ifNull": bson.A{"$avg_rating", 0}}
	newCount := bson.M{"$max": bson.A{bson.M{"$add": bson.A{count, sign}}, 0}}
	total := bson.M{"$add": bson.A{bson.M{"$multiply": bson.A{avg, count}}, sign * rating}}

	return bson.A{
		bson.M{"$set": bson.M{
			"avg_rating": bson.M{"$cond": bson.A{
				bson.M{"$lte": bson.A{newCount, 0}},
				0,
				bson.M{"$round": bson.A{bson.M{"$divide": bson.A{total, newCount}}, 2}},
			}},
			"review_count": newCount,
		}},
	}
}

func (mdb *MongodbRepo) foldLocationRating(ctx context.Context, locationID string, rating, sign int) error {
	col, err := mdb.GetCollection(LocationsColName)
	if err != nil {
		return err
	}
	if _, err := col.UpdateOne(ctx, bson.M{"_id": locationID}, ratingFold(rating, sign)); err != nil {
		return Transport(fmt.Sprintf("failed to update rating of location %s", locationID), err)
	}
	return nil
}
