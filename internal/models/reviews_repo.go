package models

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewsRepo interface {
	ListReviews(ctx context.Context, where Equal) ([]*Review, error)
	GetReview(ctx context.Context, id string) (*Review, error)
	HasReviewed(ctx context.Context, userID, locationID string) (bool, error)
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	DeleteReview(ctx context.Context, review *Review) error
	UpvoteReview(ctx context.Context, reviewID, actorID string) (*Review, error)
}

func ByLocation(locationID string) Equal { return Equal{Field: "location_id", Value: locationID} }
func ByAuthor(userID string) Equal       { return Equal{Field: "user_id", Value: userID} }

func (mdb *MongodbRepo) ListReviews(ctx context.Context, where Equal) ([]*Review, error) {
	col, err := mdb.GetCollection(ReviewsColName)
	if err != nil {
		return nil, err
	}
	return findMany[Review](ctx, col, where.filter(), 0)
}

func (mdb *MongodbRepo) GetReview(ctx context.Context, id string) (*Review, error) {
	col, err := mdb.GetCollection(ReviewsColName)
	if err != nil {
		return nil, err
	}
	return findOne[Review](ctx, col, id, "review")
}

func (mdb *MongodbRepo) HasReviewed(ctx context.Context, userID, locationID string) (bool, error) {
	col, err := mdb.GetCollection(ReviewsColName)
	if err != nil {
		return false, err
	}
	err = col.FindOne(ctx, bson.M{"user_id": userID, "location_id": locationID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, Transport("failed to check existing review", err)
	}
	return true, nil
}

// CreateReview inserts the review and folds its rating into the location in
// one transaction.
func (mdb *MongodbRepo) CreateReview(ctx context.Context, review *Review) (*Review, error) {
	col, err := mdb.GetCollection(ReviewsColName)
	if err != nil {
		return nil, err
	}

	_, err = mdb.withTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := col.InsertOne(sc, review); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrDuplicateReview
			}
			return nil, Transport("failed to insert review into database", err)
		}
		return nil, mdb.foldLocationRating(sc, review.LocationID, review.OverallRating, 1)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (mdb *MongodbRepo) DeleteReview(ctx context.Context, review *Review) error {
	col, err := mdb.GetCollection(ReviewsColName)
	if err != nil {
		return err
	}

	_, err = mdb.withTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := col.DeleteOne(sc, bson.M{"_id": review.ID})
		if err != nil {
			return nil, Transport("failed to delete review", err)
		}
		if res.DeletedCount == 0 {
			return nil, NotFound("review")
		}
		return nil, mdb.foldLocationRating(sc, review.LocationID, review.OverallRating, -1)
	})
	return err
}
