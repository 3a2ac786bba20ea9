package models

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VotePlan describes the writes an accepted upvote commits.
type VotePlan struct {
	ReviewID     string
	ActorID      string
	AuthorID     string
	CreditAuthor bool
}

// PlanUpvote decides whether actorID may upvote r. It never mutates r.
func PlanUpvote(r *Review, actorID string) (VotePlan, error) {
	if actorID == "" {
		return VotePlan{}, ErrUnauthenticated
	}
	if r == nil {
		return VotePlan{}, NotFound("review")
	}
	if r.HasVoter(actorID) {
		return VotePlan{}, ErrDuplicateVote
	}
	return VotePlan{
		ReviewID:     r.ID,
		ActorID:      actorID,
		AuthorID:     r.UserID,
		CreditAuthor: r.UserID != "" && r.UserID != actorID,
	}, nil
}

// WithUpvote returns a copy of r with actorID counted. Used to reconcile
// local copies after the backend confirmed the vote.
func (r Review) WithUpvote(actorID string) Review {
	voters := make([]string, 0, len(r.UpvotedBy)+1)
	voters = append(voters, r.UpvotedBy...)
	r.UpvotedBy = append(voters, actorID)
	r.UpvoteCount = len(r.UpvotedBy)
	return r
}

// UpvoteReview adds actorID to the review's voters, bumps its counter and
// credits the author a crumb, all in one transaction.
func (mdb *MongodbRepo) UpvoteReview(ctx context.Context, reviewID, actorID string) (*Review, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	reviews, err := mdb.GetCollection(ReviewsColName)
	if err != nil {
		return nil, err
	}
	users, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, err
	}

	res, err := mdb.withTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var current Review
		err := reviews.FindOne(sc, bson.M{"_id": reviewID}).Decode(&current)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFound("review")
		}
		if err != nil {
			return nil, Transport("failed to read review", err)
		}

		plan, err := PlanUpvote(&current, actorID)
		if err != nil {
			return nil, err
		}

		var updated Review
		err = reviews.FindOneAndUpdate(sc,
			bson.M{"_id": reviewID, "upvoted_by": bson.M{"$ne": actorID}},
			bson.M{
				"$addToSet": bson.M{"upvoted_by": actorID},
				"$inc":      bson.M{"upvote_count": 1},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDuplicateVote
		}
		if err != nil {
			return nil, Transport("failed to record vote", err)
		}

		if plan.CreditAuthor {
			credit, err := users.UpdateOne(sc,
				bson.M{"_id": plan.AuthorID},
				bson.M{"$inc": bson.M{"crumbs": 1}},
			)
			if err != nil {
				return nil, Transport("failed to credit review author", err)
			}
			// Returning an error aborts the vote as well.
			if credit.MatchedCount == 0 {
				return nil, NotFound("review author")
			}
		}
		return &updated, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*Review), nil
}
