package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UsersRepo interface {
	ListUsers(ctx context.Context, limit int64) ([]*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	EnsureUser(ctx context.Context, user *User) (*User, error)
	UpdateProfile(ctx context.Context, id string, update *ProfileUpdate) (*User, error)
}

func (mdb *MongodbRepo) ListUsers(ctx context.Context, limit int64) ([]*User, error) {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, err
	}
	return findMany[User](ctx, col, bson.M{}, limit)
}

func (mdb *MongodbRepo) GetUser(ctx context.Context, id string) (*User, error) {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, err
	}
	return findOne[User](ctx, col, id, "user")
}

// EnsureUser returns the stored profile for user.ID, creating it from user
// when it does not exist yet.
func (mdb *MongodbRepo) EnsureUser(ctx context.Context, user *User) (*User, error) {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, err
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	update := bson.M{
		"$setOnInsert": bson.M{
			"display_name": user.DisplayName,
			"photo_url":    user.PhotoURL,
			"bio":          "",
			"crumbs":       0,
			"created_at":   user.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored User
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": user.ID}, update, opts).Decode(&stored); err != nil {
		return nil, Transport("error upserting user profile", err)
	}
	return &stored, nil
}

// UpdateProfile merges the non-nil fields of update into the profile.
func (mdb *MongodbRepo) UpdateProfile(ctx context.Context, id string, update *ProfileUpdate) (*User, error) {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.DisplayName != nil {
		set["display_name"] = *update.DisplayName
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.School != nil {
		set["school"] = update.School
	}
	doc := bson.M{}
	if len(set) > 0 {
		doc["$set"] = set
	}
	if update.ClearSchool && update.School == nil {
		doc["$unset"] = bson.M{"school": ""}
	}
	if len(doc) == 0 {
		return mdb.GetUser(ctx, id)
	}

	var stored User
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, doc,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("user")
	}
	if err != nil {
		return nil, Transport("failed to update profile", err)
	}
	return &stored, nil
}
