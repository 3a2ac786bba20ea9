package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultDbName = "crumbs"

var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("review_category", func(fl validator.FieldLevel) bool {
		return IsCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("quick_tag", func(fl validator.FieldLevel) bool {
		return IsQuickTag(fl.Field().String())
	})
	return v
}

type SupabaseRepo struct {
	supabaseClient *supabase.Client
}

func SupabaseNewRepo(supabaseClient *supabase.Client) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
	}
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	if dbName == "" {
		dbName = DefaultDbName
	}
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, Transport("mongodb client is not initialized", nil)
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

// withTransaction runs fn inside a multi-document transaction. Errors
// returned by fn abort the transaction and are passed through unchanged.
func (mdb *MongodbRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	if mdb.mongodbClient == nil {
		return nil, Transport("mongodb client is not initialized", nil)
	}
	session, err := mdb.mongodbClient.StartSession()
	if err != nil {
		return nil, Transport("failed to start session", err)
	}
	defer session.EndSession(ctx)

	res, err := session.WithTransaction(ctx, fn)
	if err != nil {
		return nil, dbErr("transaction failed", err)
	}
	return res, nil
}

// Equal is a single equality predicate. The zero value matches everything.
type Equal struct {
	Field string
	Value interface{}
}

func (e Equal) filter() bson.M {
	if e.Field == "" {
		return bson.M{}
	}
	return bson.M{e.Field: e.Value}
}

// findMany decodes every document matching filter into T. A limit of zero
// means no limit.
func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.M, limit int64) ([]*T, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, Transport(fmt.Sprintf("error querying %s", col.Name()), err)
	}
	defer cursor.Close(ctx)

	out := make([]*T, 0)
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, Transport(fmt.Sprintf("error decoding %s document", col.Name()), err)
		}
		out = append(out, &item)
	}
	if err := cursor.Err(); err != nil {
		return nil, Transport("cursor error", err)
	}
	return out, nil
}

func findOne[T any](ctx context.Context, col *mongo.Collection, id string, what string) (*T, error) {
	var item T
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound(what)
	}
	if err != nil {
		return nil, Transport(fmt.Sprintf("error finding %s", what), err)
	}
	return &item, nil
}

// dbErr keeps classified errors as they are and marks everything else as a
// transport failure.
func dbErr(msg string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Transport(msg, err)
}
