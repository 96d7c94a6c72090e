package repo

import (
	"context"
	"errors"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunRepo handles the persistence of completed runs.
type RunRepo struct {
	collection *mongo.Collection
}

var _ i.RunRepo = &RunRepo{}

// NewRunRepo creates a new RunRepo with the given MongoDB client, database name, and collection name.
func NewRunRepo(client *mongo.Client, dbName, collectionName string) *RunRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &RunRepo{
		collection: collection,
	}
}

// EnsureIndexes creates the index ByDigest reads through.
func (r *RunRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "digest", Value: 1}, {Key: "steps", Value: 1}},
	})
	return err
}

// Save inserts a run, replacing any run with the same ID.
func (r *RunRepo) Save(ctx context.Context, run *dmn.Run) error {
	filter := bson.M{"_id": run.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, filter, run, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// ByDigest returns up to limit runs of one maze, fewest steps first.
func (r *RunRepo) ByDigest(ctx context.Context, digest string, limit int64) ([]*dmn.Run, error) {
	filter := bson.M{"digest": digest}
	opts := options.Find().
		SetSort(bson.D{{Key: "steps", Value: 1}, {Key: "finishedAt", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	defer cursor.Close(ctx)

	runs := make([]*dmn.Run, 0)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return runs, nil
}
