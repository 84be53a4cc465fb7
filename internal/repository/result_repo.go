package repository

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brainstorm/internal/model"
)

// ResultRepo archives finished games
type ResultRepo interface {
	Save(ctx context.Context, result *model.GameResult) error
	ListRecent(ctx context.Context, limit int) ([]model.GameResult, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(client *mongo.Client, dbName string) ResultRepo {
	db := client.Database(dbName)
	return &resultRepo{
		collection: db.Collection("results"),
	}
}

func (r *resultRepo) Save(ctx context.Context, result *model.GameResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	_, err := r.collection.InsertOne(ctx, result)
	return err
}

// ListRecent returns the most recently finished games first
func (r *resultRepo) ListRecent(ctx context.Context, limit int) ([]model.GameResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "finishedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := make([]model.GameResult, 0, limit)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
