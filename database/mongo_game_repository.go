package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
)

// MongoGameRepository implements interfaces.GameRepository for MongoDB.
// Games are owned by the schedule ingestion layer; this repository only reads.
type MongoGameRepository struct {
	collection *mongo.Collection
}

// NewMongoGameRepository creates a game repository and its query indexes
func NewMongoGameRepository(db *MongoDB) *MongoGameRepository {
	collection := db.GetCollection("games")

	ctx, cancel := indexContext()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "season", Value: 1},
				{Key: "week", Value: 1},
			},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warnf("Could not create game indexes: %v", err)
	}

	return &MongoGameRepository{collection: collection}
}

// FindByID retrieves a game by its feed ID, (nil, nil) when absent
func (r *MongoGameRepository) FindByID(ctx context.Context, gameID string) (*models.Game, error) {
	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"id": gameID}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find game by ID: %w", err)
	}
	return &game, nil
}

// FindByWeek retrieves all games for a season/week ordered by kickoff
func (r *MongoGameRepository) FindByWeek(ctx context.Context, season, week int) ([]*models.Game, error) {
	filter := bson.M{"season": season, "week": week}
	opts := options.Find().SetSort(bson.D{
		{Key: "kickoff", Value: 1},
		{Key: "id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find games by week: %w", err)
	}
	defer cursor.Close(ctx)

	var games []*models.Game
	for cursor.Next(ctx) {
		var game models.Game
		if err := cursor.Decode(&game); err != nil {
			return nil, fmt.Errorf("failed to decode game: %w", err)
		}
		games = append(games, &game)
	}

	return games, cursor.Err()
}
