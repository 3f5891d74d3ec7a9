package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
)

// MongoPickRepository implements interfaces.PickStore for MongoDB.
//
// The single-pick-per-(user,game) invariant is enforced twice: by the unique
// compound index, and by every write going through a DB-native upsert on that
// key. The service layer never does read-then-write for submissions.
type MongoPickRepository struct {
	collection *mongo.Collection
	client     *mongo.Client
}

// NewMongoPickRepository creates a pick repository and its indexes
func NewMongoPickRepository(db *MongoDB) *MongoPickRepository {
	collection := db.GetCollection("picks")

	ctx, cancel := indexContext()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "game_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "season", Value: 1},
				{Key: "week", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "game_id", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "season", Value: 1},
				{Key: "week", Value: 1},
			},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warnf("Could not create pick indexes: %v", err)
	}

	return &MongoPickRepository{
		collection: collection,
		client:     db.Client(),
	}
}

func indexContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// UpsertOne atomically creates or overwrites the pick for (user_id, game_id)
// in one FindOneAndUpdate round trip and returns the stored document.
// SubmittedAt and the scoring fields are written only on insert, so a
// resubmission keeps the original submission time and any prior scoring.
func (r *MongoPickRepository) UpsertOne(ctx context.Context, pick *models.Pick) (*models.Pick, error) {
	return r.upsertOne(ctx, r.collection, pick)
}

func (r *MongoPickRepository) upsertOne(ctx context.Context, collection *mongo.Collection, pick *models.Pick) (*models.Pick, error) {
	filter := bson.M{
		"user_id": pick.UserID,
		"game_id": pick.GameID,
	}
	update := bson.M{
		"$set": bson.M{
			"season":           pick.Season,
			"week":             pick.Week,
			"selected_team_id": pick.SelectedTeamID,
			"tiebreaker_score": pick.TiebreakerScore,
			"updated_at":       pick.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"user_id":        pick.UserID,
			"game_id":        pick.GameID,
			"submitted_at":   pick.SubmittedAt,
			"points_awarded": 0,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.Pick
	if err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, fmt.Errorf("failed to upsert pick: %w", err)
	}
	return &saved, nil
}

// UpsertMany applies every upsert inside one transaction; a failure or a
// context cancellation rolls the whole batch back.
func (r *MongoPickRepository) UpsertMany(ctx context.Context, picks []*models.Pick) ([]*models.Pick, error) {
	if len(picks) == 0 {
		return nil, nil
	}

	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		saved := make([]*models.Pick, 0, len(picks))
		for _, pick := range picks {
			s, err := r.upsertOne(sc, r.collection, pick)
			if err != nil {
				return nil, err
			}
			saved = append(saved, s)
		}
		return saved, nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk pick upsert failed: %w", err)
	}

	return result.([]*models.Pick), nil
}

// ListByUser retrieves a user's picks for a season, one week when week is set
func (r *MongoPickRepository) ListByUser(ctx context.Context, userID string, season int, week *int) ([]*models.Pick, error) {
	filter := bson.M{
		"user_id": userID,
		"season":  season,
	}
	if week != nil {
		filter["week"] = *week
	}
	return r.list(ctx, filter)
}

// ListByGame retrieves all picks for a game
func (r *MongoPickRepository) ListByGame(ctx context.Context, gameID string) ([]*models.Pick, error) {
	return r.list(ctx, bson.M{"game_id": gameID})
}

// ListByWeek retrieves all picks for a season/week
func (r *MongoPickRepository) ListByWeek(ctx context.Context, season, week int) ([]*models.Pick, error) {
	return r.list(ctx, bson.M{"season": season, "week": week})
}

// ListBySeason retrieves all picks for a season
func (r *MongoPickRepository) ListBySeason(ctx context.Context, season int) ([]*models.Pick, error) {
	return r.list(ctx, bson.M{"season": season})
}

func (r *MongoPickRepository) list(ctx context.Context, filter bson.M) ([]*models.Pick, error) {
	// Stable ordering keeps derived views reproducible across calls
	opts := options.Find().SetSort(bson.D{
		{Key: "week", Value: 1},
		{Key: "game_id", Value: 1},
		{Key: "user_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find picks: %w", err)
	}
	defer cursor.Close(ctx)

	var picks []*models.Pick
	for cursor.Next(ctx) {
		var pick models.Pick
		if err := cursor.Decode(&pick); err != nil {
			return nil, fmt.Errorf("failed to decode pick: %w", err)
		}
		picks = append(picks, &pick)
	}

	return picks, cursor.Err()
}

// UpdateScoring sets the scoring result of one pick
func (r *MongoPickRepository) UpdateScoring(ctx context.Context, pickID primitive.ObjectID, isCorrect *bool, points int) error {
	update := bson.M{
		"$set": bson.M{
			"is_correct":     isCorrect,
			"points_awarded": points,
			"updated_at":     time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": pickID}, update)
	if err != nil {
		return fmt.Errorf("failed to update pick scoring: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("pick %s not found", pickID.Hex())
	}

	return nil
}
