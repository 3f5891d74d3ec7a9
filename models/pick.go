package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pick represents a user's prediction for a game.
// At most one pick exists per (user_id, game_id); resubmissions before kickoff
// overwrite the selection in place rather than creating a new row.
type Pick struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"user_id" json:"user_id"`
	GameID          string             `bson:"game_id" json:"game_id"`
	Season          int                `bson:"season" json:"season"`
	Week            int                `bson:"week" json:"week"`
	SelectedTeamID  string             `bson:"selected_team_id" json:"selected_team_id"`
	TiebreakerScore *int               `bson:"tiebreaker_score,omitempty" json:"tiebreaker_score,omitempty"`
	SubmittedAt     time.Time          `bson:"submitted_at" json:"submitted_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`

	// Scoring fields, written only by the scoring engine once the game is final.
	// IsCorrect stays nil for unscored picks and for tie games.
	IsCorrect     *bool `bson:"is_correct,omitempty" json:"is_correct,omitempty"`
	PointsAwarded int   `bson:"points_awarded" json:"points_awarded"`
}

// NewPick builds an unscored pick for the given game
func NewPick(userID string, game *Game, teamID string, tiebreaker *int, now time.Time) *Pick {
	return &Pick{
		UserID:          userID,
		GameID:          game.ID,
		Season:          game.Season,
		Week:            game.Week,
		SelectedTeamID:  teamID,
		TiebreakerScore: tiebreaker,
		SubmittedAt:     now,
		UpdatedAt:       now,
	}
}

// IsScored returns true once the scoring engine has resolved this pick
func (p *Pick) IsScored() bool {
	return p.IsCorrect != nil
}

// ScoringEquals reports whether the stored scoring fields already match the
// given values, so a rescoring pass can skip the write.
func (p *Pick) ScoringEquals(isCorrect *bool, points int) bool {
	if p.PointsAwarded != points {
		return false
	}
	if (p.IsCorrect == nil) != (isCorrect == nil) {
		return false
	}
	return p.IsCorrect == nil || *p.IsCorrect == *isCorrect
}
