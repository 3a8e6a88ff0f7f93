package models

import (
	"time"
)

// PredictionType represents the shape of a prediction
type PredictionType string

const (
	PredictionTypeGameWinner PredictionType = "GAME_WINNER"
	PredictionTypeFinalScore PredictionType = "FINAL_SCORE"
	PredictionTypeTeamThrees PredictionType = "TEAM_THREES"
)

// MaxTeamThrees bounds a predicted per-team three-pointer count
const MaxTeamThrees = 99

// Pick is the type-specific payload of a prediction. Exactly one concrete
// pick type exists per PredictionType, so each settlement path only sees the
// fields its shape actually has.
type Pick interface {
	PredictionType() PredictionType
}

// GameWinnerPick predicts which side wins
type GameWinnerPick struct {
	Winner Side `json:"winner"`
}

func (p GameWinnerPick) PredictionType() PredictionType {
	return PredictionTypeGameWinner
}

// FinalScorePick predicts the winning side and the exact final score
type FinalScorePick struct {
	Winner    Side `json:"winner"`
	HomeScore int  `json:"homeScore"`
	AwayScore int  `json:"awayScore"`
}

func (p FinalScorePick) PredictionType() PredictionType {
	return PredictionTypeFinalScore
}

// TeamThreesPick predicts each team's made three-pointers
type TeamThreesPick struct {
	HomeThrees int `json:"homeThrees"`
	AwayThrees int `json:"awayThrees"`
}

func (p TeamThreesPick) PredictionType() PredictionType {
	return PredictionTypeTeamThrees
}

// Prediction represents a user's forecast for one game
type Prediction struct {
	ID            int64          `db:"id"`
	UserID        int64          `db:"user_id"`
	GameID        int64          `db:"game_id"`
	Type          PredictionType `db:"prediction_type"`
	Pick          Pick           `db:"pick"`
	Locked        bool           `db:"locked"`
	PointsEarned  *int64         `db:"points_earned"`
	AccuracyScore *int           `db:"accuracy_score"`
	OutcomeSnapshot *GameOutcome `db:"outcome_snapshot"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// IsSettled checks whether the prediction has already been awarded points.
// Both settlement fields are set together, so points_earned alone is the gate.
func (p *Prediction) IsSettled() bool {
	return p.PointsEarned != nil
}

// IsCorrect reports the canonical correct predicate: a settled prediction
// that earned a positive number of points.
func (p *Prediction) IsCorrect() bool {
	return p.PointsEarned != nil && *p.PointsEarned > 0
}

// CanBeEdited checks whether the owner may still change or delete the prediction
func (p *Prediction) CanBeEdited() bool {
	return !p.Locked && !p.IsSettled()
}
