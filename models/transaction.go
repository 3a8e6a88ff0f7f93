package models

import (
	"time"
)

// TransactionReason represents why points were awarded or deducted
type TransactionReason string

const (
	TransactionReasonPrediction TransactionReason = "prediction"
	TransactionReasonBonus      TransactionReason = "bonus"
	TransactionReasonLesson     TransactionReason = "lesson"
	TransactionReasonPenalty    TransactionReason = "penalty"
)

// PointsTransaction represents a single immutable ledger entry. The sum of a
// user's transactions is their total points; no cached running total is
// authoritative.
type PointsTransaction struct {
	ID           int64             `db:"id"`
	UserID       int64             `db:"user_id"`
	GameID       *int64            `db:"game_id"`
	PredictionID *int64            `db:"prediction_id"`
	Amount       int64             `db:"amount"`
	Reason       TransactionReason `db:"reason"`
	Note         string            `db:"note"`
	Breakdown    map[string]any    `db:"breakdown"`
	CreatedAt    time.Time         `db:"created_at"`
}
