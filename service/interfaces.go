package service

import (
	"context"
	"time"

	"archoops/events"
	"archoops/models"
	"archoops/scoring"
)

// GameRepository defines the interface for game data access
type GameRepository interface {
	// Create creates a new game record
	Create(ctx context.Context, game *models.Game) error

	// GetByID retrieves a game by its ID, returning nil when not found
	GetByID(ctx context.Context, id int64) (*models.Game, error)

	// Complete transitions a game to COMPLETED with final scores; reports
	// whether this call performed the transition
	Complete(ctx context.Context, id int64, homeScore, awayScore int) (bool, error)

	// MarkLive transitions a scheduled game to LIVE
	MarkLive(ctx context.Context, id int64) error

	// ListCompletedWithUnsettled returns completed games that still have unsettled predictions
	ListCompletedWithUnsettled(ctx context.Context) ([]*models.Game, error)

	// ListStale returns in-progress games whose start time is before the threshold
	ListStale(ctx context.Context, startedBefore time.Time) ([]*models.Game, error)
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	// Create creates a new prediction record
	Create(ctx context.Context, pred *models.Prediction) error

	// GetByID retrieves a prediction by its ID, returning nil when not found
	GetByID(ctx context.Context, id int64) (*models.Prediction, error)

	// ListUnsettledByGame returns predictions for a game with no points awarded yet
	ListUnsettledByGame(ctx context.Context, gameID int64) ([]*models.Prediction, error)

	// ListSettledByUser returns settled predictions ordered by game start time
	ListSettledByUser(ctx context.Context, userID int64, ascending bool) ([]*models.Prediction, error)

	// CountByUser returns total, settled, and correct prediction counts
	CountByUser(ctx context.Context, userID int64) (total, settled, correct int, err error)

	// Settle conditionally writes the settlement result; false means another
	// settler already won the points_earned IS NULL gate
	Settle(ctx context.Context, id int64, points int64, accuracy int, snapshot *models.GameOutcome) (bool, error)

	// LockByGame locks all predictions for a game
	LockByGame(ctx context.Context, gameID int64) error

	// Delete removes an unlocked prediction owned by the user
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// TransactionRepository defines the interface for ledger data access
type TransactionRepository interface {
	// Record appends a new ledger entry
	Record(ctx context.Context, txn *models.PointsTransaction) error

	// SumByUser returns the sum of all the user's transaction amounts
	SumByUser(ctx context.Context, userID int64) (int64, error)

	// SumByUserSince returns the sum of amounts created at or after the given time
	SumByUserSince(ctx context.Context, userID int64, since time.Time) (int64, error)

	// List returns up to limit transactions newest first, optionally before a
	// cursor and filtered by reason or game
	List(ctx context.Context, userID int64, before *time.Time, reason *models.TransactionReason, gameID *int64, limit int) ([]*models.PointsTransaction, error)

	// GetByUserAndGame returns the user's prediction transaction for a game, or nil
	GetByUserAndGame(ctx context.Context, userID, gameID int64) (*models.PointsTransaction, error)

	// CountByGame returns how many prediction transactions exist for a game
	CountByGame(ctx context.Context, gameID int64) (int, error)
}

// PlayerStatRepository defines the interface for raw statistic data access
type PlayerStatRepository interface {
	// CreateBatch inserts raw statistic records
	CreateBatch(ctx context.Context, stats []*models.PlayerStat) error

	// SumThreesByTeam sums made three-pointers per team abbreviation
	SumThreesByTeam(ctx context.Context, gameID int64) (map[string]int, error)

	// ListByGame returns all raw statistic records for a game
	ListByGame(ctx context.Context, gameID int64) ([]*models.PlayerStat, error)
}

// EventPublisher defines the interface for publishing events within a unit of work
type EventPublisher interface {
	Publish(e events.Event)
}

// UnitOfWork defines a transactional boundary over the repositories
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	GameRepository() GameRepository
	PredictionRepository() PredictionRepository
	TransactionRepository() TransactionRepository
	PlayerStatRepository() PlayerStatRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// ScoreFunc maps a prediction and a normalized outcome to a point breakdown.
// scoring.Score is the production binding; tests substitute their own.
type ScoreFunc func(pred *models.Prediction, outcome *models.GameOutcome) (*scoring.Breakdown, error)

// OutcomeService builds normalized game outcomes
type OutcomeService interface {
	// BuildOutcome derives the normalized result of a completed game
	BuildOutcome(ctx context.Context, gameID int64) (*models.GameOutcome, error)
}

// SettlementService converts predictions on completed games into point awards
type SettlementService interface {
	// SettlePrediction settles one prediction; nil breakdown with nil error
	// means the call was a no-op (already settled or game not complete)
	SettlePrediction(ctx context.Context, predictionID int64) (*scoring.Breakdown, error)

	// SettleGame settles every unsettled prediction for a game independently
	SettleGame(ctx context.Context, gameID int64) ([]*scoring.Breakdown, error)
}

// CompletionService detects finished games and drives settlement
type CompletionService interface {
	// ProcessCompletedGames settles every completed game with unsettled
	// predictions and returns how many games were processed
	ProcessCompletedGames(ctx context.Context) (int, error)

	// CompleteGame performs operator-driven manual completion and settles
	CompleteGame(ctx context.Context, gameID int64, homeScore, awayScore int) error

	// SimulateCompletion completes a game with plausible random scores
	SimulateCompletion(ctx context.Context, gameID int64) error

	// FindStaleGames returns games still in progress past the grace window
	FindStaleGames(ctx context.Context) ([]*models.Game, error)
}

// SummaryService computes derived aggregates from the ledger and predictions
type SummaryService interface {
	// GetSummary recomputes a user's point summary as of now
	GetSummary(ctx context.Context, userID int64, now time.Time) (*models.PointsSummary, error)

	// GetHistory returns one page of ledger history
	GetHistory(ctx context.Context, userID int64, query models.HistoryQuery) (*models.TransactionPage, error)

	// GetGameSummary returns the user's prediction transaction for a game, or nil
	GetGameSummary(ctx context.Context, gameID, userID int64) (*models.PointsTransaction, error)
}

// AdjustmentService appends operator and lesson ledger entries
type AdjustmentService interface {
	// AdjustPoints records a manual bonus or penalty
	AdjustPoints(ctx context.Context, userID int64, amount int64, reason models.TransactionReason, note string) (*models.PointsTransaction, error)

	// AwardLessonPoints records a lesson completion award
	AwardLessonPoints(ctx context.Context, userID, lessonID int64, amount int64) (*models.PointsTransaction, error)
}
