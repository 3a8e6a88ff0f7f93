package service

import (
	"context"
	"fmt"
	"math"

	"archoops/events"
	"archoops/models"
	"archoops/scoring"

	log "github.com/sirupsen/logrus"
)

type settlementService struct {
	uowFactory UnitOfWorkFactory
	score      ScoreFunc
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory, score ScoreFunc) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
		score:      score,
	}
}

// accuracyPct normalizes a point total to 0..100 against the fixed cap so
// accuracy stays comparable across prediction types
func accuracyPct(total int64) int {
	pct := int(math.Round(float64(total) / float64(scoring.MaxPoints) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// SettlePrediction settles one prediction within a single transaction.
// A nil breakdown with nil error means the call was a no-op: the prediction
// was already settled or its game has not completed. Repeating the call after
// a successful settlement never writes a second award.
func (s *settlementService) SettlePrediction(ctx context.Context, predictionID int64) (*scoring.Breakdown, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pred, err := uow.PredictionRepository().GetByID(ctx, predictionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	if pred == nil {
		return nil, fmt.Errorf("%w: %d", ErrPredictionNotFound, predictionID)
	}
	if pred.IsSettled() {
		return nil, nil
	}

	game, err := uow.GameRepository().GetByID(ctx, pred.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: %d", ErrGameNotFound, pred.GameID)
	}
	if !game.IsCompleted() {
		return nil, nil
	}

	outcome, err := buildOutcome(ctx, uow, game)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.score(pred, outcome)
	if err != nil {
		return nil, fmt.Errorf("failed to score prediction %d: %w", pred.ID, err)
	}

	// The points_earned IS NULL predicate inside Settle is the idempotency
	// gate; losing it means a concurrent settler already wrote the award.
	settled, err := uow.PredictionRepository().Settle(ctx, pred.ID, breakdown.Total, accuracyPct(breakdown.Total), outcome)
	if err != nil {
		return nil, err
	}
	if !settled {
		return nil, nil
	}

	txn := &models.PointsTransaction{
		UserID:       pred.UserID,
		GameID:       &pred.GameID,
		PredictionID: &pred.ID,
		Amount:       breakdown.Total,
		Reason:       models.TransactionReasonPrediction,
		Breakdown:    breakdown.Metadata(),
	}
	if err := uow.TransactionRepository().Record(ctx, txn); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.PredictionSettledEvent{
		PredictionID:  pred.ID,
		UserID:        pred.UserID,
		GameID:        pred.GameID,
		PointsEarned:  breakdown.Total,
		AccuracyScore: accuracyPct(breakdown.Total),
		TransactionID: txn.ID,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"predictionId": pred.ID,
		"userId":       pred.UserID,
		"gameId":       pred.GameID,
		"points":       breakdown.Total,
	}).Info("Settled prediction")

	return breakdown, nil
}

// SettleGame settles every unsettled prediction for a game. Each prediction
// settles in its own transaction, so one failure never aborts the rest; a
// later sweep naturally retries anything skipped here.
func (s *settlementService) SettleGame(ctx context.Context, gameID int64) ([]*scoring.Breakdown, error) {
	preds, err := s.listUnsettled(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var breakdowns []*scoring.Breakdown
	var failed int
	for _, pred := range preds {
		breakdown, err := s.SettlePrediction(ctx, pred.ID)
		if err != nil {
			failed++
			log.WithFields(log.Fields{
				"predictionId": pred.ID,
				"gameId":       gameID,
				"error":        err,
			}).Error("Failed to settle prediction, continuing with remaining")
			continue
		}
		if breakdown != nil {
			breakdowns = append(breakdowns, breakdown)
		}
	}

	log.WithFields(log.Fields{
		"gameId":   gameID,
		"eligible": len(preds),
		"settled":  len(breakdowns),
		"failed":   failed,
	}).Info("Settled game predictions")

	return breakdowns, nil
}

func (s *settlementService) listUnsettled(ctx context.Context, gameID int64) ([]*models.Prediction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: %d", ErrGameNotFound, gameID)
	}

	preds, err := uow.PredictionRepository().ListUnsettledByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled predictions: %w", err)
	}

	return preds, nil
}
