package service

import (
	"context"
	"fmt"

	"archoops/events"
	"archoops/models"

	log "github.com/sirupsen/logrus"
)

type adjustmentService struct {
	uowFactory UnitOfWorkFactory
}

// NewAdjustmentService creates a new adjustment service. Privilege checks
// belong to the calling layer; this service only guards ledger integrity.
func NewAdjustmentService(uowFactory UnitOfWorkFactory) AdjustmentService {
	return &adjustmentService{
		uowFactory: uowFactory,
	}
}

// AdjustPoints records a manual bonus or penalty ledger entry. Penalty
// amounts are stored negative regardless of the sign the operator passed.
func (s *adjustmentService) AdjustPoints(ctx context.Context, userID int64, amount int64, reason models.TransactionReason, note string) (*models.PointsTransaction, error) {
	if amount == 0 {
		return nil, fmt.Errorf("adjustment amount must be nonzero")
	}
	if reason != models.TransactionReasonBonus && reason != models.TransactionReasonPenalty {
		return nil, fmt.Errorf("adjustment reason must be %s or %s, got %s",
			models.TransactionReasonBonus, models.TransactionReasonPenalty, reason)
	}
	if note == "" {
		return nil, fmt.Errorf("adjustment note cannot be empty")
	}

	if reason == models.TransactionReasonPenalty && amount > 0 {
		amount = -amount
	}

	txn := &models.PointsTransaction{
		UserID: userID,
		Amount: amount,
		Reason: reason,
		Note:   note,
	}

	if err := s.record(ctx, txn); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userId": userID,
		"amount": amount,
		"reason": reason,
	}).Info("Recorded manual point adjustment")

	return txn, nil
}

// AwardLessonPoints records points for a completed lesson. The lesson system
// lives outside this subsystem; this is the hook it calls.
func (s *adjustmentService) AwardLessonPoints(ctx context.Context, userID, lessonID int64, amount int64) (*models.PointsTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("lesson award amount must be positive")
	}

	txn := &models.PointsTransaction{
		UserID: userID,
		Amount: amount,
		Reason: models.TransactionReasonLesson,
		Note:   fmt.Sprintf("lesson %d completed", lessonID),
		Breakdown: map[string]any{
			"lessonId": lessonID,
		},
	}

	if err := s.record(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

func (s *adjustmentService) record(ctx context.Context, txn *models.PointsTransaction) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TransactionRepository().Record(ctx, txn); err != nil {
		return err
	}

	uow.EventBus().Publish(events.PointsAdjustedEvent{
		UserID:        txn.UserID,
		Amount:        txn.Amount,
		Reason:        txn.Reason,
		TransactionID: txn.ID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
