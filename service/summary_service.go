package service

import (
	"context"
	"fmt"
	"time"

	"archoops/models"
)

const (
	weeklyWindow  = 7 * 24 * time.Hour
	monthlyWindow = 30 * 24 * time.Hour

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type summaryService struct {
	uowFactory UnitOfWorkFactory
}

// NewSummaryService creates a new summary service
func NewSummaryService(uowFactory UnitOfWorkFactory) SummaryService {
	return &summaryService{
		uowFactory: uowFactory,
	}
}

// GetSummary recomputes a user's point summary from the ledger and prediction
// tables. Nothing is cached; every total is derived fresh so it can never
// drift from the ledger. The reference time is an explicit parameter so the
// weekly and monthly windows are deterministic under test.
func (s *summaryService) GetSummary(ctx context.Context, userID int64, now time.Time) (*models.PointsSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	total, err := uow.TransactionRepository().SumByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	weekly, err := uow.TransactionRepository().SumByUserSince(ctx, userID, now.Add(-weeklyWindow))
	if err != nil {
		return nil, err
	}
	monthly, err := uow.TransactionRepository().SumByUserSince(ctx, userID, now.Add(-monthlyWindow))
	if err != nil {
		return nil, err
	}

	totalPreds, settled, correct, err := uow.PredictionRepository().CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var accuracy float64
	if totalPreds > 0 {
		accuracy = float64(correct) / float64(totalPreds) * 100
	}

	// One ascending fetch serves both streaks: best scans forward, current
	// scans backward from the most recent game.
	preds, err := uow.PredictionRepository().ListSettledByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	return &models.PointsSummary{
		UserID:           userID,
		TotalPoints:      total,
		WeeklyPoints:     weekly,
		MonthlyPoints:    monthly,
		TotalPredictions: totalPreds,
		SettledCount:     settled,
		CorrectCount:     correct,
		AccuracyPct:      accuracy,
		CurrentStreak:    currentStreak(preds),
		BestStreak:       bestStreak(preds),
	}, nil
}

// currentStreak counts consecutive correct predictions trailing from the most
// recent game, given settled predictions ordered oldest to newest
func currentStreak(predsAsc []*models.Prediction) int {
	streak := 0
	for i := len(predsAsc) - 1; i >= 0; i-- {
		if !predsAsc[i].IsCorrect() {
			break
		}
		streak++
	}
	return streak
}

// bestStreak finds the longest run of consecutive correct predictions, given
// settled predictions ordered oldest to newest
func bestStreak(predsAsc []*models.Prediction) int {
	best, run := 0, 0
	for _, pred := range predsAsc {
		if pred.IsCorrect() {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// GetHistory returns one page of the user's ledger, newest first. The cursor
// is the created_at of the last returned row, so pages stay stable while new
// transactions are appended concurrently.
func (s *summaryService) GetHistory(ctx context.Context, userID int64, query models.HistoryQuery) (*models.TransactionPage, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Fetch one extra row to learn whether another page exists
	txns, err := uow.TransactionRepository().List(ctx, userID, query.Cursor, query.ReasonFilter, query.GameFilter, limit+1)
	if err != nil {
		return nil, err
	}

	page := &models.TransactionPage{}
	if len(txns) > limit {
		page.HasMore = true
		txns = txns[:limit]
	}
	page.Transactions = txns

	if page.HasMore && len(txns) > 0 {
		cursor := txns[len(txns)-1].CreatedAt
		page.NextCursor = &cursor
	}

	return page, nil
}

// GetGameSummary returns the user's single prediction transaction for a game,
// or nil when the pair has no settled activity
func (s *summaryService) GetGameSummary(ctx context.Context, gameID, userID int64) (*models.PointsTransaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.TransactionRepository().GetByUserAndGame(ctx, userID, gameID)
}
