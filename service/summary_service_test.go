package service

import (
	"context"
	"testing"
	"time"

	"archoops/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func settledPrediction(id, userID int64, points int64) *models.Prediction {
	return &models.Prediction{
		ID:           id,
		UserID:       userID,
		GameID:       id,
		Type:         models.PredictionTypeGameWinner,
		Pick:         models.GameWinnerPick{Winner: models.SideHome},
		Locked:       true,
		PointsEarned: &points,
	}
}

func TestSummaryService_GetSummary(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewSummaryService(m.factory)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	m.txns.On("SumByUser", ctx, int64(555)).Return(int64(120), nil)
	m.txns.On("SumByUserSince", ctx, int64(555), now.Add(-7*24*time.Hour)).Return(int64(18), nil)
	m.txns.On("SumByUserSince", ctx, int64(555), now.Add(-30*24*time.Hour)).Return(int64(63), nil)
	m.preds.On("CountByUser", ctx, int64(555)).Return(8, 4, 3, nil)

	// Ordered oldest to newest by game start: correct, correct, miss, correct.
	// Best streak is the leading pair, current streak is the trailing single.
	m.preds.On("ListSettledByUser", ctx, int64(555), true).Return([]*models.Prediction{
		settledPrediction(1, 555, 5),
		settledPrediction(2, 555, 3),
		settledPrediction(3, 555, 0),
		settledPrediction(4, 555, 8),
	}, nil)

	summary, err := service.GetSummary(ctx, 555, now)

	require.NoError(t, err)
	assert.Equal(t, int64(555), summary.UserID)
	assert.Equal(t, int64(120), summary.TotalPoints)
	assert.Equal(t, int64(18), summary.WeeklyPoints)
	assert.Equal(t, int64(63), summary.MonthlyPoints)
	assert.Equal(t, 8, summary.TotalPredictions)
	assert.Equal(t, 4, summary.SettledCount)
	assert.Equal(t, 3, summary.CorrectCount)
	assert.InDelta(t, 37.5, summary.AccuracyPct, 0.0001)
	assert.Equal(t, 1, summary.CurrentStreak)
	assert.Equal(t, 2, summary.BestStreak)

	m.txns.AssertExpectations(t)
	m.preds.AssertExpectations(t)
}

func TestSummaryService_GetSummary_NoActivity(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewSummaryService(m.factory)

	now := time.Now()

	m.txns.On("SumByUser", ctx, int64(777)).Return(int64(0), nil)
	m.txns.On("SumByUserSince", ctx, int64(777), mock.Anything).Return(int64(0), nil)
	m.preds.On("CountByUser", ctx, int64(777)).Return(0, 0, 0, nil)
	m.preds.On("ListSettledByUser", ctx, int64(777), true).Return([]*models.Prediction{}, nil)

	summary, err := service.GetSummary(ctx, 777, now)

	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalPoints)
	assert.Equal(t, float64(0), summary.AccuracyPct)
	assert.Equal(t, 0, summary.CurrentStreak)
	assert.Equal(t, 0, summary.BestStreak)
}

func TestCurrentStreak_AllCorrect(t *testing.T) {
	preds := []*models.Prediction{
		settledPrediction(1, 1, 10),
		settledPrediction(2, 1, 50),
		settledPrediction(3, 1, 25),
	}
	assert.Equal(t, 3, currentStreak(preds))
	assert.Equal(t, 3, bestStreak(preds))
}

func TestCurrentStreak_EndsOnMiss(t *testing.T) {
	preds := []*models.Prediction{
		settledPrediction(1, 1, 10),
		settledPrediction(2, 1, 0),
	}
	assert.Equal(t, 0, currentStreak(preds))
	assert.Equal(t, 1, bestStreak(preds))
}

func TestSummaryService_GetHistory_Paginated(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewSummaryService(m.factory)

	newest := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	txns := make([]*models.PointsTransaction, 0, 3)
	for i := 0; i < 3; i++ {
		txns = append(txns, &models.PointsTransaction{
			ID:        int64(30 - i),
			UserID:    555,
			Amount:    10,
			Reason:    models.TransactionReasonPrediction,
			CreatedAt: newest.Add(-time.Duration(i) * time.Minute),
		})
	}

	// Limit 2, repository returns limit+1 rows, so a next page exists
	m.txns.On("List", ctx, int64(555), (*time.Time)(nil), (*models.TransactionReason)(nil), (*int64)(nil), 3).
		Return(txns, nil)

	page, err := service.GetHistory(ctx, 555, models.HistoryQuery{Limit: 2})

	require.NoError(t, err)
	assert.Len(t, page.Transactions, 2)
	assert.True(t, page.HasMore)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, txns[1].CreatedAt, *page.NextCursor)
}

func TestSummaryService_GetHistory_LastPage(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewSummaryService(m.factory)

	txns := []*models.PointsTransaction{
		{ID: 2, UserID: 555, Amount: 5, Reason: models.TransactionReasonBonus, CreatedAt: time.Now()},
	}

	cursor := time.Now().Add(-time.Hour)
	m.txns.On("List", ctx, int64(555), &cursor, (*models.TransactionReason)(nil), (*int64)(nil), 21).
		Return(txns, nil)

	page, err := service.GetHistory(ctx, 555, models.HistoryQuery{Cursor: &cursor})

	require.NoError(t, err)
	assert.Len(t, page.Transactions, 1)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
}

func TestSummaryService_GetHistory_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewSummaryService(m.factory)

	m.txns.On("List", ctx, int64(555), (*time.Time)(nil), (*models.TransactionReason)(nil), (*int64)(nil), 101).
		Return([]*models.PointsTransaction{}, nil)

	page, err := service.GetHistory(ctx, 555, models.HistoryQuery{Limit: 5000})

	require.NoError(t, err)
	assert.Empty(t, page.Transactions)
	assert.False(t, page.HasMore)
	m.txns.AssertExpectations(t)
}

func TestSummaryService_GetGameSummary(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewSummaryService(m.factory)

	gameID := int64(10)
	txn := &models.PointsTransaction{ID: 7, UserID: 555, GameID: &gameID, Amount: 43, Reason: models.TransactionReasonPrediction}

	m.txns.On("GetByUserAndGame", ctx, int64(555), int64(10)).Return(txn, nil)

	got, err := service.GetGameSummary(ctx, 10, 555)

	require.NoError(t, err)
	assert.Equal(t, txn, got)
}

func TestSummaryService_GetGameSummary_NoActivity(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewSummaryService(m.factory)

	m.txns.On("GetByUserAndGame", ctx, int64(555), int64(10)).Return(nil, nil)

	got, err := service.GetGameSummary(ctx, 10, 555)

	require.NoError(t, err)
	assert.Nil(t, got)
}
