package repository

import (
	"context"
	"testing"
	"time"

	"archoops/models"
	"archoops/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository_Record(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	gameRepo := NewGameRepository(testDB.DB)
	predRepo := NewPredictionRepository(testDB.DB)
	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.CreateTestGame(time.Now().Add(-3 * time.Hour))
	require.NoError(t, gameRepo.Create(ctx, game))
	pred := testutil.CreateTestPrediction(100, game.ID, models.SideHome)
	require.NoError(t, predRepo.Create(ctx, pred))

	txn := &models.PointsTransaction{
		UserID:       100,
		GameID:       &game.ID,
		PredictionID: &pred.ID,
		Amount:       10,
		Reason:       models.TransactionReasonPrediction,
		Breakdown: map[string]any{
			"winnerPoints": 10,
			"total":        10,
		},
	}

	require.NoError(t, repo.Record(ctx, txn))
	assert.NotZero(t, txn.ID)
	assert.False(t, txn.CreatedAt.IsZero())

	got, err := repo.GetByUserAndGame(ctx, 100, game.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.Amount)
	require.NotNil(t, got.PredictionID)
	assert.Equal(t, pred.ID, *got.PredictionID)
	// JSONB numbers come back as float64
	assert.Equal(t, float64(10), got.Breakdown["winnerPoints"])
}

func TestTransactionRepository_Record_OnePredictionAwardPerPrediction(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	gameRepo := NewGameRepository(testDB.DB)
	predRepo := NewPredictionRepository(testDB.DB)
	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.CreateTestGame(time.Now().Add(-3 * time.Hour))
	require.NoError(t, gameRepo.Create(ctx, game))
	pred := testutil.CreateTestPrediction(100, game.ID, models.SideHome)
	require.NoError(t, predRepo.Create(ctx, pred))

	first := &models.PointsTransaction{
		UserID: 100, GameID: &game.ID, PredictionID: &pred.ID,
		Amount: 10, Reason: models.TransactionReasonPrediction,
	}
	require.NoError(t, repo.Record(ctx, first))

	// The unique constraint backstops the application-level idempotency gate
	second := &models.PointsTransaction{
		UserID: 100, GameID: &game.ID, PredictionID: &pred.ID,
		Amount: 10, Reason: models.TransactionReasonPrediction,
	}
	err := repo.Record(ctx, second)
	assert.Error(t, err)
}

func TestTransactionRepository_Sums(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty ledger sums to zero", func(t *testing.T) {
		sum, err := repo.SumByUser(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(0), sum)
	})

	t.Run("total is the sum of all entries", func(t *testing.T) {
		for _, amount := range []int64{10, 43, -15, 30} {
			reason := models.TransactionReasonBonus
			if amount < 0 {
				reason = models.TransactionReasonPenalty
			}
			require.NoError(t, repo.Record(ctx, testutil.CreateTestTransaction(100, amount, reason)))
		}

		sum, err := repo.SumByUser(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(68), sum)

		// Another user's ledger is untouched
		other, err := repo.SumByUser(ctx, 999)
		require.NoError(t, err)
		assert.Equal(t, int64(0), other)
	})

	t.Run("windowed sum respects the boundary", func(t *testing.T) {
		since, err := repo.SumByUserSince(ctx, 100, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(68), since)

		none, err := repo.SumByUserSince(ctx, 100, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(0), none)
	})
}

func TestTransactionRepository_List(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	gameRepo := NewGameRepository(testDB.DB)
	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.CreateTestGame(time.Now().Add(-3 * time.Hour))
	require.NoError(t, gameRepo.Create(ctx, game))

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(ctx, testutil.CreateTestTransaction(100, int64(i+1), models.TransactionReasonBonus)))
	}
	gameTxn := &models.PointsTransaction{
		UserID: 100, GameID: &game.ID, Amount: 10, Reason: models.TransactionReasonPrediction,
	}
	require.NoError(t, repo.Record(ctx, gameTxn))

	t.Run("newest first", func(t *testing.T) {
		txns, err := repo.List(ctx, 100, nil, nil, nil, 10)
		require.NoError(t, err)
		require.Len(t, txns, 6)
		for i := 1; i < len(txns); i++ {
			assert.False(t, txns[i].CreatedAt.After(txns[i-1].CreatedAt))
		}
		assert.Equal(t, int64(10), txns[0].Amount)
	})

	t.Run("reason filter", func(t *testing.T) {
		reason := models.TransactionReasonPrediction
		txns, err := repo.List(ctx, 100, nil, &reason, nil, 10)
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, models.TransactionReasonPrediction, txns[0].Reason)
	})

	t.Run("game filter", func(t *testing.T) {
		txns, err := repo.List(ctx, 100, nil, nil, &game.ID, 10)
		require.NoError(t, err)
		require.Len(t, txns, 1)
		require.NotNil(t, txns[0].GameID)
		assert.Equal(t, game.ID, *txns[0].GameID)
	})

	t.Run("cursor pages stay stable under concurrent appends", func(t *testing.T) {
		page1, err := repo.List(ctx, 100, nil, nil, nil, 3)
		require.NoError(t, err)
		require.Len(t, page1, 3)

		// A new entry lands between page fetches
		require.NoError(t, repo.Record(ctx, testutil.CreateTestTransaction(100, 500, models.TransactionReasonBonus)))

		cursor := page1[len(page1)-1].CreatedAt
		page2, err := repo.List(ctx, 100, &cursor, nil, nil, 3)
		require.NoError(t, err)
		require.Len(t, page2, 3)

		// No entry appears twice and the new entry is absent from page two
		seen := map[int64]bool{}
		for _, txn := range append(page1, page2...) {
			assert.False(t, seen[txn.ID], "transaction %d returned twice", txn.ID)
			seen[txn.ID] = true
			assert.NotEqual(t, int64(500), txn.Amount)
		}
	})
}

func TestTransactionRepository_GetByUserAndGame(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	gameRepo := NewGameRepository(testDB.DB)
	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.CreateTestGame(time.Now().Add(-3 * time.Hour))
	require.NoError(t, gameRepo.Create(ctx, game))

	t.Run("no activity", func(t *testing.T) {
		txn, err := repo.GetByUserAndGame(ctx, 100, game.ID)
		require.NoError(t, err)
		assert.Nil(t, txn)
	})

	t.Run("only the prediction entry is returned", func(t *testing.T) {
		bonus := &models.PointsTransaction{
			UserID: 100, GameID: &game.ID, Amount: 25, Reason: models.TransactionReasonBonus, Note: "manual",
		}
		award := &models.PointsTransaction{
			UserID: 100, GameID: &game.ID, Amount: 10, Reason: models.TransactionReasonPrediction,
		}
		require.NoError(t, repo.Record(ctx, bonus))
		require.NoError(t, repo.Record(ctx, award))

		txn, err := repo.GetByUserAndGame(ctx, 100, game.ID)
		require.NoError(t, err)
		require.NotNil(t, txn)
		assert.Equal(t, award.ID, txn.ID)
	})
}

func TestTransactionRepository_CountByGame(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	gameRepo := NewGameRepository(testDB.DB)
	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.CreateTestGame(time.Now().Add(-3 * time.Hour))
	require.NoError(t, gameRepo.Create(ctx, game))

	for _, userID := range []int64{100, 200} {
		txn := &models.PointsTransaction{
			UserID: userID, GameID: &game.ID, Amount: 10, Reason: models.TransactionReasonPrediction,
		}
		require.NoError(t, repo.Record(ctx, txn))
	}

	count, err := repo.CountByGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
