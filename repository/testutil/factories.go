package testutil

import (
	"fmt"
	"time"

	"archoops/models"
)

var externalIDCounter int

// CreateTestGame creates a scheduled test game with default teams
func CreateTestGame(startsAt time.Time) *models.Game {
	externalIDCounter++
	return &models.Game{
		ExternalID: fmt.Sprintf("test-game-%d-%d", time.Now().UnixNano(), externalIDCounter),
		HomeTeam:   "BOS",
		AwayTeam:   "LAL",
		StartsAt:   startsAt,
		Status:     models.GameStatusScheduled,
	}
}

// CreateCompletedTestGame creates a completed test game with the given final scores
func CreateCompletedTestGame(startsAt time.Time, homeScore, awayScore int) *models.Game {
	game := CreateTestGame(startsAt)
	game.Status = models.GameStatusCompleted
	game.HomeScore = &homeScore
	game.AwayScore = &awayScore
	return game
}

// CreateTestPrediction creates a game-winner prediction for the given user and game
func CreateTestPrediction(userID, gameID int64, winner models.Side) *models.Prediction {
	return &models.Prediction{
		UserID: userID,
		GameID: gameID,
		Type:   models.PredictionTypeGameWinner,
		Pick:   models.GameWinnerPick{Winner: winner},
	}
}

// CreateTestFinalScorePrediction creates a final-score prediction
func CreateTestFinalScorePrediction(userID, gameID int64, winner models.Side, home, away int) *models.Prediction {
	return &models.Prediction{
		UserID: userID,
		GameID: gameID,
		Type:   models.PredictionTypeFinalScore,
		Pick:   models.FinalScorePick{Winner: winner, HomeScore: home, AwayScore: away},
	}
}

// CreateTestTransaction creates a ledger entry with the given amount and reason
func CreateTestTransaction(userID int64, amount int64, reason models.TransactionReason) *models.PointsTransaction {
	return &models.PointsTransaction{
		UserID: userID,
		Amount: amount,
		Reason: reason,
		Note:   "test transaction",
	}
}

// CreateTestPlayerStat creates a raw statistic record
func CreateTestPlayerStat(gameID int64, team, statType string, value int) *models.PlayerStat {
	return &models.PlayerStat{
		GameID:           gameID,
		PlayerName:       "Test Player",
		TeamAbbreviation: team,
		StatType:         statType,
		StatValue:        value,
	}
}
