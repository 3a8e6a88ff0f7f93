package scoring

import (
	"testing"

	"archoops/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(home, away, homeThrees, awayThrees int) *models.GameOutcome {
	winner := models.SideHome
	if away > home {
		winner = models.SideAway
	}
	return &models.GameOutcome{
		GameID:     1,
		HomeScore:  home,
		AwayScore:  away,
		Winner:     winner,
		HomeThrees: homeThrees,
		AwayThrees: awayThrees,
	}
}

func TestScore_GameWinner(t *testing.T) {
	out := outcome(101, 98, 12, 9)

	t.Run("correct side", func(t *testing.T) {
		pred := &models.Prediction{
			ID:   1,
			Type: models.PredictionTypeGameWinner,
			Pick: models.GameWinnerPick{Winner: models.SideHome},
		}

		b, err := Score(pred, out)
		require.NoError(t, err)
		assert.Equal(t, int64(GameWinnerPoints), b.WinnerPoints)
		assert.Equal(t, int64(10), b.Total)
		assert.True(t, b.Details.WinnerCorrect)
	})

	t.Run("wrong side", func(t *testing.T) {
		pred := &models.Prediction{
			ID:   2,
			Type: models.PredictionTypeGameWinner,
			Pick: models.GameWinnerPick{Winner: models.SideAway},
		}

		b, err := Score(pred, out)
		require.NoError(t, err)
		assert.Equal(t, int64(0), b.Total)
		assert.False(t, b.Details.WinnerCorrect)
	})
}

func TestScore_FinalScore(t *testing.T) {
	out := outcome(101, 98, 12, 9)

	t.Run("exact score hits the cap", func(t *testing.T) {
		pred := &models.Prediction{
			ID:   3,
			Type: models.PredictionTypeFinalScore,
			Pick: models.FinalScorePick{Winner: models.SideHome, HomeScore: 101, AwayScore: 98},
		}

		b, err := Score(pred, out)
		require.NoError(t, err)
		assert.Equal(t, int64(FinalScoreCap), b.Total)
		require.NotNil(t, b.Details.ScoreDifferential)
		assert.Equal(t, 0, *b.Details.ScoreDifferential)
	})

	t.Run("score points decay with differential", func(t *testing.T) {
		pred := &models.Prediction{
			ID:   4,
			Type: models.PredictionTypeFinalScore,
			Pick: models.FinalScorePick{Winner: models.SideHome, HomeScore: 105, AwayScore: 95},
		}

		b, err := Score(pred, out)
		require.NoError(t, err)
		// differential 4 + 3 = 7, score points 40 - 7 = 33, plus winner 10
		assert.Equal(t, int64(43), b.Total)
	})

	t.Run("wild miss earns winner points only", func(t *testing.T) {
		pred := &models.Prediction{
			ID:   5,
			Type: models.PredictionTypeFinalScore,
			Pick: models.FinalScorePick{Winner: models.SideHome, HomeScore: 150, AwayScore: 60},
		}

		b, err := Score(pred, out)
		require.NoError(t, err)
		assert.Equal(t, int64(0), b.ScorePoints)
		assert.Equal(t, int64(10), b.Total)
	})

	t.Run("never exceeds cap", func(t *testing.T) {
		pred := &models.Prediction{
			ID:   6,
			Type: models.PredictionTypeFinalScore,
			Pick: models.FinalScorePick{Winner: models.SideHome, HomeScore: 101, AwayScore: 98},
		}

		b, err := Score(pred, out)
		require.NoError(t, err)
		assert.LessOrEqual(t, b.Total, int64(FinalScoreCap))
	})
}

func TestScore_TeamThrees(t *testing.T) {
	out := outcome(101, 98, 12, 9)

	t.Run("both exact hits the cap", func(t *testing.T) {
		pred := &models.Prediction{
			ID:   7,
			Type: models.PredictionTypeTeamThrees,
			Pick: models.TeamThreesPick{HomeThrees: 12, AwayThrees: 9},
		}

		b, err := Score(pred, out)
		require.NoError(t, err)
		assert.Equal(t, int64(TeamThreesCap), b.Total)
		assert.Equal(t, int64(exactThreesBonus), b.BonusPoints)
		require.Len(t, b.Details.PerStatAccuracy, 2)
	})

	t.Run("off by one each", func(t *testing.T) {
		pred := &models.Prediction{
			ID:   8,
			Type: models.PredictionTypeTeamThrees,
			Pick: models.TeamThreesPick{HomeThrees: 13, AwayThrees: 8},
		}

		b, err := Score(pred, out)
		require.NoError(t, err)
		// 8 points per team, no exact bonus
		assert.Equal(t, int64(16), b.Total)
		assert.Equal(t, int64(0), b.BonusPoints)
	})

	t.Run("far off earns nothing", func(t *testing.T) {
		pred := &models.Prediction{
			ID:   9,
			Type: models.PredictionTypeTeamThrees,
			Pick: models.TeamThreesPick{HomeThrees: 50, AwayThrees: 50},
		}

		b, err := Score(pred, out)
		require.NoError(t, err)
		assert.Equal(t, int64(0), b.Total)
	})
}

func TestScore_PayloadMismatch(t *testing.T) {
	pred := &models.Prediction{
		ID:   10,
		Type: models.PredictionTypeFinalScore,
		Pick: models.GameWinnerPick{Winner: models.SideHome},
	}

	_, err := Score(pred, outcome(101, 98, 0, 0))
	assert.Error(t, err)
}

func TestScore_NilPick(t *testing.T) {
	pred := &models.Prediction{
		ID:   11,
		Type: models.PredictionTypeGameWinner,
	}

	_, err := Score(pred, outcome(101, 98, 0, 0))
	assert.Error(t, err)
}

func TestBreakdownMetadata(t *testing.T) {
	pred := &models.Prediction{
		ID:   12,
		Type: models.PredictionTypeTeamThrees,
		Pick: models.TeamThreesPick{HomeThrees: 12, AwayThrees: 9},
	}

	b, err := Score(pred, outcome(101, 98, 12, 9))
	require.NoError(t, err)

	m := b.Metadata()
	assert.Equal(t, b.Total, m["total"])
	assert.Contains(t, m, "perStatAccuracy")
}
