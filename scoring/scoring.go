package scoring

import (
	"fmt"

	"archoops/models"
)

// Point ceilings per prediction type. MaxPoints is the accuracy
// normalization cap across all types, kept above the highest per-type
// ceiling to leave headroom for combined future types.
const (
	GameWinnerPoints = 10
	FinalScoreCap    = 50
	TeamThreesCap    = 25
	MaxPoints        = 200

	exactScorePoints   = 40
	perTeamThreePoints = 10
	exactThreesBonus   = 5
)

// StatAccuracy describes how close one predicted stat line was to the actual value
type StatAccuracy struct {
	Team      string `json:"team"`
	Predicted int    `json:"predicted"`
	Actual    int    `json:"actual"`
	Points    int64  `json:"points"`
}

// Details carries the per-component explanation attached to a breakdown
type Details struct {
	WinnerCorrect     bool           `json:"winnerCorrect"`
	ScoreDifferential *int           `json:"scoreDifferential,omitempty"`
	PerStatAccuracy   []StatAccuracy `json:"perStatAccuracy,omitempty"`
}

// Breakdown is the structured result of scoring one prediction against an outcome
type Breakdown struct {
	WinnerPoints     int64   `json:"winnerPoints"`
	ScorePoints      int64   `json:"scorePoints"`
	PlayerStatPoints int64   `json:"playerStatPoints"`
	BonusPoints      int64   `json:"bonusPoints"`
	Total            int64   `json:"total"`
	Details          Details `json:"details"`
}

// Metadata converts the breakdown to the map shape stored on ledger transactions
func (b *Breakdown) Metadata() map[string]any {
	m := map[string]any{
		"winnerPoints":     b.WinnerPoints,
		"scorePoints":      b.ScorePoints,
		"playerStatPoints": b.PlayerStatPoints,
		"bonusPoints":      b.BonusPoints,
		"total":            b.Total,
		"winnerCorrect":    b.Details.WinnerCorrect,
	}
	if b.Details.ScoreDifferential != nil {
		m["scoreDifferential"] = *b.Details.ScoreDifferential
	}
	if len(b.Details.PerStatAccuracy) > 0 {
		stats := make([]map[string]any, 0, len(b.Details.PerStatAccuracy))
		for _, s := range b.Details.PerStatAccuracy {
			stats = append(stats, map[string]any{
				"team":      s.Team,
				"predicted": s.Predicted,
				"actual":    s.Actual,
				"points":    s.Points,
			})
		}
		m["perStatAccuracy"] = stats
	}
	return m
}

// Score computes the point breakdown for a prediction against a normalized
// game outcome. It is a pure function: no reads, no writes.
func Score(pred *models.Prediction, outcome *models.GameOutcome) (*Breakdown, error) {
	if pred.Pick == nil {
		return nil, fmt.Errorf("prediction %d has no pick payload", pred.ID)
	}
	if pred.Pick.PredictionType() != pred.Type {
		return nil, fmt.Errorf("prediction %d pick payload %s does not match type %s",
			pred.ID, pred.Pick.PredictionType(), pred.Type)
	}

	switch pick := pred.Pick.(type) {
	case models.GameWinnerPick:
		return scoreGameWinner(pick, outcome), nil
	case models.FinalScorePick:
		return scoreFinalScore(pick, outcome), nil
	case models.TeamThreesPick:
		return scoreTeamThrees(pick, outcome), nil
	default:
		return nil, fmt.Errorf("unknown prediction type %s", pred.Type)
	}
}

func scoreGameWinner(pick models.GameWinnerPick, outcome *models.GameOutcome) *Breakdown {
	b := &Breakdown{}
	if pick.Winner == outcome.Winner {
		b.WinnerPoints = GameWinnerPoints
		b.Details.WinnerCorrect = true
	}
	b.Total = b.WinnerPoints
	return b
}

func scoreFinalScore(pick models.FinalScorePick, outcome *models.GameOutcome) *Breakdown {
	b := &Breakdown{}
	if pick.Winner == outcome.Winner {
		b.WinnerPoints = GameWinnerPoints
		b.Details.WinnerCorrect = true
	}

	// Score points decay with the combined differential from the exact score;
	// an exact call earns the full 40.
	diff := abs(pick.HomeScore-outcome.HomeScore) + abs(pick.AwayScore-outcome.AwayScore)
	b.Details.ScoreDifferential = &diff
	if points := exactScorePoints - diff; points > 0 {
		b.ScorePoints = int64(points)
	}

	b.Total = b.WinnerPoints + b.ScorePoints
	return b
}

func scoreTeamThrees(pick models.TeamThreesPick, outcome *models.GameOutcome) *Breakdown {
	b := &Breakdown{}

	home := teamThreesAccuracy("home", pick.HomeThrees, outcome.HomeThrees)
	away := teamThreesAccuracy("away", pick.AwayThrees, outcome.AwayThrees)
	b.Details.PerStatAccuracy = []StatAccuracy{home, away}
	b.PlayerStatPoints = home.Points + away.Points

	if pick.HomeThrees == outcome.HomeThrees && pick.AwayThrees == outcome.AwayThrees {
		b.BonusPoints = exactThreesBonus
	}

	b.Total = b.PlayerStatPoints + b.BonusPoints
	return b
}

func teamThreesAccuracy(team string, predicted, actual int) StatAccuracy {
	acc := StatAccuracy{
		Team:      team,
		Predicted: predicted,
		Actual:    actual,
	}
	if points := perTeamThreePoints - 2*abs(predicted-actual); points > 0 {
		acc.Points = int64(points)
	}
	return acc
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
