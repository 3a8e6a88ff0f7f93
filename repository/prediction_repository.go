package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"archoops/database"
	"archoops/models"

	"github.com/jackc/pgx/v5"
)

// PredictionRepository implements prediction data access
type PredictionRepository struct {
	q queryable
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db *database.DB) *PredictionRepository {
	return &PredictionRepository{q: db.Pool}
}

// newPredictionRepositoryWithTx creates a new prediction repository with a transaction
func newPredictionRepositoryWithTx(tx queryable) *PredictionRepository {
	return &PredictionRepository{q: tx}
}

const predictionColumns = `id, user_id, game_id, prediction_type, pick, locked, points_earned, accuracy_score, outcome_snapshot, created_at, updated_at`

// unmarshalPick decodes the JSONB pick payload into the concrete pick type
// for the prediction's declared shape
func unmarshalPick(predictionType models.PredictionType, data []byte) (models.Pick, error) {
	switch predictionType {
	case models.PredictionTypeGameWinner:
		var pick models.GameWinnerPick
		if err := json.Unmarshal(data, &pick); err != nil {
			return nil, err
		}
		return pick, nil
	case models.PredictionTypeFinalScore:
		var pick models.FinalScorePick
		if err := json.Unmarshal(data, &pick); err != nil {
			return nil, err
		}
		return pick, nil
	case models.PredictionTypeTeamThrees:
		var pick models.TeamThreesPick
		if err := json.Unmarshal(data, &pick); err != nil {
			return nil, err
		}
		return pick, nil
	default:
		return nil, fmt.Errorf("unknown prediction type %s", predictionType)
	}
}

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	var pred models.Prediction
	var pickJSON, snapshotJSON []byte

	err := row.Scan(
		&pred.ID,
		&pred.UserID,
		&pred.GameID,
		&pred.Type,
		&pickJSON,
		&pred.Locked,
		&pred.PointsEarned,
		&pred.AccuracyScore,
		&snapshotJSON,
		&pred.CreatedAt,
		&pred.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	pick, err := unmarshalPick(pred.Type, pickJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal pick for prediction %d: %w", pred.ID, err)
	}
	pred.Pick = pick

	if len(snapshotJSON) > 0 {
		var snapshot models.GameOutcome
		if err := json.Unmarshal(snapshotJSON, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal outcome snapshot for prediction %d: %w", pred.ID, err)
		}
		pred.OutcomeSnapshot = &snapshot
	}

	return &pred, nil
}

// Create creates a new prediction record
func (r *PredictionRepository) Create(ctx context.Context, pred *models.Prediction) error {
	if pred.Pick == nil {
		return fmt.Errorf("prediction pick cannot be nil")
	}
	if pred.Pick.PredictionType() != pred.Type {
		return fmt.Errorf("pick payload %s does not match prediction type %s",
			pred.Pick.PredictionType(), pred.Type)
	}

	pickJSON, err := json.Marshal(pred.Pick)
	if err != nil {
		return fmt.Errorf("failed to marshal pick: %w", err)
	}

	query := `
		INSERT INTO predictions (user_id, game_id, prediction_type, pick, locked)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err = r.q.QueryRow(ctx, query,
		pred.UserID,
		pred.GameID,
		pred.Type,
		pickJSON,
		pred.Locked,
	).Scan(&pred.ID, &pred.CreatedAt, &pred.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create prediction for user %d game %d: %w", pred.UserID, pred.GameID, err)
	}

	return nil
}

// GetByID retrieves a prediction by its ID, returning nil when not found
func (r *PredictionRepository) GetByID(ctx context.Context, id int64) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`

	pred, err := scanPrediction(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction %d: %w", id, err)
	}

	return pred, nil
}

// ListUnsettledByGame returns all predictions for a game that have not been awarded points
func (r *PredictionRepository) ListUnsettledByGame(ctx context.Context, gameID int64) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE game_id = $1 AND points_earned IS NULL
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled predictions for game %d: %w", gameID, err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// ListSettledByUser returns a user's settled predictions ordered by the
// associated game's start time. Ascending order serves best-streak scans,
// descending serves current-streak scans.
func (r *PredictionRepository) ListSettledByUser(ctx context.Context, userID int64, ascending bool) ([]*models.Prediction, error) {
	direction := "DESC"
	if ascending {
		direction = "ASC"
	}

	query := `
		SELECT p.id, p.user_id, p.game_id, p.prediction_type, p.pick, p.locked,
		       p.points_earned, p.accuracy_score, p.outcome_snapshot, p.created_at, p.updated_at
		FROM predictions p
		JOIN games g ON g.id = p.game_id
		WHERE p.user_id = $1 AND p.points_earned IS NOT NULL
		ORDER BY g.starts_at ` + direction + `, p.id ` + direction

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settled predictions for user %d: %w", userID, err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// CountByUser returns the user's total, settled, and correct prediction counts
func (r *PredictionRepository) CountByUser(ctx context.Context, userID int64) (total, settled, correct int, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE points_earned IS NOT NULL),
		       COUNT(*) FILTER (WHERE points_earned > 0)
		FROM predictions
		WHERE user_id = $1
	`

	if err := r.q.QueryRow(ctx, query, userID).Scan(&total, &settled, &correct); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count predictions for user %d: %w", userID, err)
	}

	return total, settled, correct, nil
}

// Settle conditionally writes the settlement result. The points_earned IS NULL
// predicate is the sole idempotency gate: when a concurrent settler already
// won, zero rows match and the caller must treat the prediction as settled.
func (r *PredictionRepository) Settle(ctx context.Context, id int64, points int64, accuracy int, snapshot *models.GameOutcome) (bool, error) {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return false, fmt.Errorf("failed to marshal outcome snapshot: %w", err)
	}

	query := `
		UPDATE predictions
		SET points_earned = $1, accuracy_score = $2, outcome_snapshot = $3,
		    locked = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND points_earned IS NULL
	`

	tag, err := r.q.Exec(ctx, query, points, accuracy, snapshotJSON, id)
	if err != nil {
		return false, fmt.Errorf("failed to settle prediction %d: %w", id, err)
	}

	return tag.RowsAffected() > 0, nil
}

// LockByGame locks every prediction for a game so owners can no longer edit them
func (r *PredictionRepository) LockByGame(ctx context.Context, gameID int64) error {
	query := `
		UPDATE predictions
		SET locked = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE game_id = $1 AND NOT locked
	`

	if _, err := r.q.Exec(ctx, query, gameID); err != nil {
		return fmt.Errorf("failed to lock predictions for game %d: %w", gameID, err)
	}

	return nil
}

// Delete removes an unlocked prediction owned by the given user
func (r *PredictionRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	query := `
		DELETE FROM predictions
		WHERE id = $1 AND user_id = $2 AND NOT locked AND points_earned IS NULL
	`

	tag, err := r.q.Exec(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete prediction %d: %w", id, err)
	}

	return tag.RowsAffected() > 0, nil
}

func collectPredictions(rows pgx.Rows) ([]*models.Prediction, error) {
	var preds []*models.Prediction
	for rows.Next() {
		pred, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		preds = append(preds, pred)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}

	return preds, nil
}
