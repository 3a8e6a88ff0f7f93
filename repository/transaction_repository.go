package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"archoops/database"
	"archoops/models"

	"github.com/jackc/pgx/v5"
)

// TransactionRepository implements ledger data access. The ledger is
// append-only: entries are never updated or deleted after creation.
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

const transactionColumns = `id, user_id, game_id, prediction_id, amount, reason, note, breakdown, created_at`

func scanTransaction(row pgx.Row) (*models.PointsTransaction, error) {
	var txn models.PointsTransaction
	var breakdownJSON []byte

	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.GameID,
		&txn.PredictionID,
		&txn.Amount,
		&txn.Reason,
		&txn.Note,
		&breakdownJSON,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(breakdownJSON) > 0 {
		if err := json.Unmarshal(breakdownJSON, &txn.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal breakdown for transaction %d: %w", txn.ID, err)
		}
	}

	return &txn, nil
}

// Record appends a new ledger entry
func (r *TransactionRepository) Record(ctx context.Context, txn *models.PointsTransaction) error {
	var breakdownJSON []byte
	if txn.Breakdown != nil {
		var err error
		breakdownJSON, err = json.Marshal(txn.Breakdown)
		if err != nil {
			return fmt.Errorf("failed to marshal breakdown: %w", err)
		}
	}

	query := `
		INSERT INTO points_transactions (user_id, game_id, prediction_id, amount, reason, note, breakdown)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		txn.UserID,
		txn.GameID,
		txn.PredictionID,
		txn.Amount,
		txn.Reason,
		txn.Note,
		breakdownJSON,
	).Scan(&txn.ID, &txn.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record transaction for user %d: %w", txn.UserID, err)
	}

	return nil
}

// SumByUser returns the sum of all the user's transaction amounts
func (r *TransactionRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM points_transactions WHERE user_id = $1`

	var sum int64
	if err := r.q.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum transactions for user %d: %w", userID, err)
	}

	return sum, nil
}

// SumByUserSince returns the sum of the user's transaction amounts created at or after the given time
func (r *TransactionRepository) SumByUserSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM points_transactions
		WHERE user_id = $1 AND created_at >= $2
	`

	var sum int64
	if err := r.q.QueryRow(ctx, query, userID, since).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum transactions for user %d since %s: %w", userID, since, err)
	}

	return sum, nil
}

// List returns up to limit transactions for a user ordered newest first.
// A non-nil before cursor restricts the page to rows created strictly before
// it, which keeps pages stable while new entries are appended concurrently.
func (r *TransactionRepository) List(ctx context.Context, userID int64, before *time.Time, reason *models.TransactionReason, gameID *int64, limit int) ([]*models.PointsTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM points_transactions
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		  AND ($3::text IS NULL OR reason = $3)
		  AND ($4::bigint IS NULL OR game_id = $4)
		ORDER BY created_at DESC, id DESC
		LIMIT $5
	`

	rows, err := r.q.Query(ctx, query, userID, before, reason, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var txns []*models.PointsTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// GetByUserAndGame returns the user's prediction transaction for a game, or nil
func (r *TransactionRepository) GetByUserAndGame(ctx context.Context, userID, gameID int64) (*models.PointsTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM points_transactions
		WHERE user_id = $1 AND game_id = $2 AND reason = $3
		LIMIT 1
	`

	txn, err := scanTransaction(r.q.QueryRow(ctx, query, userID, gameID, models.TransactionReasonPrediction))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction for user %d game %d: %w", userID, gameID, err)
	}

	return txn, nil
}

// CountByGame returns how many prediction transactions exist for a game
func (r *TransactionRepository) CountByGame(ctx context.Context, gameID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM points_transactions
		WHERE game_id = $1 AND reason = $2
	`

	var count int
	if err := r.q.QueryRow(ctx, query, gameID, models.TransactionReasonPrediction).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions for game %d: %w", gameID, err)
	}

	return count, nil
}
