package repository

import (
	"context"
	"fmt"
	"time"

	"archoops/database"
	"archoops/models"

	"github.com/jackc/pgx/v5"
)

// GameRepository implements game data access
type GameRepository struct {
	q queryable
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

// newGameRepositoryWithTx creates a new game repository with a transaction
func newGameRepositoryWithTx(tx queryable) *GameRepository {
	return &GameRepository{q: tx}
}

const gameColumns = `id, external_id, home_team, away_team, starts_at, status, home_score, away_score, created_at, updated_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID,
		&game.ExternalID,
		&game.HomeTeam,
		&game.AwayTeam,
		&game.StartsAt,
		&game.Status,
		&game.HomeScore,
		&game.AwayScore,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// Create creates a new game record
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (external_id, home_team, away_team, starts_at, status, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		game.ExternalID,
		game.HomeTeam,
		game.AwayTeam,
		game.StartsAt,
		game.Status,
		game.HomeScore,
		game.AwayScore,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create game %s: %w", game.ExternalID, err)
	}

	return nil
}

// GetByID retrieves a game by its ID, returning nil when not found
func (r *GameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}

	return game, nil
}

// Complete transitions a game to COMPLETED with the given final scores.
// The status guard makes the transition a no-op when another caller already
// completed the game; the boolean reports whether this call won.
func (r *GameRepository) Complete(ctx context.Context, id int64, homeScore, awayScore int) (bool, error) {
	query := `
		UPDATE games
		SET status = $1, home_score = $2, away_score = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND status != $1
	`

	tag, err := r.q.Exec(ctx, query, models.GameStatusCompleted, homeScore, awayScore, id)
	if err != nil {
		return false, fmt.Errorf("failed to complete game %d: %w", id, err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkLive transitions a scheduled game to LIVE
func (r *GameRepository) MarkLive(ctx context.Context, id int64) error {
	query := `
		UPDATE games
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND status = $3
	`

	if _, err := r.q.Exec(ctx, query, models.GameStatusLive, id, models.GameStatusScheduled); err != nil {
		return fmt.Errorf("failed to mark game %d live: %w", id, err)
	}

	return nil
}

// ListCompletedWithUnsettled returns completed games with both scores present
// that still have at least one unsettled prediction
func (r *GameRepository) ListCompletedWithUnsettled(ctx context.Context) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games g
		WHERE g.status = $1
		  AND g.home_score IS NOT NULL
		  AND g.away_score IS NOT NULL
		  AND EXISTS (
			SELECT 1 FROM predictions p
			WHERE p.game_id = g.id AND p.points_earned IS NULL
		  )
		ORDER BY g.starts_at
	`

	rows, err := r.q.Query(ctx, query, models.GameStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed games with unsettled predictions: %w", err)
	}
	defer rows.Close()

	return collectGames(rows)
}

// ListStale returns games still marked SCHEDULED or LIVE whose start time is
// before the given threshold
func (r *GameRepository) ListStale(ctx context.Context, startedBefore time.Time) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE status IN ($1, $2) AND starts_at < $3
		ORDER BY starts_at
	`

	rows, err := r.q.Query(ctx, query, models.GameStatusScheduled, models.GameStatusLive, startedBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale games: %w", err)
	}
	defer rows.Close()

	return collectGames(rows)
}

func collectGames(rows pgx.Rows) ([]*models.Game, error) {
	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	return games, nil
}
