package repository

import (
	"context"
	"fmt"

	"archoops/database"
	"archoops/models"
)

// PlayerStatRepository implements raw statistic data access
type PlayerStatRepository struct {
	q queryable
}

// NewPlayerStatRepository creates a new player stat repository
func NewPlayerStatRepository(db *database.DB) *PlayerStatRepository {
	return &PlayerStatRepository{q: db.Pool}
}

// newPlayerStatRepositoryWithTx creates a new player stat repository with a transaction
func newPlayerStatRepositoryWithTx(tx queryable) *PlayerStatRepository {
	return &PlayerStatRepository{q: tx}
}

// CreateBatch inserts raw statistic records from the upstream feed
func (r *PlayerStatRepository) CreateBatch(ctx context.Context, stats []*models.PlayerStat) error {
	query := `
		INSERT INTO player_stats (game_id, player_name, team_abbreviation, stat_type, stat_value)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	for _, stat := range stats {
		err := r.q.QueryRow(ctx, query,
			stat.GameID,
			stat.PlayerName,
			stat.TeamAbbreviation,
			stat.StatType,
			stat.StatValue,
		).Scan(&stat.ID, &stat.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create player stat for game %d: %w", stat.GameID, err)
		}
	}

	return nil
}

// SumThreesByTeam sums made three-pointers per team abbreviation for a game.
// The stat-type token is matched case-insensitively.
func (r *PlayerStatRepository) SumThreesByTeam(ctx context.Context, gameID int64) (map[string]int, error) {
	query := `
		SELECT team_abbreviation, COALESCE(SUM(stat_value), 0)
		FROM player_stats
		WHERE game_id = $1 AND UPPER(stat_type) = UPPER($2)
		GROUP BY team_abbreviation
	`

	rows, err := r.q.Query(ctx, query, gameID, models.ThreePointMarker)
	if err != nil {
		return nil, fmt.Errorf("failed to sum threes for game %d: %w", gameID, err)
	}
	defer rows.Close()

	sums := make(map[string]int)
	for rows.Next() {
		var team string
		var total int
		if err := rows.Scan(&team, &total); err != nil {
			return nil, fmt.Errorf("failed to scan three-point sum: %w", err)
		}
		sums[team] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate three-point sums: %w", err)
	}

	return sums, nil
}

// ListByGame returns all raw statistic records for a game
func (r *PlayerStatRepository) ListByGame(ctx context.Context, gameID int64) ([]*models.PlayerStat, error) {
	query := `
		SELECT id, game_id, player_name, team_abbreviation, stat_type, stat_value, created_at
		FROM player_stats
		WHERE game_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player stats for game %d: %w", gameID, err)
	}
	defer rows.Close()

	var stats []*models.PlayerStat
	for rows.Next() {
		var stat models.PlayerStat
		err := rows.Scan(
			&stat.ID,
			&stat.GameID,
			&stat.PlayerName,
			&stat.TeamAbbreviation,
			&stat.StatType,
			&stat.StatValue,
			&stat.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate player stats: %w", err)
	}

	return stats, nil
}
