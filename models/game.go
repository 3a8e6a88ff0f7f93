package models

import (
	"time"
)

// GameStatus represents the lifecycle state of a game
type GameStatus string

const (
	GameStatusScheduled GameStatus = "SCHEDULED"
	GameStatusLive      GameStatus = "LIVE"
	GameStatusCompleted GameStatus = "COMPLETED"
)

// Side identifies one of the two teams in a game
type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

// Game represents a scheduled real-world contest that predictions are scored against
type Game struct {
	ID         int64      `db:"id"`
	ExternalID string     `db:"external_id"`
	HomeTeam   string     `db:"home_team"`
	AwayTeam   string     `db:"away_team"`
	StartsAt   time.Time  `db:"starts_at"`
	Status     GameStatus `db:"status"`
	HomeScore  *int       `db:"home_score"`
	AwayScore  *int       `db:"away_score"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// IsCompleted checks whether the game has reached its terminal state with both scores present
func (g *Game) IsCompleted() bool {
	return g.Status == GameStatusCompleted && g.HomeScore != nil && g.AwayScore != nil
}

// HasStarted checks whether the game's scheduled start time has passed
func (g *Game) HasStarted(now time.Time) bool {
	return !now.Before(g.StartsAt)
}

// IsStale checks whether the game is still marked in-progress past the grace window.
// Stale is an observation, not a stored state.
func (g *Game) IsStale(now time.Time, grace time.Duration) bool {
	if g.Status == GameStatusCompleted {
		return false
	}
	return now.Sub(g.StartsAt) > grace
}
