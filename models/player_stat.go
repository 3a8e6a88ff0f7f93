package models

import (
	"time"
)

// PlayerStat represents one raw statistic record from the upstream feed
type PlayerStat struct {
	ID               int64     `db:"id"`
	GameID           int64     `db:"game_id"`
	PlayerName       string    `db:"player_name"`
	TeamAbbreviation string    `db:"team_abbreviation"`
	StatType         string    `db:"stat_type"`
	StatValue        int       `db:"stat_value"`
	CreatedAt        time.Time `db:"created_at"`
}
