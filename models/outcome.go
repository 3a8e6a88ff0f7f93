package models

// GameOutcome is the normalized result of a completed game. It is computed
// on demand from the game record and raw player statistics, never stored as
// a row of its own (except as a snapshot on settled predictions).
type GameOutcome struct {
	GameID     int64 `json:"gameId"`
	HomeScore  int   `json:"homeScore"`
	AwayScore  int   `json:"awayScore"`
	Winner     Side  `json:"winner"`
	HomeThrees int   `json:"homeThrees"`
	AwayThrees int   `json:"awayThrees"`
}

// ThreePointMarker is the stat-type token identifying made three-pointers,
// matched case-insensitively against raw statistic records
const ThreePointMarker = "3PM"
