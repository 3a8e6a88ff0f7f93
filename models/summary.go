package models

import (
	"time"
)

// PointsSummary represents a user's derived point statistics, recomputed
// from the ledger and prediction tables on every read
type PointsSummary struct {
	UserID           int64
	TotalPoints      int64
	WeeklyPoints     int64
	MonthlyPoints    int64
	TotalPredictions int
	SettledCount     int
	CorrectCount     int
	AccuracyPct      float64 // Percentage as 0-100
	CurrentStreak    int
	BestStreak       int
}

// HistoryQuery describes one page request against a user's transaction history
type HistoryQuery struct {
	Cursor       *time.Time // created_at of the last row of the previous page
	Limit        int
	ReasonFilter *TransactionReason
	GameFilter   *int64
}

// TransactionPage is one page of ledger history, newest first
type TransactionPage struct {
	Transactions []*PointsTransaction
	HasMore      bool
	NextCursor   *time.Time
}
