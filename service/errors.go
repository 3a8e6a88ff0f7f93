package service

import (
	"errors"
)

var (
	// ErrGameNotFound indicates an unknown game id
	ErrGameNotFound = errors.New("game not found")

	// ErrPredictionNotFound indicates an unknown prediction id
	ErrPredictionNotFound = errors.New("prediction not found")

	// ErrGameNotCompleted indicates settlement was attempted before the game
	// reached its terminal state with both scores present
	ErrGameNotCompleted = errors.New("game is not completed")

	// ErrGameAlreadyCompleted indicates a completion attempt on a terminal game
	ErrGameAlreadyCompleted = errors.New("game is already completed")

	// ErrTieGame indicates equal final scores, which is not a resolvable
	// outcome; it must be surfaced, never guessed around
	ErrTieGame = errors.New("game ended in a tie, outcome unresolvable")
)
