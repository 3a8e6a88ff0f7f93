package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"archoops/events"
	"archoops/models"

	log "github.com/sirupsen/logrus"
)

// StaleGameGraceWindow is how long after its scheduled start a game may stay
// SCHEDULED or LIVE before it is flagged for manual intervention
const StaleGameGraceWindow = 2 * time.Hour

// Plausible final-score range for a simulated NBA game
const (
	minSimulatedScore = 85
	maxSimulatedScore = 139
)

type completionService struct {
	uowFactory UnitOfWorkFactory
	settlement SettlementService
}

// NewCompletionService creates a new completion service
func NewCompletionService(uowFactory UnitOfWorkFactory, settlement SettlementService) CompletionService {
	return &completionService{
		uowFactory: uowFactory,
		settlement: settlement,
	}
}

// ProcessCompletedGames finds completed games that still have unsettled
// predictions and settles each one. Games are processed independently, so a
// failure on one never blocks the rest, and overlapping sweeps converge
// because settlement only ever acts on still-unsettled predictions.
func (s *completionService) ProcessCompletedGames(ctx context.Context) (int, error) {
	games, err := s.listPending(ctx)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, game := range games {
		if _, err := s.settlement.SettleGame(ctx, game.ID); err != nil {
			log.WithFields(log.Fields{
				"gameId": game.ID,
				"error":  err,
			}).Error("Failed to settle game, continuing with remaining")
			continue
		}
		processed++
	}

	if len(games) > 0 {
		log.WithFields(log.Fields{
			"candidates": len(games),
			"processed":  processed,
		}).Info("Processed completed games")
	}

	return processed, nil
}

// CompleteGame performs operator-driven manual completion: the game
// transitions to COMPLETED with the given scores and is settled immediately.
// COMPLETED is terminal; completing twice is an error, not a correction path.
func (s *completionService) CompleteGame(ctx context.Context, gameID int64, homeScore, awayScore int) error {
	if err := s.markCompleted(ctx, gameID, homeScore, awayScore, false); err != nil {
		return err
	}

	if _, err := s.settlement.SettleGame(ctx, gameID); err != nil {
		return fmt.Errorf("game %d completed but settlement failed: %w", gameID, err)
	}

	return nil
}

// SimulateCompletion completes a game with plausible random final scores.
// Calling it on an already-completed game indicates a caller bug and fails.
func (s *completionService) SimulateCompletion(ctx context.Context, gameID int64) error {
	homeScore := randomScore()
	awayScore := randomScore()
	for awayScore == homeScore {
		awayScore = randomScore()
	}

	if err := s.markCompleted(ctx, gameID, homeScore, awayScore, true); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"gameId":    gameID,
		"homeScore": homeScore,
		"awayScore": awayScore,
	}).Info("Simulated game completion")

	if _, err := s.settlement.SettleGame(ctx, gameID); err != nil {
		return fmt.Errorf("game %d completed but settlement failed: %w", gameID, err)
	}

	return nil
}

// FindStaleGames returns games still marked in progress whose scheduled start
// is more than the grace window in the past, candidates for manual completion
// because the upstream feed failed to report a result
func (s *completionService) FindStaleGames(ctx context.Context) ([]*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	games, err := uow.GameRepository().ListStale(ctx, time.Now().Add(-StaleGameGraceWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to list stale games: %w", err)
	}

	return games, nil
}

// markCompleted transitions the game to COMPLETED and locks its predictions
// in one transaction
func (s *completionService) markCompleted(ctx context.Context, gameID int64, homeScore, awayScore int, simulated bool) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return fmt.Errorf("%w: %d", ErrGameNotFound, gameID)
	}
	if game.Status == models.GameStatusCompleted {
		return fmt.Errorf("%w: %d", ErrGameAlreadyCompleted, gameID)
	}

	completed, err := uow.GameRepository().Complete(ctx, gameID, homeScore, awayScore)
	if err != nil {
		return err
	}
	if !completed {
		// Lost a race with another completer after the status read
		return fmt.Errorf("%w: %d", ErrGameAlreadyCompleted, gameID)
	}

	if err := uow.PredictionRepository().LockByGame(ctx, gameID); err != nil {
		return err
	}

	uow.EventBus().Publish(events.GameCompletedEvent{
		GameID:    gameID,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Simulated: simulated,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *completionService) listPending(ctx context.Context) ([]*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	games, err := uow.GameRepository().ListCompletedWithUnsettled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed games: %w", err)
	}

	return games, nil
}

func randomScore() int {
	return minSimulatedScore + rand.IntN(maxSimulatedScore-minSimulatedScore+1)
}
