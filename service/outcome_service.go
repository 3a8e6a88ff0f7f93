package service

import (
	"context"
	"fmt"

	"archoops/models"
)

type outcomeService struct {
	uowFactory UnitOfWorkFactory
}

// NewOutcomeService creates a new outcome service
func NewOutcomeService(uowFactory UnitOfWorkFactory) OutcomeService {
	return &outcomeService{
		uowFactory: uowFactory,
	}
}

// BuildOutcome derives the normalized result of a completed game
func (s *outcomeService) BuildOutcome(ctx context.Context, gameID int64) (*models.GameOutcome, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: %d", ErrGameNotFound, gameID)
	}

	return buildOutcome(ctx, uow, game)
}

// buildOutcome computes the outcome inside an existing unit of work so
// settlement can read it in the same transaction that writes the award
func buildOutcome(ctx context.Context, uow UnitOfWork, game *models.Game) (*models.GameOutcome, error) {
	if !game.IsCompleted() {
		return nil, fmt.Errorf("%w: game %d is %s", ErrGameNotCompleted, game.ID, game.Status)
	}

	homeScore := *game.HomeScore
	awayScore := *game.AwayScore

	// Equal scores cannot happen in a finished NBA game; a tie here is a
	// data-quality fault that must surface rather than pick a side.
	if homeScore == awayScore {
		return nil, fmt.Errorf("%w: game %d ended %d-%d", ErrTieGame, game.ID, homeScore, awayScore)
	}

	winner := models.SideHome
	if awayScore > homeScore {
		winner = models.SideAway
	}

	threes, err := uow.PlayerStatRepository().SumThreesByTeam(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum three-pointers for game %d: %w", game.ID, err)
	}

	return &models.GameOutcome{
		GameID:     game.ID,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		Winner:     winner,
		HomeThrees: threes[game.HomeTeam],
		AwayThrees: threes[game.AwayTeam],
	}, nil
}
