package service

import (
	"context"
	"testing"

	"archoops/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeService_BuildOutcome(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewOutcomeService(m.factory)

	m.games.On("GetByID", ctx, int64(10)).Return(completedGame(10, 95, 112), nil)
	m.stats.On("SumThreesByTeam", ctx, int64(10)).Return(map[string]int{"BOS": 8, "LAL": 15}, nil)

	outcome, err := service.BuildOutcome(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(10), outcome.GameID)
	assert.Equal(t, 95, outcome.HomeScore)
	assert.Equal(t, 112, outcome.AwayScore)
	assert.Equal(t, models.SideAway, outcome.Winner)
	assert.Equal(t, 8, outcome.HomeThrees)
	assert.Equal(t, 15, outcome.AwayThrees)
}

func TestOutcomeService_BuildOutcome_NoStats(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewOutcomeService(m.factory)

	m.games.On("GetByID", ctx, int64(10)).Return(completedGame(10, 101, 98), nil)
	m.stats.On("SumThreesByTeam", ctx, int64(10)).Return(map[string]int{}, nil)

	outcome, err := service.BuildOutcome(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, models.SideHome, outcome.Winner)
	assert.Equal(t, 0, outcome.HomeThrees)
	assert.Equal(t, 0, outcome.AwayThrees)
}

func TestOutcomeService_BuildOutcome_NotCompleted(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewOutcomeService(m.factory)

	game := &models.Game{ID: 10, Status: models.GameStatusLive}
	m.games.On("GetByID", ctx, int64(10)).Return(game, nil)

	outcome, err := service.BuildOutcome(ctx, 10)

	assert.ErrorIs(t, err, ErrGameNotCompleted)
	assert.Nil(t, outcome)
}

func TestOutcomeService_BuildOutcome_Tie(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewOutcomeService(m.factory)

	m.games.On("GetByID", ctx, int64(10)).Return(completedGame(10, 104, 104), nil)

	outcome, err := service.BuildOutcome(ctx, 10)

	assert.ErrorIs(t, err, ErrTieGame)
	assert.Nil(t, outcome)
}

func TestOutcomeService_BuildOutcome_NotFound(t *testing.T) {
	ctx := context.Background()
	m := newSettlementMocks(ctx)

	service := NewOutcomeService(m.factory)

	m.games.On("GetByID", ctx, int64(99)).Return(nil, nil)

	outcome, err := service.BuildOutcome(ctx, 99)

	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.Nil(t, outcome)
}
