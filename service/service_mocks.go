package service

import (
	"context"

	"archoops/scoring"

	"github.com/stretchr/testify/mock"
)

// MockSettlementService is a mock implementation of SettlementService
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) SettlePrediction(ctx context.Context, predictionID int64) (*scoring.Breakdown, error) {
	args := m.Called(ctx, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scoring.Breakdown), args.Error(1)
}

func (m *MockSettlementService) SettleGame(ctx context.Context, gameID int64) ([]*scoring.Breakdown, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scoring.Breakdown), args.Error(1)
}
