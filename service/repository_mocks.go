package service

import (
	"context"
	"time"

	"archoops/events"
	"archoops/models"

	"github.com/stretchr/testify/mock"
)

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) Complete(ctx context.Context, id int64, homeScore, awayScore int) (bool, error) {
	args := m.Called(ctx, id, homeScore, awayScore)
	return args.Bool(0), args.Error(1)
}

func (m *MockGameRepository) MarkLive(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGameRepository) ListCompletedWithUnsettled(ctx context.Context) ([]*models.Game, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) ListStale(ctx context.Context, startedBefore time.Time) ([]*models.Game, error) {
	args := m.Called(ctx, startedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

// MockPredictionRepository is a mock implementation of PredictionRepository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Create(ctx context.Context, pred *models.Prediction) error {
	args := m.Called(ctx, pred)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, id int64) (*models.Prediction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) ListUnsettledByGame(ctx context.Context, gameID int64) ([]*models.Prediction, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) ListSettledByUser(ctx context.Context, userID int64, ascending bool) ([]*models.Prediction, error) {
	args := m.Called(ctx, userID, ascending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) CountByUser(ctx context.Context, userID int64) (int, int, int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Int(2), args.Error(3)
}

func (m *MockPredictionRepository) Settle(ctx context.Context, id int64, points int64, accuracy int, snapshot *models.GameOutcome) (bool, error) {
	args := m.Called(ctx, id, points, accuracy, snapshot)
	return args.Bool(0), args.Error(1)
}

func (m *MockPredictionRepository) LockByGame(ctx context.Context, gameID int64) error {
	args := m.Called(ctx, gameID)
	return args.Error(0)
}

func (m *MockPredictionRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, txn *models.PointsTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) SumByUserSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, userID int64, before *time.Time, reason *models.TransactionReason, gameID *int64, limit int) ([]*models.PointsTransaction, error) {
	args := m.Called(ctx, userID, before, reason, gameID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PointsTransaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByUserAndGame(ctx context.Context, userID, gameID int64) (*models.PointsTransaction, error) {
	args := m.Called(ctx, userID, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PointsTransaction), args.Error(1)
}

func (m *MockTransactionRepository) CountByGame(ctx context.Context, gameID int64) (int, error) {
	args := m.Called(ctx, gameID)
	return args.Int(0), args.Error(1)
}

// MockPlayerStatRepository is a mock implementation of PlayerStatRepository
type MockPlayerStatRepository struct {
	mock.Mock
}

func (m *MockPlayerStatRepository) CreateBatch(ctx context.Context, stats []*models.PlayerStat) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockPlayerStatRepository) SumThreesByTeam(ctx context.Context, gameID int64) (map[string]int, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockPlayerStatRepository) ListByGame(ctx context.Context, gameID int64) ([]*models.PlayerStat, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PlayerStat), args.Error(1)
}

// recordingPublisher collects events published within a unit of work so tests
// can assert on them without a live bus
type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) {
	p.published = append(p.published, e)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	gameRepo       GameRepository
	predictionRepo PredictionRepository
	txnRepo        TransactionRepository
	statRepo       PlayerStatRepository
	publisher      *recordingPublisher
}

// SetRepositories wires the repositories returned by the accessor methods
func (m *MockUnitOfWork) SetRepositories(games GameRepository, preds PredictionRepository, txns TransactionRepository, stats PlayerStatRepository) {
	m.gameRepo = games
	m.predictionRepo = preds
	m.txnRepo = txns
	m.statRepo = stats
	m.publisher = &recordingPublisher{}
}

// PublishedEvents returns the events published through this unit of work
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	if m.publisher == nil {
		return nil
	}
	return m.publisher.published
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) GameRepository() GameRepository {
	return m.gameRepo
}

func (m *MockUnitOfWork) PredictionRepository() PredictionRepository {
	return m.predictionRepo
}

func (m *MockUnitOfWork) TransactionRepository() TransactionRepository {
	return m.txnRepo
}

func (m *MockUnitOfWork) PlayerStatRepository() PlayerStatRepository {
	return m.statRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
