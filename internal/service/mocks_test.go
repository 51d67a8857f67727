package service

import (
	"context"
	"time"

	"brewbean/internal/model"
	"brewbean/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockMenuRepository is a mock implementation of repository.MenuRepository.
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) GetAll(ctx context.Context, category string) ([]model.MenuItem, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) ValidateItemsExist(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByPickupCode(ctx context.Context, code string) (*model.Order, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, q *repository.Query) ([]model.Order, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) Stats(ctx context.Context, since time.Time) (*model.DashboardStats, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardStats), args.Error(1)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) CreditPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error {
	args := m.Called(ctx, tx, id, points)
	return args.Error(0)
}

func (m *MockUserRepository) DebitPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error {
	args := m.Called(ctx, tx, id, points)
	return args.Error(0)
}

// MockRewardRepository is a mock implementation of repository.RewardRepository.
type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reward), args.Error(1)
}

func (m *MockRewardRepository) List(ctx context.Context, q *repository.Query) ([]model.Reward, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reward), args.Error(1)
}

func (m *MockRewardRepository) RecordRedemption(ctx context.Context, tx pgx.Tx, redemption *model.Redemption) error {
	args := m.Called(ctx, tx, redemption)
	return args.Error(0)
}

// MockCartStore is a mock implementation of cart.Store.
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Get(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockCartStore) Save(ctx context.Context, userID uuid.UUID, items []model.CartItem) error {
	args := m.Called(ctx, userID, items)
	return args.Error(0)
}

func (m *MockCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockPaymentProvider is a mock implementation of payment.Provider.
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateIntent(ctx context.Context, amount float64) (string, error) {
	args := m.Called(ctx, amount)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentProvider) Process(ctx context.Context, intentID, paymentMethodID string) error {
	args := m.Called(ctx, intentID, paymentMethodID)
	return args.Error(0)
}

func (m *MockPaymentProvider) Refund(ctx context.Context, intentID string) error {
	args := m.Called(ctx, intentID)
	return args.Error(0)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
