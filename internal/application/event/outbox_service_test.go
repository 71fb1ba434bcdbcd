package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOutboxRepository is a mock implementation of shared.OutboxRepository
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[shared.OutboxStatus]int64), args.Error(1)
}

func deadEntry() *shared.OutboxEntry {
	entry := &shared.OutboxEntry{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		EventType:     "OrderShipped",
		AggregateID:   uuid.New(),
		AggregateType: "Order",
		Payload:       []byte(`{}`),
		Status:        shared.OutboxStatusDead,
		RetryCount:    5,
		MaxRetries:    5,
		LastError:     "send failed",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	return entry
}

func TestOutboxService_GetDeadLetterEntries(t *testing.T) {
	repo := new(MockOutboxRepository)
	service := NewOutboxService(repo, zap.NewNop())

	repo.On("FindDead", mock.Anything, 1, 20).Return([]*shared.OutboxEntry{deadEntry()}, int64(41), nil).Once()

	result, err := service.GetDeadLetterEntries(context.Background(), OutboxFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(41), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "DEAD", result.Entries[0].Status)
	assert.Equal(t, "OrderShipped", result.Entries[0].EventType)
}

func TestOutboxService_RetryDeadEntry(t *testing.T) {
	repo := new(MockOutboxRepository)
	service := NewOutboxService(repo, zap.NewNop())

	entry := deadEntry()
	repo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil).Once()
	repo.On("Update", mock.Anything, entry).Return(nil).Once()

	dto, err := service.RetryDeadEntry(context.Background(), entry.ID)

	require.NoError(t, err)
	assert.Equal(t, "PENDING", dto.Status)
	assert.Zero(t, dto.RetryCount)
	assert.Empty(t, dto.LastError)
}

func TestOutboxService_RetryDeadEntryRejectsNonDead(t *testing.T) {
	repo := new(MockOutboxRepository)
	service := NewOutboxService(repo, zap.NewNop())

	entry := deadEntry()
	entry.Status = shared.OutboxStatusSent
	repo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil).Once()

	_, err := service.RetryDeadEntry(context.Background(), entry.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestOutboxService_RetryDeadEntryNotFound(t *testing.T) {
	repo := new(MockOutboxRepository)
	service := NewOutboxService(repo, zap.NewNop())

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

	_, err := service.RetryDeadEntry(context.Background(), id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOutboxService_RetryAllDeadEntries(t *testing.T) {
	repo := new(MockOutboxRepository)
	service := NewOutboxService(repo, zap.NewNop())

	first := deadEntry()
	second := deadEntry()
	repo.On("FindDead", mock.Anything, 1, 100).Return([]*shared.OutboxEntry{first, second}, int64(2), nil).Once()
	repo.On("FindDead", mock.Anything, 1, 100).Return([]*shared.OutboxEntry{}, int64(0), nil).Once()
	repo.On("Update", mock.Anything, mock.Anything).Return(nil).Twice()

	count, err := service.RetryAllDeadEntries(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, shared.OutboxStatusPending, first.Status)
	assert.Equal(t, shared.OutboxStatusPending, second.Status)
}

func TestOutboxService_GetStats(t *testing.T) {
	repo := new(MockOutboxRepository)
	service := NewOutboxService(repo, zap.NewNop())

	repo.On("CountByStatus", mock.Anything).Return(map[shared.OutboxStatus]int64{
		shared.OutboxStatusPending: 3,
		shared.OutboxStatusSent:    120,
		shared.OutboxStatusFailed:  2,
		shared.OutboxStatusDead:    1,
	}, nil).Once()

	stats, err := service.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Pending)
	assert.Equal(t, int64(120), stats.Sent)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Equal(t, int64(1), stats.Dead)
	assert.Equal(t, int64(126), stats.Total)
}
