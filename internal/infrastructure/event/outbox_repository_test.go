package event

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockOutboxRepository creates a GormOutboxRepository with a mocked SQL connection
func newMockOutboxRepository(t *testing.T) (*GormOutboxRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOutboxRepository(gormDB), mock, mockDB
}

func outboxRow(id uuid.UUID, status shared.OutboxStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "event_id", "event_type", "aggregate_id", "aggregate_type",
		"payload", "status", "retry_count", "max_retries",
		"created_at", "updated_at",
	}).AddRow(
		id, uuid.New(), "OrderPlaced", uuid.New(), "Order",
		[]byte(`{}`), status, 0, 5,
		now, now,
	)
}

func TestGormOutboxRepository_FindPending(t *testing.T) {
	t.Run("orders pending entries oldest first", func(t *testing.T) {
		repo, mock, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		entryID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "outbox_events" WHERE status = \$1 ORDER BY created_at ASC LIMIT .*`).
			WithArgs("PENDING", 100).
			WillReturnRows(outboxRow(entryID, shared.OutboxStatusPending))

		entries, err := repo.FindPending(context.Background(), 100)

		assert.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entryID, entries[0].ID)
		assert.Equal(t, "OrderPlaced", entries[0].EventType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOutboxRepository_FindRetryable(t *testing.T) {
	t.Run("selects failed entries due for retry", func(t *testing.T) {
		repo, mock, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		before := time.Now()

		mock.ExpectQuery(`SELECT \* FROM "outbox_events" WHERE status = \$1 AND next_retry_at <= \$2 ORDER BY next_retry_at ASC LIMIT .*`).
			WithArgs("FAILED", sqlmock.AnyArg(), 100).
			WillReturnRows(outboxRow(uuid.New(), shared.OutboxStatusFailed))

		entries, err := repo.FindRetryable(context.Background(), before, 100)

		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOutboxRepository_MarkProcessing(t *testing.T) {
	t.Run("claims entries with row locks", func(t *testing.T) {
		repo, mock, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		entryID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "outbox_events" WHERE id IN \(\$1\) AND status IN \(\$2,\$3\) FOR UPDATE SKIP LOCKED`).
			WithArgs(entryID, "PENDING", "FAILED").
			WillReturnRows(outboxRow(entryID, shared.OutboxStatusPending))
		mock.ExpectExec(`UPDATE "outbox_events" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		entries, err := repo.MarkProcessing(context.Background(), []uuid.UUID{entryID})

		assert.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, shared.OutboxStatusProcessing, entries[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no-op for empty id list", func(t *testing.T) {
		repo, _, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		entries, err := repo.MarkProcessing(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestGormOutboxRepository_FindDead(t *testing.T) {
	t.Run("paginates dead letter entries", func(t *testing.T) {
		repo, mock, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "outbox_events" WHERE status = \$1`).
			WithArgs("DEAD").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))

		mock.ExpectQuery(`SELECT \* FROM "outbox_events" WHERE status = \$1 ORDER BY updated_at DESC LIMIT .*`).
			WithArgs("DEAD", 20).
			WillReturnRows(outboxRow(uuid.New(), shared.OutboxStatusDead))

		entries, total, err := repo.FindDead(context.Background(), 1, 20)

		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, int64(41), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOutboxRepository_FindByID(t *testing.T) {
	t.Run("returns ErrNotFound for missing entry", func(t *testing.T) {
		repo, mock, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		entryID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "outbox_events" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(entryID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		entry, err := repo.FindByID(context.Background(), entryID)

		assert.Nil(t, entry)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOutboxRepository_CountByStatus(t *testing.T) {
	t.Run("groups counts by status", func(t *testing.T) {
		repo, mock, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"status", "count"}).
			AddRow("PENDING", 3).
			AddRow("SENT", 120).
			AddRow("DEAD", 2)

		mock.ExpectQuery(`SELECT status, count\(\*\) as count FROM "outbox_events" GROUP BY .*status.*`).
			WillReturnRows(rows)

		counts, err := repo.CountByStatus(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(3), counts[shared.OutboxStatusPending])
		assert.Equal(t, int64(120), counts[shared.OutboxStatusSent])
		assert.Equal(t, int64(2), counts[shared.OutboxStatusDead])
	})
}

func TestGormOutboxRepository_DeleteOlderThan(t *testing.T) {
	t.Run("deletes sent entries past retention", func(t *testing.T) {
		repo, mock, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "outbox_events" WHERE status = \$1 AND processed_at < \$2`).
			WithArgs("SENT", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 17))

		deleted, err := repo.DeleteOlderThan(context.Background(), time.Now().Add(-7*24*time.Hour))

		assert.NoError(t, err)
		assert.Equal(t, int64(17), deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
