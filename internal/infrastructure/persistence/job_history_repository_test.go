package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicegen/backend/internal/domain/batch"
	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/invoicegen/backend/internal/infrastructure/config"
)

func newTestRepository(t *testing.T) *GormJobHistoryRepository {
	t.Helper()

	db, err := NewDatabase(&config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	return NewGormJobHistoryRepository(db.DB)
}

func newTestHistory(t *testing.T, fileName string) *batch.JobHistory {
	t.Helper()
	history, err := batch.NewJobHistory(fileName, batch.FailurePolicyAbort)
	require.NoError(t, err)
	return history
}

func TestGormJobHistoryRepository_SaveAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	history := newTestHistory(t, "invoices.csv")
	require.NoError(t, repo.Save(ctx, history))

	found, err := repo.FindByID(ctx, history.ID)
	require.NoError(t, err)
	assert.Equal(t, history.ID, found.ID)
	assert.Equal(t, "invoices.csv", found.FileName)
	assert.Equal(t, batch.JobStatusPending, found.Status)
	assert.Equal(t, batch.FailurePolicyAbort, found.FailurePolicy)
	assert.Empty(t, found.Failures)
}

func TestGormJobHistoryRepository_FindByID_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormJobHistoryRepository_Update(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	history := newTestHistory(t, "invoices.csv")
	require.NoError(t, repo.Save(ctx, history))

	require.NoError(t, history.StartProcessing(10))
	failures := []batch.RowFailure{
		{Row: 3, Field: "amount", Code: "INVALID_AMOUNT", Message: "'abc' is not a valid amount"},
	}
	require.NoError(t, history.Complete(9, 1, failures))
	require.NoError(t, repo.Update(ctx, history))

	found, err := repo.FindByID(ctx, history.ID)
	require.NoError(t, err)
	assert.Equal(t, batch.JobStatusCompleted, found.Status)
	assert.Equal(t, 10, found.TotalRows)
	assert.Equal(t, 9, found.SuccessRows)
	assert.Equal(t, 1, found.ErrorRows)
	require.Len(t, found.Failures, 1)
	assert.Equal(t, 3, found.Failures[0].Row)
	assert.NotNil(t, found.StartedAt)
	assert.NotNil(t, found.CompletedAt)
}

func TestGormJobHistoryRepository_FindAll(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, name := range []string{"a.csv", "b.csv", "c.csv"} {
		require.NoError(t, repo.Save(ctx, newTestHistory(t, name)))
	}

	t.Run("all records", func(t *testing.T) {
		histories, total, err := repo.FindAll(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, histories, 3)
	})

	t.Run("paginated", func(t *testing.T) {
		histories, total, err := repo.FindAll(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, histories, 2)

		histories, _, err = repo.FindAll(ctx, 2, 2)
		require.NoError(t, err)
		assert.Len(t, histories, 1)
	})
}
