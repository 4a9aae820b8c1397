package batch

import (
	"context"

	"github.com/google/uuid"
)

// JobHistoryRepository persists batch job history records
type JobHistoryRepository interface {
	Save(ctx context.Context, history *JobHistory) error
	Update(ctx context.Context, history *JobHistory) error
	FindByID(ctx context.Context, id uuid.UUID) (*JobHistory, error)
	FindAll(ctx context.Context, page, pageSize int) ([]*JobHistory, int64, error)
}
