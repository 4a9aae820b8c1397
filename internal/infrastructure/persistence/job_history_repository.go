package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invoicegen/backend/internal/domain/batch"
	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/invoicegen/backend/internal/infrastructure/persistence/models"
)

// GormJobHistoryRepository implements batch.JobHistoryRepository using GORM
type GormJobHistoryRepository struct {
	db *gorm.DB
}

// NewGormJobHistoryRepository creates a new GormJobHistoryRepository
func NewGormJobHistoryRepository(db *gorm.DB) *GormJobHistoryRepository {
	return &GormJobHistoryRepository{db: db}
}

// Save creates a job history record
func (r *GormJobHistoryRepository) Save(ctx context.Context, history *batch.JobHistory) error {
	model := models.JobHistoryModelFromDomain(history)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists the current state of a job history record
func (r *GormJobHistoryRepository) Update(ctx context.Context, history *batch.JobHistory) error {
	model := models.JobHistoryModelFromDomain(history)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a job history by ID
func (r *GormJobHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*batch.JobHistory, error) {
	var model models.JobHistoryModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns job histories ordered most recent first, with pagination
func (r *GormJobHistoryRepository) FindAll(ctx context.Context, page, pageSize int) ([]*batch.JobHistory, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.JobHistoryModel{})

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		query = query.Offset(offset).Limit(pageSize)
	}

	query = query.Order("created_at DESC")

	var historyModels []models.JobHistoryModel
	if err := query.Find(&historyModels).Error; err != nil {
		return nil, 0, err
	}

	histories := make([]*batch.JobHistory, len(historyModels))
	for i, model := range historyModels {
		histories[i] = model.ToDomain()
	}

	return histories, totalCount, nil
}

// Compile-time interface compliance check
var _ batch.JobHistoryRepository = (*GormJobHistoryRepository)(nil)
