package models

import (
	"time"

	"github.com/invoicegen/backend/internal/domain/batch"
)

// JobHistoryModel is the persistence model for the batch JobHistory aggregate.
type JobHistoryModel struct {
	AggregateModel
	FileName      string              `gorm:"type:varchar(255);not null"`
	TotalRows     int                 `gorm:"not null;default:0"`
	SuccessRows   int                 `gorm:"not null;default:0"`
	ErrorRows     int                 `gorm:"not null;default:0"`
	FailurePolicy batch.FailurePolicy `gorm:"type:varchar(20);not null;default:'abort'"`
	Status        batch.JobStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Failures      string              `gorm:"type:text;default:'[]'"`
	StartedAt     *time.Time
	CompletedAt   *time.Time
}

// TableName returns the table name for GORM
func (JobHistoryModel) TableName() string {
	return "job_histories"
}

// ToDomain converts the persistence model to a domain JobHistory aggregate.
func (m *JobHistoryModel) ToDomain() *batch.JobHistory {
	history := &batch.JobHistory{
		FileName:      m.FileName,
		TotalRows:     m.TotalRows,
		SuccessRows:   m.SuccessRows,
		ErrorRows:     m.ErrorRows,
		FailurePolicy: m.FailurePolicy,
		Status:        m.Status,
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
	}
	m.PopulateAggregateRoot(&history.BaseAggregateRoot)

	if m.Failures != "" {
		_ = history.SetFailuresFromJSON(m.Failures)
	}

	return history
}

// FromDomain populates the persistence model from a domain JobHistory aggregate.
func (m *JobHistoryModel) FromDomain(h *batch.JobHistory) {
	m.FromDomainAggregateRoot(h.BaseAggregateRoot)
	m.FileName = h.FileName
	m.TotalRows = h.TotalRows
	m.SuccessRows = h.SuccessRows
	m.ErrorRows = h.ErrorRows
	m.FailurePolicy = h.FailurePolicy
	m.Status = h.Status
	m.StartedAt = h.StartedAt
	m.CompletedAt = h.CompletedAt

	if failuresJSON, err := h.FailuresJSON(); err == nil {
		m.Failures = failuresJSON
	} else {
		m.Failures = "[]"
	}
}

// JobHistoryModelFromDomain creates a new persistence model from a domain JobHistory.
func JobHistoryModelFromDomain(h *batch.JobHistory) *JobHistoryModel {
	m := &JobHistoryModel{}
	m.FromDomain(h)
	return m
}
