package batch

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/invoicegen/backend/internal/domain/shared"
)

// JobStatus represents the status of a batch rendering job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted,
		JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// FailurePolicy decides how row-level errors affect the rest of the batch
type FailurePolicy string

const (
	// FailurePolicyAbort stops at the first row error and discards all output
	FailurePolicyAbort FailurePolicy = "abort"
	// FailurePolicyCollect records row failures alongside the successes
	FailurePolicyCollect FailurePolicy = "collect"
)

// IsValid checks if the failure policy is valid
func (p FailurePolicy) IsValid() bool {
	return p == FailurePolicyAbort || p == FailurePolicyCollect
}

// RowFailure describes a failed row with enough context for a user-facing
// message
type RowFailure struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (f RowFailure) Error() string {
	if f.Field != "" {
		return fmt.Sprintf("row %d, field '%s': %s", f.Row, f.Field, f.Message)
	}
	return fmt.Sprintf("row %d: %s", f.Row, f.Message)
}

// JobHistory tracks the lifecycle and result of one batch rendering job
type JobHistory struct {
	shared.BaseAggregateRoot
	FileName      string        `json:"file_name"`
	TotalRows     int           `json:"total_rows"`
	SuccessRows   int           `json:"success_rows"`
	ErrorRows     int           `json:"error_rows"`
	FailurePolicy FailurePolicy `json:"failure_policy"`
	Status        JobStatus     `json:"status"`
	Failures      []RowFailure  `json:"failures,omitempty"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// NewJobHistory creates a new batch job history record
func NewJobHistory(fileName string, policy FailurePolicy) (*JobHistory, error) {
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if !policy.IsValid() {
		return nil, shared.NewDomainError("INVALID_FAILURE_POLICY", fmt.Sprintf("Invalid failure policy: %s", policy))
	}

	return &JobHistory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FileName:          fileName,
		FailurePolicy:     policy,
		Status:            JobStatusPending,
		Failures:          make([]RowFailure, 0),
	}, nil
}

// StartProcessing marks the job as started
func (h *JobHistory) StartProcessing(totalRows int) error {
	if h.Status != JobStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start processing from state: %s", h.Status))
	}
	if totalRows < 0 {
		return shared.NewDomainError("INVALID_TOTAL_ROWS", "Total rows cannot be negative")
	}

	h.Status = JobStatusProcessing
	h.TotalRows = totalRows
	now := time.Now()
	h.StartedAt = &now
	h.UpdatedAt = now
	h.IncrementVersion()

	return nil
}

// Complete marks the job as finished, deriving the terminal status from the
// row counts
func (h *JobHistory) Complete(successRows, errorRows int, failures []RowFailure) error {
	if h.Status != JobStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from state: %s", h.Status))
	}

	status := JobStatusCompleted
	if errorRows > 0 && successRows == 0 {
		status = JobStatusFailed
	}

	h.Status = status
	h.SuccessRows = successRows
	h.ErrorRows = errorRows
	h.Failures = failures
	now := time.Now()
	h.CompletedAt = &now
	h.UpdatedAt = now
	h.IncrementVersion()

	return nil
}

// Fail marks the job as failed
func (h *JobHistory) Fail(failures []RowFailure) error {
	if h.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", h.Status))
	}

	h.Status = JobStatusFailed
	h.Failures = failures
	h.ErrorRows = len(failures)
	now := time.Now()
	h.CompletedAt = &now
	h.UpdatedAt = now
	h.IncrementVersion()

	return nil
}

// Cancel marks the job as cancelled
func (h *JobHistory) Cancel() error {
	if h.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel from terminal state: %s", h.Status))
	}

	h.Status = JobStatusCancelled
	now := time.Now()
	h.CompletedAt = &now
	h.UpdatedAt = now
	h.IncrementVersion()

	return nil
}

// HasFailures returns true if there are any recorded row failures
func (h *JobHistory) HasFailures() bool {
	return len(h.Failures) > 0
}

// FailuresJSON returns the row failures as a JSON string
func (h *JobHistory) FailuresJSON() (string, error) {
	if len(h.Failures) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(h.Failures)
	if err != nil {
		return "", fmt.Errorf("failed to marshal row failures: %w", err)
	}
	return string(data), nil
}

// SetFailuresFromJSON parses row failures from a JSON string
func (h *JobHistory) SetFailuresFromJSON(jsonStr string) error {
	if jsonStr == "" || jsonStr == "[]" {
		h.Failures = make([]RowFailure, 0)
		return nil
	}
	var failures []RowFailure
	if err := json.Unmarshal([]byte(jsonStr), &failures); err != nil {
		return fmt.Errorf("failed to unmarshal row failures: %w", err)
	}
	h.Failures = failures
	return nil
}

// SuccessRate returns the success rate as a percentage (0-100)
func (h *JobHistory) SuccessRate() float64 {
	if h.TotalRows == 0 {
		return 0
	}
	return float64(h.SuccessRows) / float64(h.TotalRows) * 100
}

// Duration returns the duration of the batch run
func (h *JobHistory) Duration() time.Duration {
	if h.StartedAt == nil {
		return 0
	}
	end := time.Now()
	if h.CompletedAt != nil {
		end = *h.CompletedAt
	}
	return end.Sub(*h.StartedAt)
}
