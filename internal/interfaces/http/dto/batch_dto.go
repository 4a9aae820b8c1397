package dto

import (
	"encoding/base64"
	"time"

	"github.com/invoicegen/backend/internal/application/invoicing"
	"github.com/invoicegen/backend/internal/domain/batch"
	"github.com/invoicegen/backend/internal/domain/invoice"
)

// BatchRunRequest carries the multipart form fields accompanying the
// dataset file. The recipient is constant across the whole batch.
type BatchRunRequest struct {
	BillToName    string `form:"bill_to_name" binding:"required,max=200"`
	BillToAddress string `form:"bill_to_address" binding:"max=500"`
	BillToEmail   string `form:"bill_to_email" binding:"omitempty,email"`
	BillToPhone   string `form:"bill_to_phone" binding:"max=20"`
	BillToGSTIN   string `form:"bill_to_gstin" binding:"max=20"`

	// Shared fragments merged into every generated invoice
	BankName string `form:"bank_name" binding:"max=200"`
	Branch   string `form:"branch" binding:"max=200"`
	Email    string `form:"email" binding:"omitempty,email"`

	FailurePolicy string `form:"failure_policy" binding:"omitempty,oneof=abort collect"`
	Delivery      string `form:"delivery" binding:"omitempty,oneof=archive json"`
}

// ToJob builds the batch job from the form fields and parsed rows
func (r BatchRunRequest) ToJob(rows []batch.BatchRow) *batch.BatchJob {
	return &batch.BatchJob{
		BillTo: invoice.PartyInfo{
			Name:    r.BillToName,
			Address: r.BillToAddress,
			Email:   r.BillToEmail,
			Phone:   r.BillToPhone,
			GSTIN:   r.BillToGSTIN,
		},
		Shared: batch.SharedFields{
			BankName: r.BankName,
			Branch:   r.Branch,
			Email:    r.Email,
		},
		Rows: rows,
	}
}

// Policy returns the requested failure policy, falling back to the
// configured default when the form leaves it out
func (r BatchRunRequest) Policy(fallback batch.FailurePolicy) batch.FailurePolicy {
	if r.FailurePolicy == "" {
		return fallback
	}
	return batch.FailurePolicy(r.FailurePolicy)
}

// RowFailureResponse describes a failed dataset row
type RowFailureResponse struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JobHistoryResponse is the API view of a batch job history record
type JobHistoryResponse struct {
	ID            string               `json:"id"`
	FileName      string               `json:"file_name"`
	TotalRows     int                  `json:"total_rows"`
	SuccessRows   int                  `json:"success_rows"`
	ErrorRows     int                  `json:"error_rows"`
	FailurePolicy string               `json:"failure_policy"`
	Status        string               `json:"status"`
	SuccessRate   float64              `json:"success_rate"`
	Failures      []RowFailureResponse `json:"failures,omitempty"`
	StartedAt     *time.Time           `json:"started_at,omitempty"`
	CompletedAt   *time.Time           `json:"completed_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// NewJobHistoryResponse converts a domain history to its API view
func NewJobHistoryResponse(h *batch.JobHistory) JobHistoryResponse {
	resp := JobHistoryResponse{
		ID:            h.ID.String(),
		FileName:      h.FileName,
		TotalRows:     h.TotalRows,
		SuccessRows:   h.SuccessRows,
		ErrorRows:     h.ErrorRows,
		FailurePolicy: string(h.FailurePolicy),
		Status:        string(h.Status),
		SuccessRate:   h.SuccessRate(),
		StartedAt:     h.StartedAt,
		CompletedAt:   h.CompletedAt,
		CreatedAt:     h.CreatedAt,
	}
	for _, f := range h.Failures {
		resp.Failures = append(resp.Failures, RowFailureResponse{
			Row:     f.Row,
			Field:   f.Field,
			Code:    f.Code,
			Message: f.Message,
		})
	}
	return resp
}

// DocumentResponse is one rendered invoice delivered inline
type DocumentResponse struct {
	FileName  string `json:"file_name"`
	PageCount int    `json:"page_count"`
	Content   string `json:"content"`
}

// BatchRunResponse is the JSON delivery shape of a batch run
type BatchRunResponse struct {
	History   JobHistoryResponse `json:"history"`
	Documents []DocumentResponse `json:"documents,omitempty"`
}

// NewBatchRunResponse converts a batch result for JSON delivery. Document
// contents are base64 encoded.
func NewBatchRunResponse(result *invoicing.BatchResult) BatchRunResponse {
	resp := BatchRunResponse{History: NewJobHistoryResponse(result.History)}
	for _, doc := range result.Documents {
		resp.Documents = append(resp.Documents, DocumentResponse{
			FileName:  doc.FileName,
			PageCount: doc.PageCount,
			Content:   base64.StdEncoding.EncodeToString(doc.Data),
		})
	}
	return resp
}

// ArchiveDownloadResponse carries a short-lived link to a stored batch
// archive
type ArchiveDownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
