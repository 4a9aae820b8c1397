package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/invoicegen/backend/internal/application/invoicing"
	"github.com/invoicegen/backend/internal/domain/batch"
	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/invoicegen/backend/internal/infrastructure/ingest"
	"github.com/invoicegen/backend/internal/interfaces/http/dto"
	"github.com/invoicegen/backend/internal/interfaces/http/middleware"
)

// downloadLinkTTL bounds how long an archive download link stays valid
const downloadLinkTTL = 15 * time.Minute

// BatchHandler handles dataset uploads and batch job history
type BatchHandler struct {
	BaseHandler
	batches       *invoicing.BatchService
	historyRepo   batch.JobHistoryRepository
	store         invoicing.ArchiveStore
	maxRows       int
	defaultPolicy batch.FailurePolicy
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batches *invoicing.BatchService, historyRepo batch.JobHistoryRepository, store invoicing.ArchiveStore, maxRows int, defaultPolicy batch.FailurePolicy) *BatchHandler {
	return &BatchHandler{
		batches:       batches,
		historyRepo:   historyRepo,
		store:         store,
		maxRows:       maxRows,
		defaultPolicy: defaultPolicy,
	}
}

// Run accepts a CSV dataset plus the constant form fields and runs the
// batch pipeline. The archive delivery streams a zip; the json delivery
// returns the rendered documents inline.
func (h *BatchHandler) Run(c *gin.Context) {
	var req dto.BatchRunRequest
	if err := c.ShouldBind(&req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid form data")
		return
	}

	fileName, data, err := h.readDatasetFile(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	rows, parseFailures, err := ingest.ParseRows(data, h.maxRows)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(rows) == 0 {
		h.HandleError(c, shared.NewDomainError(shared.CodeSchemaError,
			fmt.Sprintf("Dataset has no renderable rows, %d row(s) failed validation", len(parseFailures))))
		return
	}

	opts := invoicing.BatchOptions{
		FailurePolicy: req.Policy(h.defaultPolicy),
		DeliveryMode:  invoicing.DeliveryArchive,
		PriorFailures: parseFailures,
	}
	if req.Delivery == "json" {
		opts.DeliveryMode = invoicing.DeliveryBuffers
	}

	result, err := h.batches.Run(c.Request.Context(), req.ToJob(rows), fileName, opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if opts.DeliveryMode == invoicing.DeliveryBuffers {
		h.Success(c, dto.NewBatchRunResponse(result))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archiveName(fileName)))
	c.Header("X-Job-ID", result.History.ID.String())
	c.Data(http.StatusOK, "application/zip", result.Archive)
}

// readDatasetFile pulls the uploaded CSV out of the multipart form
func (h *BatchHandler) readDatasetFile(c *gin.Context) (string, []byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, shared.NewDomainError(shared.CodeSchemaError, "Dataset file is required")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".csv" {
		return "", nil, shared.NewDomainError(shared.CodeSchemaError,
			fmt.Sprintf("Unsupported file type %q, expected .csv", ext))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, shared.NewDomainError(shared.CodeSchemaError, "Failed to open uploaded file")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, shared.NewDomainError(shared.CodeSchemaError, "Failed to read uploaded file")
	}

	return fileHeader.Filename, data, nil
}

// archiveName derives the zip name from the dataset name
func archiveName(fileName string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if base == "" {
		base = "invoices"
	}
	return base + ".zip"
}

// ListHistories returns the batch job history, newest first
func (h *BatchHandler) ListHistories(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	histories, total, err := h.historyRepo.FindAll(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.JobHistoryResponse, 0, len(histories))
	for _, history := range histories {
		responses = append(responses, dto.NewJobHistoryResponse(history))
	}

	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}

// GetHistory returns one batch job history record by ID
func (h *BatchHandler) GetHistory(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	history, err := h.historyRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewJobHistoryResponse(history))
}

// DownloadArchive returns a short-lived link to the stored archive of a
// completed batch run
func (h *BatchHandler) DownloadArchive(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	history, err := h.historyRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if history.Status != batch.JobStatusCompleted {
		h.HandleError(c, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Job is %s, archives exist for completed jobs only", history.Status)))
		return
	}

	url, expiresAt, err := h.store.DownloadURL(c.Request.Context(), invoicing.ArchiveKey(history.ID), downloadLinkTTL)
	if err != nil {
		h.HandleError(c, shared.NewDomainError("NOT_FOUND", "No archive is stored for this job"))
		return
	}

	h.Success(c, dto.ArchiveDownloadResponse{URL: url, ExpiresAt: expiresAt})
}

// DownloadTemplate serves a sample dataset with the expected columns
func (h *BatchHandler) DownloadTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="invoice_dataset_template.csv"`)
	c.Data(http.StatusOK, "text/csv", ingest.SampleCSV())
}
