package invoicing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/invoicegen/backend/internal/domain/batch"
	"github.com/invoicegen/backend/internal/domain/shared"
)

// DeliveryMode selects how batch output is returned
type DeliveryMode string

const (
	// DeliveryArchive packs the documents into a single zip archive
	DeliveryArchive DeliveryMode = "archive"
	// DeliveryBuffers returns the named documents individually
	DeliveryBuffers DeliveryMode = "buffers"
)

// IsValid checks if the delivery mode is valid
func (m DeliveryMode) IsValid() bool {
	return m == DeliveryArchive || m == DeliveryBuffers
}

// ProgressFunc receives completion updates as rows finish rendering
type ProgressFunc func(completed, total int)

// BatchOptions configures one batch run
type BatchOptions struct {
	FailurePolicy batch.FailurePolicy
	DeliveryMode  DeliveryMode
	Workers       int
	Progress      ProgressFunc
	// PriorFailures are row errors found while parsing the dataset,
	// merged into the run under the same failure policy
	PriorFailures []batch.RowFailure
}

// BatchResult is the outcome of a batch run
type BatchResult struct {
	History   *batch.JobHistory
	Documents []RenderedDocument
	Archive   []byte
	Failures  []batch.RowFailure
}

// BatchService fans one dataset out over the render service and collects
// the output
type BatchService struct {
	render      *RenderService
	historyRepo batch.JobHistoryRepository
	store       ArchiveStore
	logger      *zap.Logger
	workers     int
}

// BatchServiceOption is a functional option for BatchService
type BatchServiceOption func(*BatchService)

// WithArchiveStore enables archive upload after completed runs
func WithArchiveStore(store ArchiveStore) BatchServiceOption {
	return func(s *BatchService) {
		s.store = store
	}
}

// WithBatchLogger sets the service logger
func WithBatchLogger(logger *zap.Logger) BatchServiceOption {
	return func(s *BatchService) {
		s.logger = logger
	}
}

// WithWorkers sets the default worker count
func WithWorkers(n int) BatchServiceOption {
	return func(s *BatchService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewBatchService creates a new BatchService
func NewBatchService(render *RenderService, historyRepo batch.JobHistoryRepository, opts ...BatchServiceOption) *BatchService {
	s := &BatchService{
		render:      render,
		historyRepo: historyRepo,
		logger:      zap.NewNop(),
		workers:     4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run renders every row of the job. Output order always matches row
// order regardless of which worker finished first. Under the abort
// policy the first row error discards all output; under collect, row
// failures are recorded and the remaining rows still render.
func (s *BatchService) Run(ctx context.Context, job *batch.BatchJob, fileName string, opts BatchOptions) (*BatchResult, error) {
	if job == nil || len(job.Rows) == 0 {
		return nil, shared.NewDomainError(shared.CodeSchemaError, "batch job has no rows")
	}
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = batch.FailurePolicyAbort
	}
	if opts.DeliveryMode == "" {
		opts.DeliveryMode = DeliveryArchive
	}

	history, err := batch.NewJobHistory(fileName, opts.FailurePolicy)
	if err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to record batch job: %w", err)
	}

	total := len(job.Rows) + len(opts.PriorFailures)
	if err := history.StartProcessing(total); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Update(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to update batch job: %w", err)
	}

	// Parse-time failures abort before any rendering starts
	if opts.FailurePolicy == batch.FailurePolicyAbort && len(opts.PriorFailures) > 0 {
		return s.fail(ctx, history, opts.PriorFailures)
	}

	docs, failures := s.renderRows(ctx, job, opts, total)
	failures = append(opts.PriorFailures, failures...)
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].Row < failures[j].Row })

	if err := ctx.Err(); err != nil {
		if cancelErr := history.Cancel(); cancelErr == nil {
			_ = s.historyRepo.Update(context.WithoutCancel(ctx), history)
		}
		return nil, err
	}

	if opts.FailurePolicy == batch.FailurePolicyAbort && len(failures) > 0 {
		return s.fail(ctx, history, failures)
	}

	if err := history.Complete(len(docs), len(failures), failures); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Update(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to update batch job: %w", err)
	}

	result := &BatchResult{
		History:   history,
		Documents: docs,
		Failures:  failures,
	}

	if opts.DeliveryMode == DeliveryArchive {
		archive, err := BuildArchive(docs)
		if err != nil {
			return nil, shared.NewDomainError(shared.CodeRenderError, err.Error())
		}
		result.Archive = archive

		if s.store != nil {
			key := ArchiveKey(history.ID)
			if err := s.store.Upload(ctx, key, archive, "application/zip"); err != nil {
				s.logger.Warn("Failed to upload batch archive",
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}
	}

	s.logger.Info("Batch run finished",
		zap.String("job_id", history.ID.String()),
		zap.String("status", string(history.Status)),
		zap.Int("success_rows", history.SuccessRows),
		zap.Int("error_rows", history.ErrorRows),
		zap.Duration("duration", history.Duration()),
	)

	return result, nil
}

// renderRows fans the rows out over a bounded worker pool. Results land
// in a slice pre-sized by row index so output order is deterministic.
func (s *BatchService) renderRows(ctx context.Context, job *batch.BatchJob, opts BatchOptions, total int) ([]RenderedDocument, []batch.RowFailure) {
	workers := opts.Workers
	if workers <= 0 {
		workers = s.workers
	}
	if workers > len(job.Rows) {
		workers = len(job.Rows)
	}

	runDate := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*RenderedDocument, len(job.Rows))
	rowErrs := make([]*batch.RowFailure, len(job.Rows))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	// Rows rejected at parse time count as done from the start so the
	// final progress report reaches total.
	completed := total - len(job.Rows)

	indexes := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if runCtx.Err() != nil {
					return
				}

				doc, err := s.renderRow(runCtx, job, job.Rows[i], runDate)

				mu.Lock()
				if err != nil {
					rowErrs[i] = &batch.RowFailure{
						Row:     i + 1,
						Code:    errorCode(err),
						Message: err.Error(),
					}
					if opts.FailurePolicy == batch.FailurePolicyAbort {
						cancel()
					}
				} else {
					results[i] = doc
				}
				completed++
				// The callback fires under the lock: updates arrive
				// serialized and in order.
				if opts.Progress != nil {
					opts.Progress(completed, total)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for i := range job.Rows {
		select {
		case indexes <- i:
		case <-runCtx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	var docs []RenderedDocument
	var failures []batch.RowFailure
	for i := range job.Rows {
		if rowErrs[i] != nil {
			failures = append(failures, *rowErrs[i])
			continue
		}
		if results[i] != nil {
			docs = append(docs, *results[i])
		}
	}

	return docs, failures
}

func (s *BatchService) renderRow(ctx context.Context, job *batch.BatchJob, row batch.BatchRow, runDate time.Time) (*RenderedDocument, error) {
	record, err := job.Record(row, runDate)
	if err != nil {
		return nil, err
	}
	return s.render.Render(ctx, record, nil)
}

func (s *BatchService) fail(ctx context.Context, history *batch.JobHistory, failures []batch.RowFailure) (*BatchResult, error) {
	if err := history.Fail(failures); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Update(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to update batch job: %w", err)
	}

	return nil, shared.NewDomainError(shared.CodeComputationError,
		fmt.Sprintf("batch aborted: %d row(s) failed, first: %s", len(failures), failures[0].Error()))
}

func errorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return shared.CodeRenderError
}
