package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
	"github.com/sie-ecommerce/enrollment-api/pkg/export"
	"github.com/sie-ecommerce/enrollment-api/pkg/jobs"
	"github.com/sie-ecommerce/enrollment-api/pkg/storage"
)

// exportColumns is the header of every rollup export.
var exportColumns = []string{
	"Unidade", "Aluno", "RA", "Turma", "Gênero", "Modalidade", "Unidade da Modalidade", "Data", "Responsável",
}

type rollupReporter interface {
	Report(ctx context.Context, filter models.RollupFilter) (*models.RollupReport, error)
}

// ExportService generates rollup exports asynchronously. Jobs are queued,
// rendered to CSV or PDF, stored on disk and handed back through a signed
// download token.
type ExportService struct {
	rollup   rollupReporter
	store    *storage.LocalStorage
	signer   *storage.SignedURLSigner
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	queue    *jobs.Queue
	validate *validator.Validate
	logger   *zap.Logger

	mu   sync.RWMutex
	byID map[string]*models.ExportJob
}

// NewExportService wires the service and its worker queue. Call Start before
// enqueueing.
func NewExportService(
	rollup rollupReporter,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	queueCfg jobs.QueueConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &ExportService{
		rollup:   rollup,
		store:    store,
		signer:   signer,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		validate: validate,
		logger:   logger,
		byID:     make(map[string]*models.ExportJob),
	}
	queueCfg.Logger = logger
	s.queue = jobs.NewQueue("rollup-exports", s.process, queueCfg)
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Request enqueues a new export and returns the pending job.
func (s *ExportService) Request(ctx context.Context, req models.ExportRequest, requestedBy string) (*models.ExportJob, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, err.Error())
	}

	job := &models.ExportJob{
		ID:          uuid.NewString(),
		Format:      req.Format,
		Filter:      req.Filter,
		Status:      models.ExportStatusPending,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.byID[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "rollup-export"}); err != nil {
		s.mu.Lock()
		delete(s.byID, job.ID)
		s.mu.Unlock()
		return nil, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "enqueue export")
	}

	return s.snapshot(job.ID), nil
}

// Get returns the current state of a job.
func (s *ExportService) Get(id string) (*models.ExportJob, error) {
	job := s.snapshot(id)
	if job == nil {
		return nil, errors.Clone(errors.ErrNotFound, "export job not found")
	}
	return job, nil
}

// OpenDownload validates a signed token and opens the exported file.
func (s *ExportService) OpenDownload(token string) (*models.ExportJob, string, error) {
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrForbidden.Code, errors.ErrForbidden.Status, "invalid download token")
	}

	job := s.snapshot(jobID)
	if job == nil || job.Status != models.ExportStatusDone {
		return nil, "", errors.Clone(errors.ErrNotFound, "export not available")
	}
	return job, relPath, nil
}

// Storage exposes the underlying file store for download streaming.
func (s *ExportService) Storage() *storage.LocalStorage {
	return s.store
}

func (s *ExportService) process(ctx context.Context, queued jobs.Job) error {
	s.setStatus(queued.ID, models.ExportStatusProcessing, "")

	job := s.snapshot(queued.ID)
	if job == nil {
		return fmt.Errorf("unknown export job %s", queued.ID)
	}

	report, err := s.rollup.Report(ctx, job.Filter)
	if err != nil {
		s.setStatus(job.ID, models.ExportStatusFailed, err.Error())
		return err
	}

	table := export.Table{Columns: exportColumns, Rows: make([][]string, 0, len(report.Rows))}
	for _, row := range report.Rows {
		table.Rows = append(table.Rows, []string{
			row.Unit, row.Student, row.RA, row.Cohort, row.ModalityGender,
			row.Modality, row.ModalityUnit, row.Timestamp, row.EnrolledBy,
		})
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(table, "Inscrições por unidade")
	default:
		payload, err = s.csv.Render(table)
	}
	if err != nil {
		s.setStatus(job.ID, models.ExportStatusFailed, err.Error())
		return err
	}

	fileName := fmt.Sprintf("rollup-%s.%s", job.ID, job.Format)
	if _, err := s.store.Save(fileName, payload); err != nil {
		s.setStatus(job.ID, models.ExportStatusFailed, err.Error())
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, fileName)
	if err != nil {
		s.setStatus(job.ID, models.ExportStatusFailed, err.Error())
		return err
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if stored, ok := s.byID[job.ID]; ok {
		stored.Status = models.ExportStatusDone
		stored.FileName = fileName
		stored.DownloadToken = token
		stored.ExpiresAt = &expiresAt
		stored.CompletedAt = &now
		stored.Error = ""
	}
	s.mu.Unlock()

	s.logger.Info("export completed",
		zap.String("job_id", job.ID),
		zap.String("format", job.Format),
		zap.Int("rows", len(report.Rows)))

	return nil
}

func (s *ExportService) setStatus(id, status, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.byID[id]; ok {
		job.Status = status
		job.Error = errMsg
		if status == models.ExportStatusFailed {
			now := time.Now().UTC()
			job.CompletedAt = &now
		}
	}
}

func (s *ExportService) snapshot(id string) *models.ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.byID[id]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}
