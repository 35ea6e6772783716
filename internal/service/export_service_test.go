package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/pkg/jobs"
	"github.com/sie-ecommerce/enrollment-api/pkg/storage"
)

func newTestExportService(t *testing.T, lister *mockEnrollmentLister) *ExportService {
	t.Helper()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test_secret", time.Hour)
	rollup := NewRollupService(lister, nil)

	svc := NewExportService(rollup, store, signer, jobs.QueueConfig{Workers: 1}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		cancel()
		svc.Stop()
	})
	return svc
}

func waitForJob(t *testing.T, svc *ExportService, id string) *models.ExportJob {
	t.Helper()

	var job *models.ExportJob
	require.Eventually(t, func() bool {
		current, err := svc.Get(id)
		if err != nil {
			return false
		}
		job = current
		return current.Status == models.ExportStatusDone || current.Status == models.ExportStatusFailed
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestExportServiceCSVRoundTrip(t *testing.T) {
	svc := newTestExportService(t, rollupFixture())

	job, err := svc.Request(context.Background(), models.ExportRequest{Format: models.ExportFormatCSV}, "Maria")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusPending, job.Status)

	done := waitForJob(t, svc, job.ID)
	require.Equal(t, models.ExportStatusDone, done.Status)
	assert.NotEmpty(t, done.DownloadToken)
	assert.Equal(t, "Maria", done.RequestedBy)

	found, relPath, err := svc.OpenDownload(done.DownloadToken)
	require.NoError(t, err)
	assert.Equal(t, done.ID, found.ID)

	file, err := svc.Storage().Open(relPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportServicePDF(t *testing.T) {
	svc := newTestExportService(t, rollupFixture())

	job, err := svc.Request(context.Background(), models.ExportRequest{Format: models.ExportFormatPDF}, "Maria")
	require.NoError(t, err)

	done := waitForJob(t, svc, job.ID)
	assert.Equal(t, models.ExportStatusDone, done.Status)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newTestExportService(t, rollupFixture())

	_, err := svc.Request(context.Background(), models.ExportRequest{Format: "xlsx"}, "Maria")
	assert.Error(t, err)
}

func TestExportServiceUnknownJob(t *testing.T) {
	svc := newTestExportService(t, rollupFixture())

	_, err := svc.Get("missing")
	assert.Error(t, err)
}

func TestExportServiceInvalidDownloadToken(t *testing.T) {
	svc := newTestExportService(t, rollupFixture())

	_, _, err := svc.OpenDownload("garbage")
	assert.Error(t, err)
}
