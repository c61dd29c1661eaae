// handlers/sow_handler_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibretrack/sow-backend/models"
	"github.com/fibretrack/sow-backend/services"
)

type stubIngestor struct {
	gotProjectID  string
	gotEntityType models.EntityType
	gotFilename   string
	gotBody       []byte

	result *models.IngestResult
	err    error
}

func (s *stubIngestor) Ingest(ctx context.Context, projectID string, entityType models.EntityType, file io.Reader, filename string) (*models.IngestResult, error) {
	s.gotProjectID = projectID
	s.gotEntityType = entityType
	s.gotFilename = filename
	s.gotBody, _ = io.ReadAll(file)
	return s.result, s.err
}

type stubSummarizer struct {
	summary *models.ProjectSummary
	err     error
}

func (s *stubSummarizer) Refresh(ctx context.Context, projectID string) (*models.ProjectSummary, error) {
	return s.summary, s.err
}

func (s *stubSummarizer) Get(ctx context.Context, projectID string) (*models.ProjectSummary, error) {
	return s.summary, s.err
}

type stubExporter struct {
	data []byte
	err  error
}

func (s *stubExporter) ExportCSV(ctx context.Context, projectID string, entityType models.EntityType) ([]byte, error) {
	return s.data, s.err
}

func newTestHandler(ingestor Ingestor, summary Summarizer, exporter Exporter) *SowHandler {
	return NewSowHandler(ingestor, summary, exporter, nil, nil, nil, 1<<20)
}

func multipartUpload(t *testing.T, fieldName, filename, contents string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHandleIngest(t *testing.T) {
	ingestor := &stubIngestor{result: &models.IngestResult{
		Success:        true,
		ProcessedCount: 2,
		TotalCount:     3,
		Errors:         []string{"P001: Duplicate pole_number: P001"},
	}}
	handler := newTestHandler(ingestor, &stubSummarizer{}, &stubExporter{})

	body, contentType := multipartUpload(t, "file", "poles.csv", "label_1\nP001\nP001\nP002\n")
	req := httptest.NewRequest(http.MethodPost, "/api/projects/proj-1/sow/poles", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "proj-1", ingestor.gotProjectID)
	assert.Equal(t, models.EntityPoles, ingestor.gotEntityType)
	assert.Equal(t, "poles.csv", ingestor.gotFilename)
	assert.Equal(t, "label_1\nP001\nP001\nP002\n", string(ingestor.gotBody))

	var result models.IngestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.ProcessedCount)
	assert.Equal(t, 3, result.TotalCount)
}

func TestHandleIngestTerminalErrorIsBadRequest(t *testing.T) {
	ingestor := &stubIngestor{err: services.ErrNoDataInFile}
	handler := newTestHandler(ingestor, &stubSummarizer{}, &stubExporter{})

	body, contentType := multipartUpload(t, "file", "empty.csv", "")
	req := httptest.NewRequest(http.MethodPost, "/api/projects/proj-1/sow/poles", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "No valid data found in file", payload["error"])
}

func TestHandleIngestStorageErrorIsInternal(t *testing.T) {
	ingestor := &stubIngestor{err: io.ErrUnexpectedEOF}
	handler := newTestHandler(ingestor, &stubSummarizer{}, &stubExporter{})

	body, contentType := multipartUpload(t, "file", "poles.csv", "label_1\nP001\n")
	req := httptest.NewRequest(http.MethodPost, "/api/projects/proj-1/sow/poles", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleIngestMissingFileField(t *testing.T) {
	handler := newTestHandler(&stubIngestor{}, &stubSummarizer{}, &stubExporter{})

	body, contentType := multipartUpload(t, "upload", "poles.csv", "label_1\nP001\n")
	req := httptest.NewRequest(http.MethodPost, "/api/projects/proj-1/sow/poles", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file")
}

func TestInvalidEntityType(t *testing.T) {
	handler := newTestHandler(&stubIngestor{}, &stubSummarizer{}, &stubExporter{})

	req := httptest.NewRequest(http.MethodGet, "/api/projects/proj-1/sow/cabinets", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid entity type")
}

func TestInvalidPath(t *testing.T) {
	handler := newTestHandler(&stubIngestor{}, &stubSummarizer{}, &stubExporter{})

	req := httptest.NewRequest(http.MethodGet, "/api/projects/proj-1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSummary(t *testing.T) {
	summarizer := &stubSummarizer{summary: &models.ProjectSummary{
		ProjectID:  "proj-1",
		TotalPoles: 10,
	}}
	handler := newTestHandler(&stubIngestor{}, summarizer, &stubExporter{})

	req := httptest.NewRequest(http.MethodGet, "/api/projects/proj-1/sow/summary", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var summary models.ProjectSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 10, summary.TotalPoles)
}

func TestGetSummaryMissingIs404(t *testing.T) {
	handler := newTestHandler(&stubIngestor{}, &stubSummarizer{}, &stubExporter{})

	req := httptest.NewRequest(http.MethodGet, "/api/projects/proj-1/sow/summary", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefreshSummary(t *testing.T) {
	summarizer := &stubSummarizer{summary: &models.ProjectSummary{ProjectID: "proj-1"}}
	handler := newTestHandler(&stubIngestor{}, summarizer, &stubExporter{})

	req := httptest.NewRequest(http.MethodPost, "/api/projects/proj-1/sow/summary/refresh", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExportCSV(t *testing.T) {
	exporter := &stubExporter{data: []byte("pole_number,status\nP001,planned\n")}
	handler := newTestHandler(&stubIngestor{}, &stubSummarizer{}, exporter)

	req := httptest.NewRequest(http.MethodGet, "/api/projects/proj-1/sow/poles/export", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "proj-1_poles.csv")
	assert.Equal(t, "pole_number,status\nP001,planned\n", rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(&stubIngestor{}, &stubSummarizer{}, &stubExporter{})

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/proj-1/sow/poles", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
