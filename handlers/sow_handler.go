// handlers/sow_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/apex/log"

	"github.com/fibretrack/sow-backend/models"
	"github.com/fibretrack/sow-backend/services"
)

// Ingestor runs one SOW ingestion end to end.
type Ingestor interface {
	Ingest(ctx context.Context, projectID string, entityType models.EntityType, file io.Reader, filename string) (*models.IngestResult, error)
}

// Summarizer reads and refreshes project summaries.
type Summarizer interface {
	Refresh(ctx context.Context, projectID string) (*models.ProjectSummary, error)
	Get(ctx context.Context, projectID string) (*models.ProjectSummary, error)
}

// Exporter renders stored records to CSV.
type Exporter interface {
	ExportCSV(ctx context.Context, projectID string, entityType models.EntityType) ([]byte, error)
}

// SowHandler serves the /api/projects/{id}/sow/... endpoints.
type SowHandler struct {
	ingestor Ingestor
	summary  Summarizer
	exporter Exporter

	poles services.PoleStore
	drops services.DropStore
	fibre services.FibreStore

	maxUploadBytes int64
}

// NewSowHandler wires the handler onto the services and stores.
func NewSowHandler(
	ingestor Ingestor,
	summary Summarizer,
	exporter Exporter,
	poles services.PoleStore,
	drops services.DropStore,
	fibre services.FibreStore,
	maxUploadBytes int64,
) *SowHandler {
	return &SowHandler{
		ingestor:       ingestor,
		summary:        summary,
		exporter:       exporter,
		poles:          poles,
		drops:          drops,
		fibre:          fibre,
		maxUploadBytes: maxUploadBytes,
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("failed to marshal JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Errorf("API error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

// ServeHTTP dispatches on the path below /api/projects/:
//
//	POST /api/projects/{id}/sow/{type}                 upload + ingest
//	GET  /api/projects/{id}/sow/{type}                 list stored records
//	GET  /api/projects/{id}/sow/{type}/export          CSV export
//	GET  /api/projects/{id}/sow/summary                stored summary
//	POST /api/projects/{id}/sow/summary/refresh        explicit recompute
func (h *SowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// Expected: ["api", "projects", {id}, "sow", {type-or-summary}, ...]
	if len(parts) < 5 || parts[0] != "api" || parts[1] != "projects" || parts[3] != "sow" {
		respondWithError(w, http.StatusNotFound, "Invalid path. Expected /api/projects/{id}/sow/...")
		return
	}
	projectID := parts[2]
	if projectID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing project id")
		return
	}

	if parts[4] == "summary" {
		h.handleSummary(w, r, projectID, parts[5:])
		return
	}

	entityType, ok := models.ParseEntityType(parts[4])
	if !ok {
		respondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid entity type '%s'. Use 'poles', 'drops', or 'fibre'.", parts[4]))
		return
	}

	switch {
	case len(parts) == 5 && r.Method == http.MethodPost:
		h.handleIngest(w, r, projectID, entityType)
	case len(parts) == 5 && r.Method == http.MethodGet:
		h.handleList(w, r, projectID, entityType)
	case len(parts) == 6 && parts[5] == "export" && r.Method == http.MethodGet:
		h.handleExport(w, r, projectID, entityType)
	default:
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed for this path")
	}
}

// handleIngest reads the multipart upload and runs the ingestion pipeline.
// Terminal batch errors come back as 400 with {success:false, error}; the
// partial-success case (some records invalid) is still a 200 with counts and
// a capped error list.
func (h *SowHandler) handleIngest(w http.ResponseWriter, r *http.Request, projectID string, entityType models.EntityType) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart upload: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing 'file' form field: "+err.Error())
		return
	}
	defer file.Close()

	log.WithField("project_id", projectID).WithField("entity_type", string(entityType)).
		WithField("filename", header.Filename).Info("starting SOW ingestion")

	result, err := h.ingestor.Ingest(r.Context(), projectID, entityType, file, header.Filename)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, services.ErrNoDataInFile) || errors.Is(err, services.ErrNoUsableRecords) {
			code = http.StatusBadRequest
		}
		respondWithJSON(w, code, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *SowHandler) handleList(w http.ResponseWriter, r *http.Request, projectID string, entityType models.EntityType) {
	var payload interface{}
	var err error
	switch entityType {
	case models.EntityPoles:
		payload, err = h.poles.ListByProject(r.Context(), projectID)
	case models.EntityDrops:
		payload, err = h.drops.ListByProject(r.Context(), projectID)
	case models.EntityFibre:
		payload, err = h.fibre.ListByProject(r.Context(), projectID)
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to list %s: %v", entityType, err))
		return
	}
	respondWithJSON(w, http.StatusOK, payload)
}

func (h *SowHandler) handleExport(w http.ResponseWriter, r *http.Request, projectID string, entityType models.EntityType) {
	data, err := h.exporter.ExportCSV(r.Context(), projectID, entityType)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to export %s: %v", entityType, err))
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s_%s.csv"`, projectID, entityType))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *SowHandler) handleSummary(w http.ResponseWriter, r *http.Request, projectID string, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		summary, err := h.summary.Get(r.Context(), projectID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to load summary: "+err.Error())
			return
		}
		if summary == nil {
			respondWithError(w, http.StatusNotFound,
				fmt.Sprintf("No summary found for project %s", projectID))
			return
		}
		respondWithJSON(w, http.StatusOK, summary)

	case len(rest) == 1 && rest[0] == "refresh" && r.Method == http.MethodPost:
		summary, err := h.summary.Refresh(r.Context(), projectID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to refresh summary: "+err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, summary)

	default:
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed for this path")
	}
}
