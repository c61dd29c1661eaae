// services/ingest_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/shopspring/decimal"

	"github.com/fibretrack/sow-backend/ingest"
	"github.com/fibretrack/sow-backend/models"
)

// Terminal batch errors. Nothing is written when one of these is returned.
var (
	ErrNoDataInFile    = errors.New("No valid data found in file")
	ErrNoUsableRecords = errors.New("No valid data found after processing")
)

// PoleStore is the project-scoped pole storage the coordinator writes to.
type PoleStore interface {
	DeleteAll(ctx context.Context, projectID string) error
	UpsertBatch(ctx context.Context, projectID string, poles []models.PoleRecord) error
	Count(ctx context.Context, projectID string) (int, error)
	ListByProject(ctx context.Context, projectID string) ([]models.PoleRecord, error)
}

// DropStore is the project-scoped drop storage the coordinator writes to.
type DropStore interface {
	DeleteAll(ctx context.Context, projectID string) error
	UpsertBatch(ctx context.Context, projectID string, drops []models.DropRecord) error
	Count(ctx context.Context, projectID string) (int, error)
	ListByProject(ctx context.Context, projectID string) ([]models.DropRecord, error)
}

// FibreStore is the project-scoped fibre storage the coordinator writes to.
type FibreStore interface {
	DeleteAll(ctx context.Context, projectID string) error
	UpsertBatch(ctx context.Context, projectID string, segments []models.FibreSegmentRecord) error
	Count(ctx context.Context, projectID string) (int, error)
	SumLength(ctx context.Context, projectID string) (decimal.Decimal, error)
	ListByProject(ctx context.Context, projectID string) ([]models.FibreSegmentRecord, error)
}

// IngestService coordinates one SOW ingestion end to end: decode the
// uploaded file, normalize and validate the rows, replace the project's
// stored batch, then refresh the project summary best-effort.
type IngestService struct {
	poles   PoleStore
	drops   DropStore
	fibre   FibreStore
	summary *SummaryService
}

// NewIngestService wires the coordinator onto its stores and the aggregator.
func NewIngestService(poles PoleStore, drops DropStore, fibre FibreStore, summary *SummaryService) *IngestService {
	return &IngestService{poles: poles, drops: drops, fibre: fibre, summary: summary}
}

// Ingest runs a full ingestion for one project and entity type. The returned
// error is terminal: decode failure, unknown entity type, zero usable
// records, or a storage failure — nothing was (or remains reliably) written.
// Per-record validation problems do not error; they reduce ProcessedCount
// and show up, capped, in IngestResult.Errors.
func (s *IngestService) Ingest(ctx context.Context, projectID string, entityType models.EntityType, file io.Reader, filename string) (*models.IngestResult, error) {
	rows, err := ingest.DecodeFile(file, filename)
	if err != nil {
		log.WithField("project_id", projectID).WithField("filename", filename).
			Errorf("failed to decode upload: %v", err)
		return nil, ErrNoDataInFile
	}
	totalCount := len(rows)

	var processed int
	var validationErrors []string

	switch entityType {
	case models.EntityPoles:
		poles := ingest.NormalizePoles(rows)
		if len(poles) == 0 {
			return nil, ErrNoUsableRecords
		}
		result := ingest.ValidatePoles(poles)
		if err := replaceBatch[models.PoleRecord](ctx, s.poles, projectID, result.Valid); err != nil {
			return nil, err
		}
		processed, validationErrors = len(result.Valid), result.Errors

	case models.EntityDrops:
		drops := ingest.NormalizeDrops(rows)
		if len(drops) == 0 {
			return nil, ErrNoUsableRecords
		}
		result := ingest.ValidateDrops(drops)
		if err := replaceBatch[models.DropRecord](ctx, s.drops, projectID, result.Valid); err != nil {
			return nil, err
		}
		processed, validationErrors = len(result.Valid), result.Errors

	case models.EntityFibre:
		segments := ingest.NormalizeFibre(rows)
		if len(segments) == 0 {
			return nil, ErrNoUsableRecords
		}
		result := ingest.ValidateFibre(segments)
		if err := replaceBatch[models.FibreSegmentRecord](ctx, s.fibre, projectID, result.Valid); err != nil {
			return nil, err
		}
		processed, validationErrors = len(result.Valid), result.Errors

	default:
		return nil, fmt.Errorf("unknown entity type: %s", entityType)
	}

	// Summary staleness is preferred over failing a successful ingestion.
	if _, err := s.summary.Refresh(ctx, projectID); err != nil {
		log.WithField("project_id", projectID).Errorf("summary refresh after ingestion failed: %v", err)
	}

	if len(validationErrors) > models.MaxReportedErrors {
		validationErrors = validationErrors[:models.MaxReportedErrors]
	}
	return &models.IngestResult{
		Success:        true,
		ProcessedCount: processed,
		TotalCount:     totalCount,
		Errors:         validationErrors,
	}, nil
}

// entityStore is the replace-semantics subset shared by the three stores.
type entityStore[T any] interface {
	DeleteAll(ctx context.Context, projectID string) error
	UpsertBatch(ctx context.Context, projectID string, records []T) error
}

// replaceBatch implements the full-replace contract: clear the project's
// previous batch, then upsert the validated records. Re-ingesting the same
// file therefore reproduces the same stored state.
func replaceBatch[T any](ctx context.Context, store entityStore[T], projectID string, valid []T) error {
	if err := store.DeleteAll(ctx, projectID); err != nil {
		return fmt.Errorf("failed to clear previous batch for project %s: %w", projectID, err)
	}
	if err := store.UpsertBatch(ctx, projectID, valid); err != nil {
		return fmt.Errorf("failed to store batch for project %s: %w", projectID, err)
	}
	return nil
}
