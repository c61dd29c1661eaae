// services/export_service.go
package services

import (
	"context"
	"fmt"

	"github.com/jszwec/csvutil"

	"github.com/fibretrack/sow-backend/models"
)

// ExportService renders a project's stored canonical records back to CSV.
// Export uses the canonical column names from the models' csv tags, not the
// heterogeneous headers of the source files.
type ExportService struct {
	poles PoleStore
	drops DropStore
	fibre FibreStore
}

// NewExportService wires the exporter onto the entity stores.
func NewExportService(poles PoleStore, drops DropStore, fibre FibreStore) *ExportService {
	return &ExportService{poles: poles, drops: drops, fibre: fibre}
}

// ExportCSV marshals the project's stored records for the given entity type.
func (s *ExportService) ExportCSV(ctx context.Context, projectID string, entityType models.EntityType) ([]byte, error) {
	switch entityType {
	case models.EntityPoles:
		poles, err := s.poles.ListByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		return marshalCSV(poles)
	case models.EntityDrops:
		drops, err := s.drops.ListByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		return marshalCSV(drops)
	case models.EntityFibre:
		segments, err := s.fibre.ListByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		return marshalCSV(segments)
	default:
		return nil, fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func marshalCSV[T any](records []T) ([]byte, error) {
	data, err := csvutil.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records to csv: %w", err)
	}
	return data, nil
}
