// services/summary_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fibretrack/sow-backend/models"
)

// SummaryWriter persists per-project summary rows.
type SummaryWriter interface {
	Upsert(ctx context.Context, summary *models.ProjectSummary) error
	Get(ctx context.Context, projectID string) (*models.ProjectSummary, error)
}

// SummaryService recomputes per-project aggregates after ingestions. It
// never trusts a previously stored summary: every refresh re-counts the
// entity stores.
type SummaryService struct {
	poles PoleStore
	drops DropStore
	fibre FibreStore
	store SummaryWriter

	now func() time.Time
}

// NewSummaryService wires the aggregator onto the entity stores and the
// summary store.
func NewSummaryService(poles PoleStore, drops DropStore, fibre FibreStore, store SummaryWriter) *SummaryService {
	return &SummaryService{poles: poles, drops: drops, fibre: fibre, store: store, now: time.Now}
}

// Refresh recomputes the project's summary from count and sum queries and
// upserts it keyed by project id, stamping LastUpdated.
func (s *SummaryService) Refresh(ctx context.Context, projectID string) (*models.ProjectSummary, error) {
	totalPoles, err := s.poles.Count(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count poles: %w", err)
	}
	totalDrops, err := s.drops.Count(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count drops: %w", err)
	}
	totalSegments, err := s.fibre.Count(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count fibre segments: %w", err)
	}
	totalLength, err := s.fibre.SumLength(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum fibre length: %w", err)
	}

	summary := &models.ProjectSummary{
		ProjectID:          projectID,
		TotalPoles:         totalPoles,
		TotalDrops:         totalDrops,
		TotalFibreSegments: totalSegments,
		TotalFibreLength:   totalLength,
		LastUpdated:        s.now(),
	}
	if err := s.store.Upsert(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to store summary: %w", err)
	}
	return summary, nil
}

// Get returns the stored summary, or nil when none exists yet.
func (s *SummaryService) Get(ctx context.Context, projectID string) (*models.ProjectSummary, error) {
	return s.store.Get(ctx, projectID)
}
