// database/summary_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fibretrack/sow-backend/models"
)

// SummaryStore persists the per-project SOW summary row.
type SummaryStore struct {
	db *sql.DB
}

// NewSummaryStore wires a store onto an existing connection pool.
func NewSummaryStore(db *sql.DB) *SummaryStore {
	return &SummaryStore{db: db}
}

// Upsert writes the recomputed summary keyed by project_id. The whole row is
// replaced in one statement so readers never observe a partially refreshed
// summary.
func (s *SummaryStore) Upsert(ctx context.Context, summary *models.ProjectSummary) error {
	query := `
		INSERT INTO sow_project_summaries (
			project_id, total_poles, total_drops, total_fibre_segments,
			total_fibre_length, last_updated
		) VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			total_poles = VALUES(total_poles),
			total_drops = VALUES(total_drops),
			total_fibre_segments = VALUES(total_fibre_segments),
			total_fibre_length = VALUES(total_fibre_length),
			last_updated = VALUES(last_updated)
	`
	_, err := s.db.ExecContext(ctx, query,
		summary.ProjectID, summary.TotalPoles, summary.TotalDrops,
		summary.TotalFibreSegments, summary.TotalFibreLength, summary.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert summary for project %s: %w", summary.ProjectID, err)
	}
	return nil
}

// Get returns the stored summary, or nil when the project has never been
// summarized.
func (s *SummaryStore) Get(ctx context.Context, projectID string) (*models.ProjectSummary, error) {
	var summary models.ProjectSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT project_id, total_poles, total_drops, total_fibre_segments,
		       total_fibre_length, last_updated
		FROM sow_project_summaries
		WHERE project_id = ?
	`, projectID).Scan(
		&summary.ProjectID, &summary.TotalPoles, &summary.TotalDrops,
		&summary.TotalFibreSegments, &summary.TotalFibreLength, &summary.LastUpdated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query summary for project %s: %w", projectID, err)
	}
	return &summary, nil
}
