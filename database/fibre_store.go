// database/fibre_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/shopspring/decimal"

	"github.com/fibretrack/sow-backend/models"
)

// FibreStore persists canonical fibre segment records scoped by project.
type FibreStore struct {
	db *sql.DB
}

// NewFibreStore wires a store onto an existing connection pool.
func NewFibreStore(db *sql.DB) *FibreStore {
	return &FibreStore{db: db}
}

// DeleteAll removes every fibre segment stored for the project.
func (s *FibreStore) DeleteAll(ctx context.Context, projectID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sow_fibre_segments WHERE project_id = ?", projectID)
	if err != nil {
		return fmt.Errorf("failed to delete fibre segments for project %s: %w", projectID, err)
	}
	return nil
}

// UpsertBatch writes fibre segments in chunks inside one transaction, keyed
// by (project_id, segment_id).
func (s *FibreStore) UpsertBatch(ctx context.Context, projectID string, segments []models.FibreSegmentRecord) error {
	if len(segments) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for fibre segments: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(segments); start += upsertChunkSize {
		chunk := segments[start:min(start+upsertChunkSize, len(segments))]

		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*13)
		for _, segment := range chunk {
			raw, err := rawDataJSON(segment.RawData)
			if err != nil {
				return fmt.Errorf("failed to encode raw data for segment %s: %w", segment.SegmentID, err)
			}
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())")
			args = append(args,
				projectID, segment.SegmentID, segment.CableSize, segment.Layer, segment.Length,
				nullInt(segment.PONNumber), nullInt(segment.ZoneNumber),
				nullFloat(segment.StringCompleted), nullTime(segment.DateCompleted),
				segment.Contractor, nullBool(segment.IsComplete), raw,
			)
		}

		query := `
			INSERT INTO sow_fibre_segments (
				project_id, segment_id, cable_size, layer, length,
				pon_number, zone_number, string_completed, date_completed,
				contractor, is_complete, raw_data, updated_at
			) VALUES ` + strings.Join(placeholders, ", ") + `
			ON DUPLICATE KEY UPDATE
				cable_size = VALUES(cable_size),
				layer = VALUES(layer),
				length = VALUES(length),
				pon_number = VALUES(pon_number),
				zone_number = VALUES(zone_number),
				string_completed = VALUES(string_completed),
				date_completed = VALUES(date_completed),
				contractor = VALUES(contractor),
				is_complete = VALUES(is_complete),
				raw_data = VALUES(raw_data),
				updated_at = NOW()
		`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to upsert fibre chunk for project %s: %w", projectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fibre upsert for project %s: %w", projectID, err)
	}
	log.WithField("project_id", projectID).Infof("upserted %d fibre segments", len(segments))
	return nil
}

// Count returns the number of fibre segments stored for the project.
func (s *FibreStore) Count(ctx context.Context, projectID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sow_fibre_segments WHERE project_id = ?", projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fibre segments for project %s: %w", projectID, err)
	}
	return count, nil
}

// SumLength returns the total cable length stored for the project. The
// length column is DECIMAL and the sum is scanned as a decimal to keep the
// aggregate exact.
func (s *FibreStore) SumLength(ctx context.Context, projectID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(length), 0) FROM sow_fibre_segments WHERE project_id = ?", projectID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum fibre length for project %s: %w", projectID, err)
	}
	return total, nil
}

// ListByProject returns the stored fibre segments ordered by segment id.
func (s *FibreStore) ListByProject(ctx context.Context, projectID string) ([]models.FibreSegmentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, segment_id, cable_size, layer, length,
		       pon_number, zone_number, string_completed, date_completed,
		       contractor, is_complete, raw_data, created_at, updated_at
		FROM sow_fibre_segments
		WHERE project_id = ?
		ORDER BY segment_id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fibre segments for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var segments []models.FibreSegmentRecord
	for rows.Next() {
		var f models.FibreSegmentRecord
		var pon, zone sql.NullInt64
		var strung sql.NullFloat64
		var completed sql.NullTime
		var isComplete sql.NullBool
		var raw sql.NullString
		err := rows.Scan(
			&f.ID, &f.ProjectID, &f.SegmentID, &f.CableSize, &f.Layer, &f.Length,
			&pon, &zone, &strung, &completed,
			&f.Contractor, &isComplete, &raw, &f.CreatedAt, &f.UpdatedAt,
		)
		if err != nil {
			log.Errorf("failed to scan fibre segment row: %v", err)
			continue
		}
		f.PONNumber = intPtr(pon)
		f.ZoneNumber = intPtr(zone)
		f.StringCompleted = floatPtr(strung)
		f.DateCompleted = timePtr(completed)
		f.IsComplete = boolPtr(isComplete)
		if f.RawData, err = rawDataFromJSON(raw); err != nil {
			log.WithField("segment_id", f.SegmentID).Errorf("failed to decode raw data: %v", err)
		}
		segments = append(segments, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fibre segment rows: %w", err)
	}
	return segments, nil
}
