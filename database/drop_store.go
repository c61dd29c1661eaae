// database/drop_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/apex/log"

	"github.com/fibretrack/sow-backend/models"
)

// DropStore persists canonical drop records scoped by project.
type DropStore struct {
	db *sql.DB
}

// NewDropStore wires a store onto an existing connection pool.
func NewDropStore(db *sql.DB) *DropStore {
	return &DropStore{db: db}
}

// DeleteAll removes every drop stored for the project.
func (s *DropStore) DeleteAll(ctx context.Context, projectID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sow_drops WHERE project_id = ?", projectID)
	if err != nil {
		return fmt.Errorf("failed to delete drops for project %s: %w", projectID, err)
	}
	return nil
}

// UpsertBatch writes drops in chunks inside one transaction, keyed by
// (project_id, drop_number).
func (s *DropStore) UpsertBatch(ctx context.Context, projectID string, drops []models.DropRecord) error {
	if len(drops) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for drops: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(drops); start += upsertChunkSize {
		chunk := drops[start:min(start+upsertChunkSize, len(drops))]

		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*18)
		for _, drop := range chunk {
			raw, err := rawDataJSON(drop.RawData)
			if err != nil {
				return fmt.Errorf("failed to encode raw data for drop %s: %w", drop.DropNumber, err)
			}
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())")
			args = append(args,
				projectID, drop.DropNumber, drop.PoleNumber,
				drop.CableType, drop.CableSpec, drop.CableLength, drop.CableCapacity,
				drop.StartPoint, drop.EndPoint,
				nullFloat(drop.Latitude), nullFloat(drop.Longitude),
				drop.Address, drop.Municipality,
				nullInt(drop.PONNumber), nullInt(drop.ZoneNumber),
				nullTime(drop.CreatedDate), drop.CreatedBy, raw,
			)
		}

		query := `
			INSERT INTO sow_drops (
				project_id, drop_number, pole_number, cable_type, cable_spec,
				cable_length, cable_capacity, start_point, end_point,
				latitude, longitude, address, municipality,
				pon_number, zone_number, created_date, created_by, raw_data, updated_at
			) VALUES ` + strings.Join(placeholders, ", ") + `
			ON DUPLICATE KEY UPDATE
				pole_number = VALUES(pole_number),
				cable_type = VALUES(cable_type),
				cable_spec = VALUES(cable_spec),
				cable_length = VALUES(cable_length),
				cable_capacity = VALUES(cable_capacity),
				start_point = VALUES(start_point),
				end_point = VALUES(end_point),
				latitude = VALUES(latitude),
				longitude = VALUES(longitude),
				address = VALUES(address),
				municipality = VALUES(municipality),
				pon_number = VALUES(pon_number),
				zone_number = VALUES(zone_number),
				created_date = VALUES(created_date),
				created_by = VALUES(created_by),
				raw_data = VALUES(raw_data),
				updated_at = NOW()
		`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to upsert drop chunk for project %s: %w", projectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit drop upsert for project %s: %w", projectID, err)
	}
	log.WithField("project_id", projectID).Infof("upserted %d drops", len(drops))
	return nil
}

// Count returns the number of drops stored for the project.
func (s *DropStore) Count(ctx context.Context, projectID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sow_drops WHERE project_id = ?", projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count drops for project %s: %w", projectID, err)
	}
	return count, nil
}

// ListByProject returns the stored drops ordered by drop number.
func (s *DropStore) ListByProject(ctx context.Context, projectID string) ([]models.DropRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, drop_number, pole_number, cable_type, cable_spec,
		       cable_length, cable_capacity, start_point, end_point,
		       latitude, longitude, address, municipality,
		       pon_number, zone_number, created_date, created_by, raw_data,
		       created_at, updated_at
		FROM sow_drops
		WHERE project_id = ?
		ORDER BY drop_number
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query drops for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var drops []models.DropRecord
	for rows.Next() {
		var d models.DropRecord
		var lat, lon sql.NullFloat64
		var pon, zone sql.NullInt64
		var createdDate sql.NullTime
		var raw sql.NullString
		err := rows.Scan(
			&d.ID, &d.ProjectID, &d.DropNumber, &d.PoleNumber, &d.CableType, &d.CableSpec,
			&d.CableLength, &d.CableCapacity, &d.StartPoint, &d.EndPoint,
			&lat, &lon, &d.Address, &d.Municipality,
			&pon, &zone, &createdDate, &d.CreatedBy, &raw,
			&d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			log.Errorf("failed to scan drop row: %v", err)
			continue
		}
		d.Latitude = floatPtr(lat)
		d.Longitude = floatPtr(lon)
		d.PONNumber = intPtr(pon)
		d.ZoneNumber = intPtr(zone)
		d.CreatedDate = timePtr(createdDate)
		if d.RawData, err = rawDataFromJSON(raw); err != nil {
			log.WithField("drop_number", d.DropNumber).Errorf("failed to decode raw data: %v", err)
		}
		drops = append(drops, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drop rows: %w", err)
	}
	return drops, nil
}
