// database/pole_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/apex/log"

	"github.com/fibretrack/sow-backend/models"
)

// upsertChunkSize bounds the number of rows sent per INSERT statement so a
// large upload does not produce one enormous round-trip.
const upsertChunkSize = 100

// PoleStore persists canonical pole records scoped by project.
type PoleStore struct {
	db *sql.DB
}

// NewPoleStore wires a store onto an existing connection pool.
func NewPoleStore(db *sql.DB) *PoleStore {
	return &PoleStore{db: db}
}

// DeleteAll removes every pole stored for the project. Ingestion is a
// full-replace operation: the coordinator clears before upserting.
func (s *PoleStore) DeleteAll(ctx context.Context, projectID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sow_poles WHERE project_id = ?", projectID)
	if err != nil {
		return fmt.Errorf("failed to delete poles for project %s: %w", projectID, err)
	}
	return nil
}

// UpsertBatch writes poles in chunks inside one transaction, keyed by
// (project_id, pole_number). On conflict every mutable column is overwritten
// and updated_at is refreshed.
func (s *PoleStore) UpsertBatch(ctx context.Context, projectID string, poles []models.PoleRecord) error {
	if len(poles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for poles: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(poles); start += upsertChunkSize {
		chunk := poles[start:min(start+upsertChunkSize, len(poles))]

		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*18)
		for _, pole := range chunk {
			raw, err := rawDataJSON(pole.RawData)
			if err != nil {
				return fmt.Errorf("failed to encode raw data for pole %s: %w", pole.PoleNumber, err)
			}
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())")
			args = append(args,
				projectID, pole.PoleNumber,
				nullFloat(pole.Latitude), nullFloat(pole.Longitude),
				pole.Status, pole.PoleType, pole.PoleSpec, pole.Height, pole.Diameter,
				pole.Owner, pole.Address, pole.Municipality, pole.Comments,
				nullInt(pole.PONNumber), nullInt(pole.ZoneNumber),
				nullTime(pole.CreatedDate), pole.CreatedBy, raw,
			)
		}

		query := `
			INSERT INTO sow_poles (
				project_id, pole_number, latitude, longitude, status,
				pole_type, pole_spec, height, diameter, owner, address,
				municipality, comments, pon_number, zone_number,
				created_date, created_by, raw_data, updated_at
			) VALUES ` + strings.Join(placeholders, ", ") + `
			ON DUPLICATE KEY UPDATE
				latitude = VALUES(latitude),
				longitude = VALUES(longitude),
				status = VALUES(status),
				pole_type = VALUES(pole_type),
				pole_spec = VALUES(pole_spec),
				height = VALUES(height),
				diameter = VALUES(diameter),
				owner = VALUES(owner),
				address = VALUES(address),
				municipality = VALUES(municipality),
				comments = VALUES(comments),
				pon_number = VALUES(pon_number),
				zone_number = VALUES(zone_number),
				created_date = VALUES(created_date),
				created_by = VALUES(created_by),
				raw_data = VALUES(raw_data),
				updated_at = NOW()
		`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to upsert pole chunk for project %s: %w", projectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pole upsert for project %s: %w", projectID, err)
	}
	log.WithField("project_id", projectID).Infof("upserted %d poles", len(poles))
	return nil
}

// Count returns the number of poles stored for the project.
func (s *PoleStore) Count(ctx context.Context, projectID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sow_poles WHERE project_id = ?", projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count poles for project %s: %w", projectID, err)
	}
	return count, nil
}

// ListByProject returns the stored poles ordered by pole number.
func (s *PoleStore) ListByProject(ctx context.Context, projectID string) ([]models.PoleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, pole_number, latitude, longitude, status,
		       pole_type, pole_spec, height, diameter, owner, address,
		       municipality, comments, pon_number, zone_number,
		       created_date, created_by, raw_data, created_at, updated_at
		FROM sow_poles
		WHERE project_id = ?
		ORDER BY pole_number
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query poles for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var poles []models.PoleRecord
	for rows.Next() {
		var p models.PoleRecord
		var lat, lon sql.NullFloat64
		var pon, zone sql.NullInt64
		var createdDate sql.NullTime
		var raw sql.NullString
		err := rows.Scan(
			&p.ID, &p.ProjectID, &p.PoleNumber, &lat, &lon, &p.Status,
			&p.PoleType, &p.PoleSpec, &p.Height, &p.Diameter, &p.Owner, &p.Address,
			&p.Municipality, &p.Comments, &pon, &zone,
			&createdDate, &p.CreatedBy, &raw, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			log.Errorf("failed to scan pole row: %v", err)
			continue
		}
		p.Latitude = floatPtr(lat)
		p.Longitude = floatPtr(lon)
		p.PONNumber = intPtr(pon)
		p.ZoneNumber = intPtr(zone)
		p.CreatedDate = timePtr(createdDate)
		if p.RawData, err = rawDataFromJSON(raw); err != nil {
			log.WithField("pole_number", p.PoleNumber).Errorf("failed to decode raw data: %v", err)
		}
		poles = append(poles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pole rows: %w", err)
	}
	return poles, nil
}
