// models/sow.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is one spreadsheet row keyed by its header cells, exactly as
// decoded. Header spelling, casing and whitespace vary across source files;
// the ingest resolver is responsible for making sense of the keys.
type RawRecord map[string]string

// EntityType identifies which SOW entity a batch of rows describes.
type EntityType string

const (
	EntityPoles EntityType = "poles"
	EntityDrops EntityType = "drops"
	EntityFibre EntityType = "fibre"
)

// ParseEntityType maps an API path segment to an EntityType.
// Returns false for anything outside the closed set.
func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(s) {
	case EntityPoles, EntityDrops, EntityFibre:
		return EntityType(s), true
	}
	return "", false
}

// PoleRecord is a canonical pole row. PoleNumber is the natural key, unique
// within a batch and within a project.
type PoleRecord struct {
	ID        int64  `db:"id" json:"id" csv:"-"`
	ProjectID string `db:"project_id" json:"project_id" csv:"-"`

	PoleNumber   string     `db:"pole_number" json:"pole_number" csv:"pole_number"`
	Latitude     *float64   `db:"latitude" json:"latitude,omitempty" csv:"latitude"`
	Longitude    *float64   `db:"longitude" json:"longitude,omitempty" csv:"longitude"`
	Status       string     `db:"status" json:"status" csv:"status"`
	PoleType     string     `db:"pole_type" json:"pole_type,omitempty" csv:"pole_type"`
	PoleSpec     string     `db:"pole_spec" json:"pole_spec,omitempty" csv:"pole_spec"`
	Height       string     `db:"height" json:"height,omitempty" csv:"height"`
	Diameter     string     `db:"diameter" json:"diameter,omitempty" csv:"diameter"`
	Owner        string     `db:"owner" json:"owner,omitempty" csv:"owner"`
	Address      string     `db:"address" json:"address,omitempty" csv:"address"`
	Municipality string     `db:"municipality" json:"municipality,omitempty" csv:"municipality"`
	Comments     string     `db:"comments" json:"comments,omitempty" csv:"comments"`
	PONNumber    *int       `db:"pon_number" json:"pon_number,omitempty" csv:"pon_number"`
	ZoneNumber   *int       `db:"zone_number" json:"zone_number,omitempty" csv:"zone_number"`
	CreatedDate  *time.Time `db:"created_date" json:"created_date,omitempty" csv:"created_date"`
	CreatedBy    string     `db:"created_by" json:"created_by,omitempty" csv:"created_by"`

	// RawData keeps the original decoded row for audit and debugging.
	RawData RawRecord `db:"raw_data" json:"raw_data,omitempty" csv:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at" csv:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at" csv:"-"`
}

// DropRecord is a canonical drop (pole to premises cable run). DropNumber is
// the natural key. PoleNumber should reference an existing pole; a missing
// reference is a soft warning, not a validation failure.
type DropRecord struct {
	ID        int64  `db:"id" json:"id" csv:"-"`
	ProjectID string `db:"project_id" json:"project_id" csv:"-"`

	DropNumber    string     `db:"drop_number" json:"drop_number" csv:"drop_number"`
	PoleNumber    string     `db:"pole_number" json:"pole_number,omitempty" csv:"pole_number"`
	CableType     string     `db:"cable_type" json:"cable_type,omitempty" csv:"cable_type"`
	CableSpec     string     `db:"cable_spec" json:"cable_spec,omitempty" csv:"cable_spec"`
	CableLength   string     `db:"cable_length" json:"cable_length,omitempty" csv:"cable_length"`
	CableCapacity string     `db:"cable_capacity" json:"cable_capacity,omitempty" csv:"cable_capacity"`
	StartPoint    string     `db:"start_point" json:"start_point,omitempty" csv:"start_point"`
	EndPoint      string     `db:"end_point" json:"end_point,omitempty" csv:"end_point"`
	Latitude      *float64   `db:"latitude" json:"latitude,omitempty" csv:"latitude"`
	Longitude     *float64   `db:"longitude" json:"longitude,omitempty" csv:"longitude"`
	Address       string     `db:"address" json:"address,omitempty" csv:"address"`
	Municipality  string     `db:"municipality" json:"municipality,omitempty" csv:"municipality"`
	PONNumber     *int       `db:"pon_number" json:"pon_number,omitempty" csv:"pon_number"`
	ZoneNumber    *int       `db:"zone_number" json:"zone_number,omitempty" csv:"zone_number"`
	CreatedDate   *time.Time `db:"created_date" json:"created_date,omitempty" csv:"created_date"`
	CreatedBy     string     `db:"created_by" json:"created_by,omitempty" csv:"created_by"`

	RawData RawRecord `db:"raw_data" json:"raw_data,omitempty" csv:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at" csv:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at" csv:"-"`
}

// FibreSegmentRecord is a canonical fibre cable segment. SegmentID is the
// natural key. Length must be non-negative; CableSize and Layer default to
// empty strings when the source file omits them.
type FibreSegmentRecord struct {
	ID        int64  `db:"id" json:"id" csv:"-"`
	ProjectID string `db:"project_id" json:"project_id" csv:"-"`

	SegmentID       string     `db:"segment_id" json:"segment_id" csv:"segment_id"`
	CableSize       string     `db:"cable_size" json:"cable_size" csv:"cable_size"`
	Layer           string     `db:"layer" json:"layer" csv:"layer"`
	Length          float64    `db:"length" json:"length" csv:"length"`
	PONNumber       *int       `db:"pon_number" json:"pon_number,omitempty" csv:"pon_number"`
	ZoneNumber      *int       `db:"zone_number" json:"zone_number,omitempty" csv:"zone_number"`
	StringCompleted *float64   `db:"string_completed" json:"string_completed,omitempty" csv:"string_completed"`
	DateCompleted   *time.Time `db:"date_completed" json:"date_completed,omitempty" csv:"date_completed"`
	Contractor      string     `db:"contractor" json:"contractor,omitempty" csv:"contractor"`
	IsComplete      *bool      `db:"is_complete" json:"is_complete,omitempty" csv:"is_complete"`

	RawData RawRecord `db:"raw_data" json:"raw_data,omitempty" csv:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at" csv:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at" csv:"-"`
}

// InvalidRecord pairs a rejected record with the rule violations that
// excluded it from storage.
type InvalidRecord[T any] struct {
	Record T        `json:"record"`
	Errors []string `json:"errors"`
}

// ValidationResult partitions a normalized batch into records that may be
// stored and records that may not. Errors is a flat, natural-key-prefixed
// list of every violation, for reporting.
type ValidationResult[T any] struct {
	Valid   []T                `json:"valid"`
	Invalid []InvalidRecord[T] `json:"invalid"`
	Errors  []string           `json:"errors"`
}

// ProjectSummary is the per-project aggregate over the three entity stores.
// It is always recomputed from counts, never maintained incrementally.
type ProjectSummary struct {
	ProjectID          string          `db:"project_id" json:"project_id"`
	TotalPoles         int             `db:"total_poles" json:"total_poles"`
	TotalDrops         int             `db:"total_drops" json:"total_drops"`
	TotalFibreSegments int             `db:"total_fibre_segments" json:"total_fibre_segments"`
	TotalFibreLength   decimal.Decimal `db:"total_fibre_length" json:"total_fibre_length"`
	LastUpdated        time.Time       `db:"last_updated" json:"last_updated"`
}
