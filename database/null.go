// database/null.go
package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/fibretrack/sow-backend/models"
)

// Conversion helpers between pointer-typed model fields and database/sql
// null wrappers, shared by the entity stores.

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func boolPtr(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}

// rawDataJSON serializes the audit copy of a source row for the raw_data
// column. An empty row is stored as SQL NULL rather than "{}".
func rawDataJSON(raw models.RawRecord) (sql.NullString, error) {
	if len(raw) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func rawDataFromJSON(s sql.NullString) (models.RawRecord, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var raw models.RawRecord
	if err := json.Unmarshal([]byte(s.String), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
