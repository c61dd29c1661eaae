// models/api_models.go
package models

// IngestResult is the JSON response for a single ingestion request.
// ProcessedCount is the number of records actually stored; TotalCount is the
// decoded row count before any filtering, so callers can infer how many rows
// were dropped or rejected. Errors carries at most the first ten validation
// messages to bound response size.
type IngestResult struct {
	Success        bool     `json:"success"`
	ProcessedCount int      `json:"processed_count"`
	TotalCount     int      `json:"total_count"`
	Errors         []string `json:"errors,omitempty"`
}

// MaxReportedErrors caps IngestResult.Errors.
const MaxReportedErrors = 10
