// ingest/validate.go
package ingest

import (
	"fmt"

	"github.com/apex/log"

	"github.com/fibretrack/sow-backend/models"
)

// ValidatePoles checks pole invariants: a present, batch-unique pole number
// and in-range coordinates. The first occurrence of a duplicated key stays
// valid, later occurrences are rejected.
func ValidatePoles(poles []models.PoleRecord) models.ValidationResult[models.PoleRecord] {
	var result models.ValidationResult[models.PoleRecord]
	seen := make(map[string]bool, len(poles))

	for _, pole := range poles {
		var errs []string

		if pole.PoleNumber == "" {
			errs = append(errs, "Missing pole_number")
		} else if seen[pole.PoleNumber] {
			errs = append(errs, fmt.Sprintf("Duplicate pole_number: %s", pole.PoleNumber))
		} else {
			seen[pole.PoleNumber] = true
		}

		if pole.Latitude != nil && (*pole.Latitude < -90 || *pole.Latitude > 90) {
			errs = append(errs, fmt.Sprintf("Invalid latitude: %v", *pole.Latitude))
		}
		if pole.Longitude != nil && (*pole.Longitude < -180 || *pole.Longitude > 180) {
			errs = append(errs, fmt.Sprintf("Invalid longitude: %v", *pole.Longitude))
		}

		collect(&result, pole, pole.PoleNumber, errs)
	}
	return result
}

// ValidateDrops checks drop invariants. A drop without a pole reference is a
// soft warning only; it stays valid.
func ValidateDrops(drops []models.DropRecord) models.ValidationResult[models.DropRecord] {
	var result models.ValidationResult[models.DropRecord]
	seen := make(map[string]bool, len(drops))

	for _, drop := range drops {
		var errs []string

		if drop.DropNumber == "" {
			errs = append(errs, "Missing drop_number")
		} else if seen[drop.DropNumber] {
			errs = append(errs, fmt.Sprintf("Duplicate drop_number: %s", drop.DropNumber))
		} else {
			seen[drop.DropNumber] = true
		}

		if drop.PoleNumber == "" {
			log.WithField("drop_number", drop.DropNumber).Warn("drop has no assigned pole")
		}

		collect(&result, drop, drop.DropNumber, errs)
	}
	return result
}

// ValidateFibre checks fibre segment invariants: a present, batch-unique
// segment id and a non-negative length. Zero length is valid.
func ValidateFibre(segments []models.FibreSegmentRecord) models.ValidationResult[models.FibreSegmentRecord] {
	var result models.ValidationResult[models.FibreSegmentRecord]
	seen := make(map[string]bool, len(segments))

	for _, segment := range segments {
		var errs []string

		if segment.SegmentID == "" {
			errs = append(errs, "Missing segment_id")
		} else if seen[segment.SegmentID] {
			errs = append(errs, fmt.Sprintf("Duplicate segment_id: %s", segment.SegmentID))
		} else {
			seen[segment.SegmentID] = true
		}

		if segment.Length < 0 {
			errs = append(errs, fmt.Sprintf("Invalid length: %v", segment.Length))
		}

		collect(&result, segment, segment.SegmentID, errs)
	}
	return result
}

// collect routes a record into the valid or invalid partition and appends
// its errors, prefixed with the natural key, to the flat report list.
func collect[T any](result *models.ValidationResult[T], record T, key string, errs []string) {
	if len(errs) == 0 {
		result.Valid = append(result.Valid, record)
		return
	}
	result.Invalid = append(result.Invalid, models.InvalidRecord[T]{Record: record, Errors: errs})
	for _, e := range errs {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", key, e))
	}
}
