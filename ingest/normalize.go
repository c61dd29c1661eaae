// ingest/normalize.go
package ingest

import (
	"github.com/fibretrack/sow-backend/models"
)

// Column aliases per canonical field. Source files come from several survey
// and planning tools that disagree on header names; the order is
// most-specific / most-likely first. These lists are a compatibility
// contract with existing exports, extend them rather than renaming entries.
var (
	poleNumberAliases = []string{"label_1", "label", "pole_number", "pole_id"}
	dropNumberAliases = []string{"label", "drop_number", "drop_id"}
	segmentIDAliases  = []string{"label", "cable_id", "segment_id"}

	latitudeAliases  = []string{"lat", "latitude"}
	longitudeAliases = []string{"lon", "lng", "longitude"}
	ponAliases       = []string{"pon_no", "pon", "pon_number"}
	zoneAliases      = []string{"zone_no", "zone", "zone_number"}

	createdDateAliases = []string{"datecrtd", "date_created", "created_date"}
	createdByAliases   = []string{"crtdby", "created_by"}
)

// NormalizePoles maps raw rows to canonical pole records. Rows whose pole
// number cannot be resolved are skipped; normalization never rejects a row
// once the natural key is present, validation happens later.
func NormalizePoles(rows []models.RawRecord) []models.PoleRecord {
	poles := make([]models.PoleRecord, 0, len(rows))
	for _, row := range rows {
		poleNumber, ok := Resolve(row, poleNumberAliases...)
		if !ok {
			continue
		}

		pole := models.PoleRecord{
			PoleNumber: poleNumber,
			Status:     "planned",
			RawData:    row,
		}
		if lat, ok := ResolveFloat(row, latitudeAliases...); ok {
			pole.Latitude = &lat
		}
		if lon, ok := ResolveFloat(row, longitudeAliases...); ok {
			pole.Longitude = &lon
		}
		if status, ok := Resolve(row, "status"); ok {
			pole.Status = status
		}
		pole.PoleType, _ = Resolve(row, "type_1", "type", "pole_type")
		pole.PoleSpec, _ = Resolve(row, "spec_1", "spec", "pole_spec")
		pole.Height, _ = Resolve(row, "height")
		pole.Diameter, _ = Resolve(row, "diameter", "dim2")
		pole.Owner, _ = Resolve(row, "owner", "cmpownr")
		pole.Address, _ = Resolve(row, "address")
		pole.Municipality, _ = Resolve(row, "municipality", "mun")
		pole.Comments, _ = Resolve(row, "comments", "comment", "remarks")
		if pon, ok := ResolveInt(row, ponAliases...); ok {
			pole.PONNumber = &pon
		}
		if zone, ok := ResolveInt(row, zoneAliases...); ok {
			pole.ZoneNumber = &zone
		}
		if created, ok := ResolveDate(row, createdDateAliases...); ok {
			pole.CreatedDate = &created
		}
		pole.CreatedBy, _ = Resolve(row, createdByAliases...)

		poles = append(poles, pole)
	}
	return poles
}

// NormalizeDrops maps raw rows to canonical drop records. Rows without a
// resolvable drop number are skipped.
func NormalizeDrops(rows []models.RawRecord) []models.DropRecord {
	drops := make([]models.DropRecord, 0, len(rows))
	for _, row := range rows {
		dropNumber, ok := Resolve(row, dropNumberAliases...)
		if !ok {
			continue
		}

		drop := models.DropRecord{
			DropNumber: dropNumber,
			RawData:    row,
		}
		drop.PoleNumber, _ = Resolve(row, "strtfeat", "start_feature", "pole_number", "pole_id")
		drop.CableType, _ = Resolve(row, "type", "cable_type")
		drop.CableSpec, _ = Resolve(row, "spec", "cable_spec")
		drop.CableLength, _ = Resolve(row, "dim2", "length", "cable_length")
		drop.CableCapacity, _ = Resolve(row, "cblcpty", "capacity", "cable_capacity")
		drop.StartPoint, _ = Resolve(row, "strtfeat", "start_point")
		drop.EndPoint, _ = Resolve(row, "endfeat", "end_point")
		if lat, ok := ResolveFloat(row, latitudeAliases...); ok {
			drop.Latitude = &lat
		}
		if lon, ok := ResolveFloat(row, longitudeAliases...); ok {
			drop.Longitude = &lon
		}
		drop.Address, _ = Resolve(row, "address")
		drop.Municipality, _ = Resolve(row, "municipality", "mun")
		if pon, ok := ResolveInt(row, ponAliases...); ok {
			drop.PONNumber = &pon
		}
		if zone, ok := ResolveInt(row, zoneAliases...); ok {
			drop.ZoneNumber = &zone
		}
		if created, ok := ResolveDate(row, createdDateAliases...); ok {
			drop.CreatedDate = &created
		}
		drop.CreatedBy, _ = Resolve(row, createdByAliases...)

		drops = append(drops, drop)
	}
	return drops
}

// NormalizeFibre maps raw rows to canonical fibre segment records. Rows
// without a resolvable segment id are skipped. CableSize and Layer default
// to empty strings when absent; Length defaults to zero when absent or
// unparseable (the validator only rejects negative lengths).
func NormalizeFibre(rows []models.RawRecord) []models.FibreSegmentRecord {
	segments := make([]models.FibreSegmentRecord, 0, len(rows))
	for _, row := range rows {
		segmentID, ok := Resolve(row, segmentIDAliases...)
		if !ok {
			continue
		}

		segment := models.FibreSegmentRecord{
			SegmentID: segmentID,
			RawData:   row,
		}
		segment.CableSize, _ = Resolve(row, "cable size", "cable_size", "size")
		segment.Layer, _ = Resolve(row, "layer", "cable_layer")
		segment.Length, _ = ResolveFloat(row, "length", "cable_length", "dim2")
		if pon, ok := ResolveInt(row, ponAliases...); ok {
			segment.PONNumber = &pon
		}
		if zone, ok := ResolveInt(row, zoneAliases...); ok {
			segment.ZoneNumber = &zone
		}
		if strung, ok := ResolveFloat(row, "string com", "string_com", "string_completed", "completed"); ok {
			segment.StringCompleted = &strung
		}
		if completed, ok := ResolveDate(row, "date comp", "date_comp", "date_completed"); ok {
			segment.DateCompleted = &completed
		}
		segment.Contractor, _ = Resolve(row, "contractor")
		if complete, ok := ResolveBool(row, "complete", "is_complete"); ok {
			segment.IsComplete = &complete
		}

		segments = append(segments, segment)
	}
	return segments
}
