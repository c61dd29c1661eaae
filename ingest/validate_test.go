// ingest/validate_test.go
package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibretrack/sow-backend/models"
)

func floatp(f float64) *float64 { return &f }

func TestValidatePolesDuplicateKey(t *testing.T) {
	t.Parallel()

	// Two rows sharing a pole number: the first stays valid, the second is
	// rejected with a duplicate-key error naming the value.
	poles := NormalizePoles([]models.RawRecord{
		{"label_1": "P001", "lat": "-26.5", "lon": "28.1"},
		{"label_1": "P001", "lat": "-26.6", "lon": "28.2"},
	})
	require.Len(t, poles, 2)

	result := ValidatePoles(poles)
	require.Len(t, result.Valid, 1)
	assert.Equal(t, -26.5, *result.Valid[0].Latitude, "first occurrence wins")

	require.Len(t, result.Invalid, 1)
	assert.Contains(t, result.Invalid[0].Errors, "Duplicate pole_number: P001")
	assert.Contains(t, result.Errors, "P001: Duplicate pole_number: P001")
}

func TestValidatePolesCoordinateRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pole    models.PoleRecord
		wantErr string
	}{
		{
			name:    "latitude above range",
			pole:    models.PoleRecord{PoleNumber: "P001", Latitude: floatp(95)},
			wantErr: "Invalid latitude: 95",
		},
		{
			name:    "latitude below range",
			pole:    models.PoleRecord{PoleNumber: "P002", Latitude: floatp(-90.5)},
			wantErr: "Invalid latitude: -90.5",
		},
		{
			name:    "longitude above range",
			pole:    models.PoleRecord{PoleNumber: "P003", Longitude: floatp(181)},
			wantErr: "Invalid longitude: 181",
		},
		{
			name:    "longitude below range",
			pole:    models.PoleRecord{PoleNumber: "P004", Longitude: floatp(-180.1)},
			wantErr: "Invalid longitude: -180.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidatePoles([]models.PoleRecord{tt.pole})
			require.Len(t, result.Invalid, 1)
			assert.Contains(t, result.Invalid[0].Errors, tt.wantErr)
			assert.Empty(t, result.Valid)
		})
	}
}

func TestValidatePolesBoundaryCoordinatesAreValid(t *testing.T) {
	t.Parallel()

	result := ValidatePoles([]models.PoleRecord{
		{PoleNumber: "P001", Latitude: floatp(-90), Longitude: floatp(180)},
		{PoleNumber: "P002", Latitude: floatp(90), Longitude: floatp(-180)},
	})
	assert.Len(t, result.Valid, 2)
	assert.Empty(t, result.Invalid)
}

func TestValidatePolesMissingKey(t *testing.T) {
	t.Parallel()

	result := ValidatePoles([]models.PoleRecord{{PoleNumber: ""}})
	require.Len(t, result.Invalid, 1)
	assert.Contains(t, result.Invalid[0].Errors, "Missing pole_number")
}

func TestValidateDropsOrphanIsSoftWarning(t *testing.T) {
	t.Parallel()

	// A drop without a pole reference is logged but stays valid.
	result := ValidateDrops([]models.DropRecord{{DropNumber: "D001", PoleNumber: ""}})
	assert.Len(t, result.Valid, 1)
	assert.Empty(t, result.Invalid)
	assert.Empty(t, result.Errors)
}

func TestValidateDropsDuplicateKey(t *testing.T) {
	t.Parallel()

	result := ValidateDrops([]models.DropRecord{
		{DropNumber: "D001", PoleNumber: "P001"},
		{DropNumber: "D001", PoleNumber: "P002"},
	})
	require.Len(t, result.Valid, 1)
	require.Len(t, result.Invalid, 1)
	assert.Contains(t, result.Invalid[0].Errors, "Duplicate drop_number: D001")
}

func TestValidateFibreNegativeLength(t *testing.T) {
	t.Parallel()

	// Normalized form of a fibre row {label: "F100", length: "-5"}.
	segments := NormalizeFibre([]models.RawRecord{{"label": "F100", "length": "-5"}})
	require.Len(t, segments, 1)
	assert.Equal(t, "F100", segments[0].SegmentID)
	assert.Equal(t, -5.0, segments[0].Length)

	result := ValidateFibre(segments)
	assert.Empty(t, result.Valid)
	require.Len(t, result.Invalid, 1)
	assert.Contains(t, result.Invalid[0].Errors, "Invalid length: -5")
	assert.Contains(t, result.Errors, "F100: Invalid length: -5")
}

func TestValidateFibreZeroLengthIsValid(t *testing.T) {
	t.Parallel()

	result := ValidateFibre([]models.FibreSegmentRecord{{SegmentID: "F100", Length: 0}})
	assert.Len(t, result.Valid, 1)
	assert.Empty(t, result.Invalid)
}

func TestValidateAccumulatesMultipleErrors(t *testing.T) {
	t.Parallel()

	result := ValidatePoles([]models.PoleRecord{
		{PoleNumber: "P001"},
		{PoleNumber: "P001", Latitude: floatp(99)},
	})
	require.Len(t, result.Invalid, 1)
	assert.Len(t, result.Invalid[0].Errors, 2, "duplicate key and range violation both recorded")
	assert.Len(t, result.Errors, 2)
}
