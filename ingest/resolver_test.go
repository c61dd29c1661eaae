// ingest/resolver_test.go
package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibretrack/sow-backend/models"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		row        models.RawRecord
		candidates []string
		want       string
		wantOK     bool
	}{
		{
			name:       "exact match",
			row:        models.RawRecord{"pole_number": "P001"},
			candidates: []string{"pole_number"},
			want:       "P001",
			wantOK:     true,
		},
		{
			name:       "case insensitive fallback",
			row:        models.RawRecord{"Pole_Number": "P001"},
			candidates: []string{"pole_number"},
			want:       "P001",
			wantOK:     true,
		},
		{
			name:       "header with trailing whitespace",
			row:        models.RawRecord{"pole_number  ": "P001"},
			candidates: []string{"pole_number"},
			want:       "P001",
			wantOK:     true,
		},
		{
			name:       "first candidate wins",
			row:        models.RawRecord{"label_1": "P001", "label": "OTHER"},
			candidates: []string{"label_1", "label"},
			want:       "P001",
			wantOK:     true,
		},
		{
			name:       "empty value falls through to next candidate",
			row:        models.RawRecord{"label_1": "   ", "label": "P002"},
			candidates: []string{"label_1", "label"},
			want:       "P002",
			wantOK:     true,
		},
		{
			name:       "value is trimmed",
			row:        models.RawRecord{"label": "  P003  "},
			candidates: []string{"label"},
			want:       "P003",
			wantOK:     true,
		},
		{
			name:       "no candidate present",
			row:        models.RawRecord{"something_else": "x"},
			candidates: []string{"label_1", "label"},
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.row, tt.candidates...)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveFloat(t *testing.T) {
	t.Parallel()

	row := models.RawRecord{"lat": "-26.5", "height": "tall", "dim2": ""}

	got, ok := ResolveFloat(row, "lat")
	require.True(t, ok)
	assert.Equal(t, -26.5, got)

	_, ok = ResolveFloat(row, "height")
	assert.False(t, ok, "unparseable value reads as absent")

	_, ok = ResolveFloat(row, "dim2")
	assert.False(t, ok, "empty value reads as absent")
}

func TestResolveInt(t *testing.T) {
	t.Parallel()

	row := models.RawRecord{"pon_no": "12", "zone_no": "7.0", "comments": "n/a"}

	got, ok := ResolveInt(row, "pon_no")
	require.True(t, ok)
	assert.Equal(t, 12, got)

	got, ok = ResolveInt(row, "zone_no")
	require.True(t, ok, "spreadsheet-style float integers are accepted")
	assert.Equal(t, 7, got)

	_, ok = ResolveInt(row, "comments")
	assert.False(t, ok)
}

func TestResolveDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  string
		want   time.Time
		wantOK bool
	}{
		{"iso date", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"slash date", "2024/03/15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"us date", "03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"datetime", "2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"garbage", "not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDate(models.RawRecord{"datecrtd": tt.value}, "datecrtd")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			}
		})
	}

	_, ok := ResolveDate(models.RawRecord{}, "datecrtd")
	assert.False(t, ok)
}

func TestResolveBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value  string
		want   bool
		wantOK bool
	}{
		{"yes", true, true},
		{"TRUE", true, true},
		{"1", true, true},
		{"Complete", true, true},
		{"completed", true, true},
		{"no", false, true},
		{"False", false, true},
		{"0", false, true},
		{"incomplete", false, true},
		{"PENDING", false, true},
		{"maybe", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run("token "+tt.value, func(t *testing.T) {
			got, ok := ResolveBool(models.RawRecord{"complete": tt.value}, "complete")
			assert.Equal(t, tt.wantOK, ok, "tri-state: unknown tokens are absent, not false")
			assert.Equal(t, tt.want, got)
		})
	}
}
