// ingest/resolver.go
package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/fibretrack/sow-backend/models"
)

// Resolve looks up the first usable value in row for an ordered list of
// candidate keys. For each candidate an exact key match is tried first, then
// a case-insensitive scan over the row's keys (headers in source files carry
// inconsistent casing and stray whitespace). A value is usable if it is
// non-empty after trimming. The ok result is false when no candidate yields
// a usable value; absence is never an error here, callers decide severity.
func Resolve(row models.RawRecord, candidates ...string) (string, bool) {
	for _, key := range candidates {
		if v, ok := row[key]; ok {
			if s := strings.TrimSpace(v); s != "" {
				return s, true
			}
		}
		for k, v := range row {
			if strings.EqualFold(strings.TrimSpace(k), key) {
				if s := strings.TrimSpace(v); s != "" {
					return s, true
				}
			}
		}
	}
	return "", false
}

// ResolveFloat resolves a candidate value and parses it as a float.
// Unparseable values read as absent.
func ResolveFloat(row models.RawRecord, candidates ...string) (float64, bool) {
	s, ok := Resolve(row, candidates...)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ResolveInt resolves a candidate value and parses it as an integer.
// Values like "12.0", common in spreadsheet exports of integer columns,
// are accepted by falling back to a float parse.
func ResolveInt(row models.RawRecord, candidates ...string) (int, bool) {
	s, ok := Resolve(row, candidates...)
	if !ok {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// dateLayouts covers the formats seen across SOW source files. Order matters:
// unambiguous ISO-style layouts first, day-first layouts last.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-06",
	"2 Jan 2006",
}

// ResolveDate resolves a candidate value and parses it as a calendar date.
// A value that matches none of the known layouts is logged as a warning and
// read as absent; a bad date never aborts the batch.
func ResolveDate(row models.RawRecord, candidates ...string) (time.Time, bool) {
	s, ok := Resolve(row, candidates...)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	log.WithField("value", s).Warn("unparseable date in source row, treating as absent")
	return time.Time{}, false
}

var (
	affirmativeTokens = map[string]bool{"yes": true, "true": true, "1": true, "complete": true, "completed": true}
	negativeTokens    = map[string]bool{"no": true, "false": true, "0": true, "incomplete": true, "pending": true}
)

// ResolveBool resolves a candidate value and maps a closed set of free-text
// tokens to a boolean. The result is tri-state: a token outside both sets,
// or an absent value, reads as absent rather than false.
func ResolveBool(row models.RawRecord, candidates ...string) (bool, bool) {
	s, ok := Resolve(row, candidates...)
	if !ok {
		return false, false
	}
	token := strings.ToLower(s)
	if affirmativeTokens[token] {
		return true, true
	}
	if negativeTokens[token] {
		return false, true
	}
	return false, false
}
