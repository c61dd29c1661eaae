// ingest/decode.go
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fibretrack/sow-backend/models"
)

// DecodeFile decodes an uploaded spreadsheet into raw rows. The format is
// picked from the filename extension: .xlsx/.xlsm workbooks are read via
// excelize (first sheet only), anything else is treated as CSV. A file that
// cannot be read, or that contains a header but no data rows, is a terminal
// error for the whole batch.
func DecodeFile(r io.Reader, filename string) ([]models.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return DecodeWorkbook(r)
	default:
		return DecodeCSV(r)
	}
}

// DecodeWorkbook reads the first sheet of an Excel workbook. The first row
// is the header; every following row becomes a RawRecord keyed by the header
// cells. Short rows are padded implicitly (missing cells are absent keys).
func DecodeWorkbook(r io.Reader) ([]models.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows found in sheet %q", sheets[0])
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	records := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(models.RawRecord, len(header))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			rec[header[i]] = cell
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no data rows found in sheet %q", sheets[0])
	}
	return records, nil
}

// DecodeCSV reads header + data rows from CSV content. A UTF-8 BOM, often
// left behind by Excel's "save as CSV", is stripped before parsing. Rows may
// have fewer fields than the header.
func DecodeCSV(r io.Reader) ([]models.RawRecord, error) {
	br := stripUTF8BOM(bufio.NewReader(r))

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv file is empty")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []models.RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		rec := make(models.RawRecord, len(header))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			rec[header[i]] = cell
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no data rows found in csv file")
	}
	return records, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && bytes.Equal(b, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = r.Discard(3)
	}
	return r
}
