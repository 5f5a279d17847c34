package dataprocessing

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Structural parse failures. These abort the whole call and surface a
// distinct error so callers can tell "structurally invalid source" from
// "legitimately empty source" — both return an empty record collection.
var (
	// ErrNoWorksheet means the workbook holds no readable worksheet.
	ErrNoWorksheet = errors.New("workbook contains no readable worksheet")
	// ErrMissingColumns means a required column could not be resolved.
	ErrMissingColumns = errors.New("required columns not found")
)

// missingColumnsError carries the unresolved field names for diagnostics.
type missingColumnsError struct {
	fields []string
}

func (e *missingColumnsError) Error() string {
	return fmt.Sprintf("required columns not found: %s", strings.Join(e.fields, ", "))
}

func (e *missingColumnsError) Unwrap() error { return ErrMissingColumns }

// firstSheetRows opens a workbook buffer and returns the rows of its first
// worksheet. Further sheets are ignored by design. Truly corrupt input is
// the one failure that propagates as an opaque error for the whole call.
func firstSheetRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// sheetTable resolves the header map against the first sheet. A sheet with
// a header row but no data rows is legitimately empty: it yields nil data
// rows and a nil error. An unresolved required field is a structural error
// wrapping ErrMissingColumns.
func sheetTable(data []byte, mapping ColumnMapping, required []string) ([][]string, map[string]int, error) {
	rows, err := firstSheetRows(data)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, nil
	}

	resolved := ResolveHeaders(rows[0], mapping)
	if missing := MissingFields(resolved, required); len(missing) > 0 {
		return nil, nil, &missingColumnsError{fields: missing}
	}
	return rows[1:], resolved, nil
}

// rowError formats a per-row error string. Row numbers are 1-based sheet
// rows, so data row i maps to sheet row i+2.
func rowError(dataRow int, format string, args ...any) string {
	return fmt.Sprintf("row %d: %s", dataRow+2, fmt.Sprintf(format, args...))
}
