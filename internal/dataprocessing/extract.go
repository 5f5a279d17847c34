package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// maxSerialDate bounds the range of cell values treated as spreadsheet
// serial dates. Anything larger is an eight-digit YYYYMMDD literal, not a
// day count.
const maxSerialDate = 300000

// dateLayouts is the ordered fallback chain for textual dates. ISO comes
// first so unambiguous values never reach the locale-specific patterns, and
// the pattern order resolves day/month ambiguity the same way for every
// record type.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"01/02/2006",
	"02.01.2006",
	"20060102",
}

// CellValue returns the trimmed cell at idx, or def when the index is out of
// range or the cell is blank.
func CellValue(row []string, idx int, def string) string {
	if idx < 0 || idx >= len(row) {
		return def
	}
	v := strings.TrimSpace(row[idx])
	if v == "" {
		return def
	}
	return v
}

// ParseDate parses a cell into a date. It accepts spreadsheet serial numbers
// (days since the workbook epoch) and the textual layouts in dateLayouts.
// The second return value is false when nothing matched.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	// Serial dates surface as plain numbers when the cell lost its format.
	// Numbers outside the serial range (eight-digit YYYYMMDD literals) fall
	// through to the textual layouts.
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 && serial < maxSerialDate {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses a cell into a float64 with deliberately lossy
// semantics: every character except digits, dot and minus is stripped before
// parsing, and anything still unparseable yields 0. Aggregation must never
// halt on bad numeric input, so callers cannot use this to detect malformed
// cells.
func ParseNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// IsEmptyRow reports whether every cell in the row is blank. Empty rows are
// skipped silently and never counted as row errors.
func IsEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
