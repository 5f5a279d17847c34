package exporter

import (
	"fmt"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatPPM formats an optional PPM scalar. A nil value means the
// delivery denominator was zero and is exported as an empty cell.
func formatPPM(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
