package exporter

import (
	"fmt"
	"math"
)

// formatFloat renders a value with exactly 2 decimal places so 13.4 appears
// as 13.40 in CSV output.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatOptional renders a value that may be the NaN missing marker; missing
// values become an empty cell.
func formatOptional(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return formatFloat(f)
}
