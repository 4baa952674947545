package output

import (
	"fmt"
	"math"
)

// FormatTimestamp renders t seconds as a [HH:MM:SS] marker.
// Fractional seconds are truncated and hours are not wrapped at 24.
// Negative times render as zero.
func FormatTimestamp(t float64) string {
	total := int64(math.Floor(math.Max(t, 0)))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("[%02d:%02d:%02d]", h, m, s)
}
