package view

import "fmt"

// FormatClock renders seconds as MM:SS with both fields zero-padded. Minutes
// are not wrapped into hours.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// WarningThreshold is the last stretch of the countdown shown as a warning.
const WarningThreshold = 10

// inWarning reports whether remaining is in the final stretch.
func inWarning(remaining int) bool {
	return remaining > 0 && remaining <= WarningThreshold
}
