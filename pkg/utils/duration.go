package utils

import "fmt"

// FormatDuration renders seconds as M:SS. Zero and negative values give "0:00".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
