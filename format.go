package deckcanvas

import (
	"fmt"
	"time"
)

// FormatTime renders a duration as MM:SS, or HH:MM:SS when showHours is set
// or the duration reaches one hour. Fractions of a second are truncated.
func FormatTime(d time.Duration, showHours bool) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	if showHours || total >= 3600 {
		return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

var byteUnits = [...]string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with binary (1024) steps:
// "0 B", "512 B", "1.5 KB", ... up to TB.
func FormatBytes(n int64) string {
	if n == 0 {
		return "0 B"
	}
	size := float64(n)
	unit := 0
	for size >= 1024 && unit < len(byteUnits)-1 {
		size /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", n, byteUnits[0])
	}
	return fmt.Sprintf("%.1f %s", size, byteUnits[unit])
}
