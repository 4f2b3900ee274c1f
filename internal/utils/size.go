package utils

import "fmt"

const fileSizeFormat = "%.1f %s"

var fileSizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders a byte length with one decimal in the largest unit
// that keeps the value below 1024, capped at gigabytes.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	value := float64(bytes)
	unitIndex := 0
	for value >= 1024 && unitIndex < len(fileSizeUnits)-1 {
		value /= 1024
		unitIndex++
	}
	return fmt.Sprintf(fileSizeFormat, value, fileSizeUnits[unitIndex])
}
