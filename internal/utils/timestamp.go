package utils

import (
	"fmt"
	"time"
)

// TimestampTitle builds the placeholder title used when a record is
// created without one, e.g. "20260829_134501".
func TimestampTitle(t time.Time) string {
	return t.Format("20060102_150405")
}

// IndexedTitle suffixes a title for the n-th record of a multi-line
// add. Placeholder titles get "_N", user titles get " (N)".
func IndexedTitle(title string, n int, placeholder bool) string {
	if placeholder {
		return fmt.Sprintf("%s_%d", title, n)
	}
	return fmt.Sprintf("%s (%d)", title, n)
}
