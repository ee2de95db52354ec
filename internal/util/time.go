package util

import "time"

const (
	// DateTimeFormat is the timestamp layout shown in reports.
	DateTimeFormat = "02/01/2006 15:04"

	// StampFormat is the compact layout used in generated file names.
	StampFormat = "20060102-150405"
)

// Clock returns the current time. Components take one so tests can pin it.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// FormatDateTime formats t for display in reports.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeFormat)
}

// FileStamp formats t for use in file names.
func FileStamp(t time.Time) string {
	return t.Format(StampFormat)
}
