package util

import "time"

// LastDayOfMonth returns the number of days in the given month
func LastDayOfMonth(year int, month time.Month) int {
	// day 0 of next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns midnight UTC of the first and last calendar day of
// the month containing t, read in t's own location
func MonthBounds(t time.Time) (time.Time, time.Time) {
	year, month := t.Year(), t.Month()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month, LastDayOfMonth(year, month), 0, 0, 0, 0, time.UTC)
	return first, last
}
