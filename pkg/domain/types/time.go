package types

import "time"

// MonthKey returns the sparse counter key for the month of t, always the
// first day of the month as "YYYY-MM-01".
func MonthKey(t time.Time) string {
	return t.Format("2006-01") + "-01"
}

// DateOnly strips the time component, keeping year/month/day in UTC.
// Quota and expiration comparisons are date-only.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
