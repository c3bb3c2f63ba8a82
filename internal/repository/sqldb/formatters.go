package sqldb

import (
	"time"
)

// FormatTimeForDB formats a time.Time value as a UTC RFC3339 string for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// NullableMillis converts an optional epoch-millisecond value into a driver argument
func NullableMillis(ms *int64) interface{} {
	if ms == nil {
		return nil
	}
	return *ms
}
