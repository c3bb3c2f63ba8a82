package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	SecondsPerHour  = 3600
	MillisPerSecond = 1000
)

// HoursToSeconds converts hours to whole seconds, truncating toward negative infinity.
func HoursToSeconds(hours float64) int64 {
	return int64(math.Floor(hours * SecondsPerHour))
}

// SecondsToHours converts seconds to fractional hours without rounding.
func SecondsToHours(seconds int64) float64 {
	return float64(seconds) / SecondsPerHour
}

// Elapsed returns the whole seconds between two epoch-millisecond instants.
// The result is floored and is negative when endMs is before startMs; callers decide how to treat that.
func Elapsed(startMs, endMs int64) int64 {
	diff := endMs - startMs
	seconds := diff / MillisPerSecond
	if diff%MillisPerSecond != 0 && diff < 0 {
		seconds--
	}
	return seconds
}

// FormatDuration renders seconds as HH:MM:SS. Hours are not wrapped at 24.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / SecondsPerHour
	minutes := (seconds % SecondsPerHour) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// ToMillis converts a time to epoch milliseconds.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// RoundTo2 rounds to two decimal places for display.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
