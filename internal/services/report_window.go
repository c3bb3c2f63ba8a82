package services

import "time"

// startOfDay truncates t to midnight in its location
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday midnight of t's week
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// windowStart returns the lower bound of a relative filter, or false when the filter has none
func windowStart(filter DateFilter, now time.Time) (time.Time, bool) {
	switch filter {
	case DateFilterToday:
		return startOfDay(now), true
	case DateFilterThisWeek:
		return startOfWeek(now), true
	case DateFilterThisMonth:
		return startOfMonth(now), true
	case DateFilterThisYear:
		return startOfYear(now), true
	default:
		return time.Time{}, false
	}
}
