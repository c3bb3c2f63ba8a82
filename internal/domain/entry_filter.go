package domain

import "time"

// EntryFilter narrows a time entry listing. A nil field means no restriction.
// From and To bound the entry start time and are inclusive.
type EntryFilter struct {
	ProjectID *string
	From      *time.Time
	To        *time.Time
}

// Contains reports whether an entry passes the date bounds of the filter.
func (f EntryFilter) Contains(entry TimeEntry) bool {
	if f.ProjectID != nil && entry.ProjectID != *f.ProjectID {
		return false
	}
	if f.From != nil && entry.StartTime < ToMillis(*f.From) {
		return false
	}
	if f.To != nil && entry.StartTime > ToMillis(*f.To) {
		return false
	}
	return true
}
