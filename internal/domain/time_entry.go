package domain

import (
	"errors"
	"time"
)

// ErrNegativeDuration is returned when an interval ends before it starts.
var ErrNegativeDuration = errors.New("end time is before start time")

const (
	EntryTypeManual  = "Manual"
	EntryTypeTracked = "Tracked"
)

// TimeEntry is a billed interval belonging to a project.
// For tracked entries Seconds == floor((EndTime-StartTime)/1000).
// Manual entries carry StartTime == EndTime == creation instant.
type TimeEntry struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Seconds   int64     `json:"seconds"`
	StartTime int64     `json:"start_time"`
	EndTime   int64     `json:"end_time"`
	IsManual  bool      `json:"is_manual"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTrackedEntry creates a timer-derived entry for [startMs, endMs].
func NewTrackedEntry(id, projectID, userID string, startMs, endMs int64, createdAt time.Time) (TimeEntry, error) {
	if endMs < startMs {
		return TimeEntry{}, ErrNegativeDuration
	}
	return TimeEntry{
		ID:        id,
		ProjectID: projectID,
		UserID:    userID,
		Seconds:   Elapsed(startMs, endMs),
		StartTime: startMs,
		EndTime:   endMs,
		CreatedAt: createdAt,
	}, nil
}

// NewManualEntry creates a user-declared entry stamped at the given instant.
func NewManualEntry(id, projectID, userID string, seconds int64, at time.Time) TimeEntry {
	ms := ToMillis(at)
	return TimeEntry{
		ID:        id,
		ProjectID: projectID,
		UserID:    userID,
		Seconds:   seconds,
		StartTime: ms,
		EndTime:   ms,
		IsManual:  true,
		CreatedAt: at,
	}
}

// WithSeconds returns a copy billed for the given seconds.
// Tracked entries move their end time so the interval still matches.
func (te TimeEntry) WithSeconds(seconds int64) TimeEntry {
	te.Seconds = seconds
	if !te.IsManual {
		te.EndTime = te.StartTime + seconds*MillisPerSecond
	}
	return te
}

// Hours returns the billed duration in fractional hours.
func (te TimeEntry) Hours() float64 {
	return SecondsToHours(te.Seconds)
}

// Type returns "Manual" or "Tracked".
func (te TimeEntry) Type() string {
	if te.IsManual {
		return EntryTypeManual
	}
	return EntryTypeTracked
}

// Start returns the start instant as a time.
func (te TimeEntry) Start() time.Time {
	return FromMillis(te.StartTime)
}

// End returns the end instant as a time.
func (te TimeEntry) End() time.Time {
	return FromMillis(te.EndTime)
}

// IsValid checks if the time entry has valid data.
func (te TimeEntry) IsValid() bool {
	if te.ProjectID == "" || te.UserID == "" || te.Seconds < 0 {
		return false
	}
	if te.EndTime < te.StartTime {
		return false
	}
	if te.IsManual {
		return te.StartTime == te.EndTime
	}
	return te.Seconds == Elapsed(te.StartTime, te.EndTime)
}
