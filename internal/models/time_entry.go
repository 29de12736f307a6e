package models

import "time"

// TimeEntry is one punch session against a project. A nil End means the
// session is still open.
type TimeEntry struct {
	ID      int64      `json:"id"`
	Project *Project   `json:"-"`
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"`
}

// IsOpen reports whether the session has not been punched out yet.
func (e *TimeEntry) IsOpen() bool {
	return e.End == nil
}

// Duration returns the length of the entry. Open entries are measured up to now.
func (e *TimeEntry) Duration(now time.Time) time.Duration {
	end := now
	if e.End != nil {
		end = *e.End
	}
	if end.Before(e.Start) {
		return 0
	}
	return end.Sub(e.Start)
}

// ProjectUID returns the owning project's unique id, or "" for orphaned entries.
func (e *TimeEntry) ProjectUID() string {
	if e.Project == nil {
		return ""
	}
	return e.Project.UniqueID
}
