package models

import "time"

// DateLayout is the calendar-day format used for reception dates.
const DateLayout = "2006-01-02"

// Today returns the calendar day of now in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}
