package services

import "time"

// PreviousMonth returns the calendar-month bounds [start, end) of the
// month before the reference time, in the reference location.
func PreviousMonth(ref time.Time) (time.Time, time.Time) {
	end := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	start := end.AddDate(0, -1, 0)
	return start, end
}
