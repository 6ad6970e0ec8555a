package service

import "time"

// startOfDay truncates t to midnight UTC. All calendar-day comparisons in
// the journal (streaks, scheduled prompts, entry dates) operate on these
// normalized values, so time-of-day and timezone never leak into them.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
