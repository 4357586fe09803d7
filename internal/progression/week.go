package progression

import "time"

// WeekNumber identifies the ISO week containing t (UTC) as year*100 + week,
// so the value keeps increasing across year boundaries.
func WeekNumber(t time.Time) int {
	year, week := t.UTC().ISOWeek()
	return year*100 + week
}

// NextWeekStart returns the first Monday 00:00 UTC strictly after t
func NextWeekStart(t time.Time) time.Time {
	t = t.UTC()
	daysUntilMonday := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if daysUntilMonday == 0 {
		daysUntilMonday = 7
	}
	next := t.AddDate(0, 0, daysUntilMonday)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
}
