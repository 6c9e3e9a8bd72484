package recognition

import "time"

// MonthWindow returns the first and last instant of t's calendar month in
// t's location. Quota counting and the award guard both use this window.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// NextReset returns the first instant of the month after t, when the quota
// becomes available again.
func NextReset(t time.Time) time.Time {
	start, _ := MonthWindow(t)
	return start.AddDate(0, 1, 0)
}

// Remaining clamps at zero; the store guard means used can never exceed the
// quota, but a clamp keeps the API honest regardless.
func Remaining(used int) int {
	if used >= MaxPerMonth {
		return 0
	}
	return MaxPerMonth - used
}
