package engine

import "time"

const secondsPerDay = 24 * 60 * 60

// YearsHeld returns the whole years between acquisition and transfer,
// floor(days / 365.25). Only the calendar dates are compared, so time of day
// and time zone offsets do not shift the result.
func YearsHeld(acquisition, transfer time.Time) int {
	days := civilDay(transfer) - civilDay(acquisition)

	// days / 365.25 == days*4 / 1461
	return floorDiv(days*4, 1461)
}

func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

func floorDiv(a, b int64) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return int(q)
}
