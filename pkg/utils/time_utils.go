package utils

import "time"

func NowUnixSeconds() int64 { return time.Now().Unix() }

// StartOfNextMonth returns the first instant of the calendar month after now,
// at local midnight in now's location. Every place that derives a token reset
// boundary (account creation, lazy reset, downgrade) goes through this one
// function so the boundaries always agree.
func StartOfNextMonth(now time.Time) time.Time {
	year, month, _ := now.Date()
	return time.Date(year, month+1, 1, 0, 0, 0, 0, now.Location())
}

// FromUnixSeconds converts an epoch value in seconds to local time.
// Returns zero time if t<=0 to let callers decide how to render.
func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0)
}

func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// DayBounds returns the [start, end) unix-second window of the local calendar
// day containing t.
func DayBounds(t time.Time) (int64, int64) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return start.Unix(), start.AddDate(0, 0, 1).Unix()
}
