// utils/timeutil.go
package utils

import "time"

// All period math is UTC. Local time here would double-reset or skip a
// reset depending on which side of midnight the server sits.

func NowUnixSeconds() int64 { return time.Now().Unix() }

// PeriodOf derives the usage period key for a point in time.
func PeriodOf(t time.Time) (year int, month int) {
	u := t.UTC()
	return u.Year(), int(u.Month())
}

func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).UTC()
}

func FromUnixMillis(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(t).UTC()
}

func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
