package common

import "time"

// iso8601Format keeps nanosecond precision so formatted times round-trip
// exactly.
const iso8601Format = "2006-01-02T15:04:05.000000000Z07:00"

func FormatISO8601(t time.Time) string {
	return t.Format(iso8601Format)
}

func NowISO8601() string {
	return FormatISO8601(time.Now())
}

func ParseISO8601(s string) (time.Time, error) {
	return time.Parse(iso8601Format, s)
}

// InTimeSpan reports whether `check` lies inside [start, end].
func InTimeSpan(start, end, check time.Time) bool {
	return !check.Before(start) && !check.After(end)
}
