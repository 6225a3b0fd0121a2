package format

import (
	"fmt"
	"time"
)

type timeUnit struct {
	name    string
	seconds int64
}

// units are ordered from largest to smallest; the first one that fits wins.
var units = []timeUnit{
	{"year", 365 * 24 * 60 * 60},
	{"month", 30 * 24 * 60 * 60},
	{"day", 24 * 60 * 60},
	{"hour", 60 * 60},
	{"minute", 60},
	{"second", 1},
}

// FormatRelativeTime renders a unix timestamp relative to the current time,
// e.g. "5 minutes ago".
func FormatRelativeTime(ts uint64) string {
	return FormatRelativeTimeAt(ts, time.Now())
}

// FormatRelativeTimeAt renders ts relative to now.
//
// The largest unit (year, month, day, hour, minute, second) whose length does not
// exceed the elapsed time is selected. Timestamps at or after now are rendered
// as "0 seconds ago".
func FormatRelativeTimeAt(ts uint64, now time.Time) string {
	elapsed := now.Unix() - int64(ts)
	if ts > uint64(now.Unix()) || elapsed <= 0 {
		return relative(0, "second")
	}

	for _, u := range units {
		if u.seconds <= elapsed {
			return relative(elapsed/u.seconds, u.name)
		}
	}
	return relative(elapsed, "second")
}

func relative(value int64, unit string) string {
	if value != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", value, unit)
}
