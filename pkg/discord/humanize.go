package discord

import (
	"fmt"
	"strings"
	"time"
)

// Calendar-free approximations: a year is 365 days and a month 30 days.
const (
	day   = 24 * time.Hour
	month = 30 * day
	year  = 365 * day
)

var humanUnits = []struct {
	name string
	size time.Duration
}{
	{"year", year},
	{"month", month},
	{"day", day},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// Humanize renders d as "1 hour, 1 minute, 1 second", largest unit first.
// Zero-valued units are omitted and sub-second precision is dropped.
// Durations shorter than a minute render as "": seconds only ever appear
// next to a larger unit.
func Humanize(d time.Duration) string {
	if d < time.Minute {
		return ""
	}
	rest := d.Truncate(time.Second)
	parts := make([]string, 0, len(humanUnits))
	for _, u := range humanUnits {
		n := int64(rest / u.size)
		if n == 0 {
			continue
		}
		rest -= time.Duration(n) * u.size
		name := u.name
		if n > 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, name))
	}
	return strings.Join(parts, ", ")
}
