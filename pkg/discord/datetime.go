package discord

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"rsvpbot/internal/domain"
)

// EventTimeLayout is the only accepted input pattern: MM/DD/YY HH:MM.
const EventTimeLayout = "01/02/06 15:04"

var (
	eventTimePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{2} \d{2}:\d{2}$`)
	weekdaySuffix    = regexp.MustCompile(` \([A-Za-z]+\)$`)
)

// ParseEventTime parses a user-entered time (MM/DD/YY HH:MM) in loc.
// Surrounding blanks are ignored; anything else that deviates from the
// pattern fails with domain.ErrInvalidFormat.
func ParseEventTime(text string, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	if !eventTimePattern.MatchString(text) {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidFormat, text)
	}
	t, err := time.ParseInLocation(EventTimeLayout, text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidFormat, text)
	}
	return t, nil
}

// FormatEventTime renders t as stored in the WHEN field, e.g. "05/01/24 18:00 (Wednesday)".
func FormatEventTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	local := t.In(loc)
	return fmt.Sprintf("%s (%s)", local.Format(EventTimeLayout), local.Weekday())
}

// StripWeekday removes the trailing " (Weekday)" annotation added by FormatEventTime.
func StripWeekday(rendered string) string {
	return weekdaySuffix.ReplaceAllString(strings.TrimSpace(rendered), "")
}
