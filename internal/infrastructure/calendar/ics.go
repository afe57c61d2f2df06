package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"rsvpbot/internal/domain/entities"
	"rsvpbot/internal/ports/output"
)

const (
	// FileName is the name of the attachment posted with each record.
	FileName    = "event.ics"
	contentType = "text/calendar; charset=utf-8"
	productID   = "-//rsvpbot//EN"

	// DefaultDuration is used for DTEND; records carry no end time.
	DefaultDuration = time.Hour
)

var _ output.CalendarEncoder = (*Encoder)(nil)

// Encoder renders an event record as a single-VEVENT iCalendar file.
type Encoder struct {
	duration time.Duration
	now      func() time.Time
}

func NewEncoder(duration time.Duration) *Encoder {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Encoder{duration: duration, now: time.Now}
}

func (e *Encoder) Encode(rec entities.EventRecord) (entities.Attachment, error) {
	if rec.ScheduledAt.IsZero() {
		return entities.Attachment{}, fmt.Errorf("encode %q: missing start time", rec.Title)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, e.toICal(rec))

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return entities.Attachment{}, fmt.Errorf("encode %q to iCal format: %w", rec.Title, err)
	}
	return entities.Attachment{Name: FileName, ContentType: contentType, Data: buf.Bytes()}, nil
}

// toICal converts a record to a VEVENT. Times are written in UTC so the file
// needs no VTIMEZONE.
func (e *Encoder) toICal(rec entities.EventRecord) *ical.Component {
	start := rec.ScheduledAt.UTC()
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uuid.NewString())
	ve.Props.SetText(ical.PropSummary, rec.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, e.now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(e.duration))

	if rec.Description != "" {
		ve.Props.SetText(ical.PropDescription, rec.Description)
	}
	return ve
}
