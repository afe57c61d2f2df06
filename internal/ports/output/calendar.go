package output

import "rsvpbot/internal/domain/entities"

// CalendarEncoder renders an event as a downloadable calendar file.
type CalendarEncoder interface {
	Encode(event entities.EventRecord) (entities.Attachment, error)
}
