package application

import (
	"fmt"
	"time"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/domain/entities"
	pkgdiscord "rsvpbot/pkg/discord"
)

// Extractor rebuilds event records from bot messages.
type Extractor struct {
	loc *time.Location
}

func NewExtractor(loc *time.Location) *Extractor {
	return &Extractor{loc: loc}
}

// Extract returns the record encoded in msg, or nil when msg is not a live
// event: not authored by botID, no embed, already at FinalSent, or no WHEN
// field. A WHEN field that does not parse is a domain.ErrMalformedEventRecord.
func (x *Extractor) Extract(msg *entities.Message, botID string) (*entities.EventRecord, error) {
	if msg == nil || msg.AuthorID != botID {
		return nil, nil
	}
	embed, ok := msg.FirstEmbed()
	if !ok {
		return nil, nil
	}
	stage := StageFromMarker(embed.FooterIconURL)
	if stage == entities.StageFinalSent {
		return nil, nil
	}
	when, ok := embed.Field(FieldWhen)
	if !ok {
		return nil, nil
	}
	scheduledAt, err := pkgdiscord.ParseEventTime(pkgdiscord.StripWeekday(when), x.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: message %s: %w", domain.ErrMalformedEventRecord, msg.ID, err)
	}
	audience, _ := embed.Field(FieldAudience)
	return &entities.EventRecord{
		MessageID:   msg.ID,
		ChannelID:   msg.ChannelID,
		GuildID:     msg.GuildID,
		Title:       embed.Title,
		Description: embed.Description,
		ScheduledAt: scheduledAt,
		Audience:    entities.ParseAudienceScope(audience),
		Stage:       stage,
	}, nil
}

// IsEventMessage reports whether msg is an event record of botID, whatever
// its stage.
func IsEventMessage(msg *entities.Message, botID string) bool {
	if msg == nil || msg.AuthorID != botID {
		return false
	}
	embed, ok := msg.FirstEmbed()
	if !ok {
		return false
	}
	_, ok = embed.Field(FieldWhen)
	return ok
}
