package application

import (
	"time"

	"rsvpbot/internal/domain/entities"
	pkgdiscord "rsvpbot/pkg/discord"
)

// Embed layout of an event record. Field names are matched literally and are
// never translated.
const (
	FieldWhen     = "WHEN"
	FieldAudience = "AUDIENCE"

	embedColor = 0x5865F2
)

const twemojiBase = "https://cdn.jsdelivr.net/gh/twitter/twemoji@14.0.2/assets/72x72/"

// The stage marker is the footer icon of the record's embed.
var stageMarkers = map[entities.Stage]string{
	entities.StageCreated:   twemojiBase + "1f4c5.png",
	entities.StageAlarmSent: twemojiBase + "23f0.png",
	entities.StageFinalSent: twemojiBase + "1f514.png",
}

func StageMarker(s entities.Stage) string {
	return stageMarkers[s]
}

// StageFromMarker decodes a footer icon URL. Anything unknown is StageCreated.
func StageFromMarker(url string) entities.Stage {
	for stage, marker := range stageMarkers {
		if url == marker {
			return stage
		}
	}
	return entities.StageCreated
}

// renderEventEmbed builds the embed of a new record.
func renderEventEmbed(rec entities.EventRecord, loc *time.Location, footer string) entities.Embed {
	return entities.Embed{
		Title:       rec.Title,
		Description: rec.Description,
		Color:       embedColor,
		Fields: []entities.EmbedField{
			{Name: FieldWhen, Value: pkgdiscord.FormatEventTime(rec.ScheduledAt, loc), Inline: true},
			{Name: FieldAudience, Value: rec.Audience.String(), Inline: true},
		},
		FooterText:    footer,
		FooterIconURL: StageMarker(rec.Stage),
	}
}

// withStage returns a copy of embed carrying the marker of stage. The rest of
// the record is left as it was posted.
func withStage(embed entities.Embed, stage entities.Stage, footer string) entities.Embed {
	out := embed
	out.Fields = append([]entities.EmbedField(nil), embed.Fields...)
	out.FooterIconURL = StageMarker(stage)
	out.FooterText = footer
	return out
}
