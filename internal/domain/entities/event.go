package entities

import "time"

// Stage is the notification milestone an event record has reached.
// It only ever moves forward: Created -> AlarmSent -> FinalSent (or Created -> FinalSent).
type Stage int

const (
	StageCreated Stage = iota
	StageAlarmSent
	StageFinalSent
)

func (s Stage) String() string {
	switch s {
	case StageAlarmSent:
		return "alarm_sent"
	case StageFinalSent:
		return "final_sent"
	default:
		return "created"
	}
}

// AudienceScope selects who a reminder is addressed to.
type AudienceScope int

const (
	AudienceEveryone AudienceScope = iota
	AudienceRSVPOnly
)

func (a AudienceScope) String() string {
	if a == AudienceRSVPOnly {
		return "rsvp"
	}
	return "everyone"
}

// ParseAudienceScope decodes the AUDIENCE field value. Anything unknown is EVERYONE.
func ParseAudienceScope(v string) AudienceScope {
	if v == AudienceRSVPOnly.String() {
		return AudienceRSVPOnly
	}
	return AudienceEveryone
}

// EventRecord is an event reconstructed from a bot message. Its identity is the
// message (ChannelID, MessageID); only Stage is ever mutated.
type EventRecord struct {
	MessageID   string
	ChannelID   string
	GuildID     string
	Title       string
	Description string
	ScheduledAt time.Time
	Audience    AudienceScope
	Stage       Stage
}

func (e *EventRecord) IsFinal() bool {
	return e.Stage == StageFinalSent
}
