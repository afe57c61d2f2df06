package entities

// RSVP is a user's answer to an event, expressed as one reaction.
type RSVP int

const (
	RSVPAccepted RSVP = iota
	RSVPTentative
	RSVPRejected
)

const (
	EmojiAccepted  = "✅"
	EmojiTentative = "🤔"
	EmojiRejected  = "❌"
)

// RSVPEmojis lists the three valid symbols in seeding order.
var RSVPEmojis = []string{EmojiAccepted, EmojiTentative, EmojiRejected}

func (r RSVP) Emoji() string {
	return RSVPEmojis[r]
}

// Attending reports whether the answer puts the user on the reminder list.
func (r RSVP) Attending() bool {
	return r == RSVPAccepted || r == RSVPTentative
}

func RSVPFromEmoji(emoji string) (RSVP, bool) {
	for i, e := range RSVPEmojis {
		if e == emoji {
			return RSVP(i), true
		}
	}
	return 0, false
}

func IsRSVPEmoji(emoji string) bool {
	_, ok := RSVPFromEmoji(emoji)
	return ok
}
