package entities

// Message is the platform-neutral view of a chat message the core works on.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	AuthorID  string
	Content   string
	Pinned    bool
	Embeds    []Embed
	Reactions []ReactionGroup
}

// FirstEmbed returns the structured content block of the message, if any.
func (m *Message) FirstEmbed() (Embed, bool) {
	if m == nil || len(m.Embeds) == 0 {
		return Embed{}, false
	}
	return m.Embeds[0], true
}

type Embed struct {
	Title         string
	Description   string
	Color         int
	Fields        []EmbedField
	FooterText    string
	FooterIconURL string
}

// Field returns the value of the field literally named name.
func (e Embed) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// ReactionGroup is one emoji on a message with its total count.
// Me is true when the bot itself is one of the reactors.
type ReactionGroup struct {
	Emoji string
	Count int
	Me    bool
}

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// OutgoingMessage is what the core asks the transport to post.
type OutgoingMessage struct {
	Content         string
	Embed           *Embed
	Files           []Attachment
	MentionEveryone bool
	MentionUserIDs  []string
}

type Channel struct {
	ID      string
	GuildID string
	Name    string
}

// ReactionEvent is an inbound "reaction added" notification.
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Emoji     string
}
