package discord

import (
	"fmt"
	"regexp"
	"strings"

	"rsvpbot/internal/domain"
)

var messageLinkPattern = regexp.MustCompile(`^https?://(?:(?:ptb|canary)\.)?discord(?:app)?\.com/channels/(\d+|@me)/(\d+)/(\d+)/?$`)

// MessageRef identifies a message from a jump link.
type MessageRef struct {
	GuildID   string
	ChannelID string
	MessageID string
}

// ParseMessageLink parses https://discord.com/channels/<guild>/<channel>/<message>.
// Angle brackets (used to suppress link previews) are accepted.
func ParseMessageLink(link string) (MessageRef, error) {
	link = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(link), "<"), ">")
	m := messageLinkPattern.FindStringSubmatch(link)
	if m == nil {
		return MessageRef{}, fmt.Errorf("%w: %q", domain.ErrInvalidMessageLink, link)
	}
	return MessageRef{GuildID: m[1], ChannelID: m[2], MessageID: m[3]}, nil
}

// MessageLink builds the jump link of a message, or "" if an id is missing.
func MessageLink(guildID, channelID, messageID string) string {
	if guildID == "" || channelID == "" || messageID == "" {
		return ""
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}
