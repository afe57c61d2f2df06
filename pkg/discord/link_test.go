package discord

import (
	"errors"
	"testing"

	"rsvpbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessageLink(t *testing.T) {
	for _, in := range []string{
		"https://discord.com/channels/1/22/333",
		"https://canary.discord.com/channels/1/22/333",
		"https://ptb.discordapp.com/channels/1/22/333/",
		"<https://discord.com/channels/1/22/333>",
		"  https://discord.com/channels/1/22/333 ",
		"https://discord.com/channels/1/22/333\r\n",
	} {
		ref, err := ParseMessageLink(in)
		require.NoError(t, err, in)
		assert.Equal(t, MessageRef{GuildID: "1", ChannelID: "22", MessageID: "333"}, ref, in)
	}
}

func TestParseMessageLink_Invalid(t *testing.T) {
	for _, in := range []string{"", "333", "https://example.com/channels/1/2/3", "https://discord.com/channels/1/2"} {
		_, err := ParseMessageLink(in)
		assert.True(t, errors.Is(err, domain.ErrInvalidMessageLink), in)
	}
}

func TestMessageLink(t *testing.T) {
	assert.Equal(t, "https://discord.com/channels/1/2/3", MessageLink("1", "2", "3"))
	assert.Equal(t, "", MessageLink("", "2", "3"))
}

func TestErrorMessageKey(t *testing.T) {
	assert.Equal(t, "", ErrorMessageKey(nil))
	assert.Equal(t, "errors.not_future_event", ErrorMessageKey(domain.ErrNotFutureEvent))
	assert.Equal(t, "errors.generic", ErrorMessageKey(errors.New("boom")))
}
