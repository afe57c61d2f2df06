package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/domain/entities"
	"rsvpbot/internal/ports/output"
	pkgdiscord "rsvpbot/pkg/discord"
)

// Discord caps list endpoints at 100 items per call.
const pageSize = 100

var _ output.Transport = (*Transport)(nil)

// Transport implements output.Transport over a discordgo session.
type Transport struct {
	session *discordgo.Session
}

func NewTransport(session *discordgo.Session) *Transport {
	return &Transport{session: session}
}

func failure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrTransportFailure, op, err)
}

func (t *Transport) BotUserID() string {
	if t.session.State == nil || t.session.State.User == nil {
		return ""
	}
	return t.session.State.User.ID
}

// Channels lists the text channels of every guild in the session state. A
// guild that cannot be listed is skipped; the others are still returned,
// along with the joined errors.
func (t *Transport) Channels(ctx context.Context) ([]entities.Channel, error) {
	var (
		out  []entities.Channel
		errs []error
	)
	for _, g := range t.session.State.Guilds {
		channels, err := t.session.GuildChannels(g.ID, discordgo.WithContext(ctx))
		if err != nil {
			errs = append(errs, failure("guild channels "+g.ID, err))
			continue
		}
		for _, ch := range channels {
			if ch.Type != discordgo.ChannelTypeGuildText && ch.Type != discordgo.ChannelTypeGuildNews {
				continue
			}
			out = append(out, entities.Channel{ID: ch.ID, GuildID: g.ID, Name: ch.Name})
		}
	}
	return out, errors.Join(errs...)
}

func (t *Transport) PinnedMessages(ctx context.Context, channelID string) ([]*entities.Message, error) {
	msgs, err := t.session.ChannelMessagesPinned(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, failure("pinned messages "+channelID, err)
	}
	return t.convert(channelID, msgs), nil
}

// RecentMessages pages backwards through the history of channelID, newest
// first, until limit messages are read or the history ends.
func (t *Transport) RecentMessages(ctx context.Context, channelID string, limit int) ([]*entities.Message, error) {
	var out []*entities.Message
	before := ""
	for len(out) < limit {
		n := min(limit-len(out), pageSize)
		msgs, err := t.session.ChannelMessages(channelID, n, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return out, failure("history "+channelID, err)
		}
		out = append(out, t.convert(channelID, msgs)...)
		if len(msgs) < n {
			break
		}
		before = msgs[len(msgs)-1].ID
	}
	return out, nil
}

func (t *Transport) Message(ctx context.Context, channelID, messageID string) (*entities.Message, error) {
	m, err := t.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, failure("message "+messageID, err)
	}
	return t.convertOne(channelID, m), nil
}

func (t *Transport) SendMessage(ctx context.Context, channelID string, msg entities.OutgoingMessage) (*entities.Message, error) {
	m, err := t.session.ChannelMessageSendComplex(channelID, toMessageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return nil, failure("send to "+channelID, err)
	}
	return t.convertOne(channelID, m), nil
}

func (t *Transport) SendDirectMessage(ctx context.Context, userID string, msg entities.OutgoingMessage) error {
	ch, err := t.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return failure("open DM with "+userID, err)
	}
	if _, err := t.session.ChannelMessageSendComplex(ch.ID, toMessageSend(msg), discordgo.WithContext(ctx)); err != nil {
		return failure("DM "+userID, err)
	}
	return nil
}

func (t *Transport) EditEmbed(ctx context.Context, channelID, messageID string, embed entities.Embed) error {
	embeds := []*discordgo.MessageEmbed{pkgdiscord.ToMessageEmbed(embed)}
	_, err := t.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:      messageID,
		Channel: channelID,
		Embeds:  &embeds,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return failure("edit "+messageID, err)
	}
	return nil
}

func (t *Transport) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := t.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return failure("delete "+messageID, err)
	}
	return nil
}

func (t *Transport) Pin(ctx context.Context, channelID, messageID string) error {
	if err := t.session.ChannelMessagePin(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return failure("pin "+messageID, err)
	}
	return nil
}

func (t *Transport) Unpin(ctx context.Context, channelID, messageID string) error {
	if err := t.session.ChannelMessageUnpin(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return failure("unpin "+messageID, err)
	}
	return nil
}

func (t *Transport) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := t.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return failure("react "+emoji, err)
	}
	return nil
}

func (t *Transport) RemoveUserReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	if err := t.session.MessageReactionRemove(channelID, messageID, emoji, userID, discordgo.WithContext(ctx)); err != nil {
		return failure("remove "+emoji+" of "+userID, err)
	}
	return nil
}

func (t *Transport) ClearReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := t.session.MessageReactionsRemoveEmoji(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return failure("clear "+emoji, err)
	}
	return nil
}

// ReactionUsers pages through every user who reacted with emoji.
func (t *Transport) ReactionUsers(ctx context.Context, channelID, messageID, emoji string) ([]string, error) {
	var out []string
	after := ""
	for {
		users, err := t.session.MessageReactions(channelID, messageID, emoji, pageSize, "", after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, failure("reactions "+emoji, err)
		}
		for _, u := range users {
			out = append(out, u.ID)
		}
		if len(users) < pageSize {
			return out, nil
		}
		after = users[len(users)-1].ID
	}
}

func (t *Transport) convert(channelID string, msgs []*discordgo.Message) []*entities.Message {
	out := make([]*entities.Message, 0, len(msgs))
	for _, m := range msgs {
		if c := t.convertOne(channelID, m); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// convertOne converts m, filling the ids REST responses leave out.
func (t *Transport) convertOne(channelID string, m *discordgo.Message) *entities.Message {
	out := pkgdiscord.FromMessage(m)
	if out == nil {
		return nil
	}
	if out.ChannelID == "" {
		out.ChannelID = channelID
	}
	if out.GuildID == "" && t.session.State != nil {
		if ch, err := t.session.State.Channel(out.ChannelID); err == nil {
			out.GuildID = ch.GuildID
		}
	}
	return out
}

// toMessageSend allows only the mentions msg asks for.
func toMessageSend(msg entities.OutgoingMessage) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content: msg.Content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: msg.MentionUserIDs,
		},
	}
	if msg.MentionEveryone {
		send.AllowedMentions.Parse = []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeEveryone}
	}
	if msg.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{pkgdiscord.ToMessageEmbed(*msg.Embed)}
	}
	for _, f := range msg.Files {
		send.Files = append(send.Files, &discordgo.File{
			Name:        f.Name,
			ContentType: f.ContentType,
			Reader:      bytes.NewReader(f.Data),
		})
	}
	return send
}
