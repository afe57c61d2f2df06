package discord

import (
	"rsvpbot/internal/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// ToMessageEmbed converts the core's embed into a discordgo embed.
func ToMessageEmbed(e entities.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if e.FooterText != "" || e.FooterIconURL != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.FooterText, IconURL: e.FooterIconURL}
	}
	return out
}

// FromMessageEmbed converts a discordgo embed into the core's embed.
func FromMessageEmbed(e *discordgo.MessageEmbed) entities.Embed {
	if e == nil {
		return entities.Embed{}
	}
	out := entities.Embed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		if f == nil {
			continue
		}
		out.Fields = append(out.Fields, entities.EmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if e.Footer != nil {
		out.FooterText = e.Footer.Text
		out.FooterIconURL = e.Footer.IconURL
	}
	return out
}

// FromMessage converts a discordgo message. It returns nil for a nil message.
func FromMessage(m *discordgo.Message) *entities.Message {
	if m == nil {
		return nil
	}
	out := &entities.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
		Pinned:    m.Pinned,
	}
	if m.Author != nil {
		out.AuthorID = m.Author.ID
	}
	for _, e := range m.Embeds {
		out.Embeds = append(out.Embeds, FromMessageEmbed(e))
	}
	for _, r := range m.Reactions {
		if r == nil || r.Emoji == nil {
			continue
		}
		out.Reactions = append(out.Reactions, entities.ReactionGroup{
			Emoji: r.Emoji.APIName(),
			Count: r.Count,
			Me:    r.Me,
		})
	}
	return out
}
