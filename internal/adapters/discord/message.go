package discord

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/domain/entities"
	pkgdiscord "rsvpbot/pkg/discord"
)

// HandleMessageCreate offers the message to open dialogues first; only
// messages no dialogue consumed are read as prefix commands.
func (h *Handler) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil || m.Author.Bot {
		return
	}
	if h.dialogues.Deliver(pkgdiscord.FromMessage(m.Message)) {
		return
	}
	if m.GuildID == "" {
		return
	}

	name, arg, ok := h.parseCommand(m.Content)
	if !ok {
		return
	}
	switch name {
	case cmdCreateEvent:
		_, err := h.runWizard(entities.WizardRequest{
			GuildID:          m.GuildID,
			ChannelID:        m.ChannelID,
			UserID:           m.Author.ID,
			TriggerMessageID: m.ID,
		})
		if err != nil && !errors.Is(err, domain.ErrAbandonedDialogue) {
			h.reply(s, m.ChannelID, h.errorText(err))
		}
	case cmdSendNotice:
		h.reply(s, m.ChannelID, h.sendNotice(m.GuildID, arg))
	}
}

// parseCommand splits "<prefix>name rest" into name and rest.
func (h *Handler) parseCommand(content string) (name, arg string, ok bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, h.prefix) {
		return "", "", false
	}
	fields := strings.Fields(strings.TrimPrefix(content, h.prefix))
	if len(fields) == 0 {
		return "", "", false
	}
	return strings.ToLower(fields[0]), strings.Join(fields[1:], " "), true
}
