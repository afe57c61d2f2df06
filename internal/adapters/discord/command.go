package discord

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/domain/entities"
	pkgdiscord "rsvpbot/pkg/discord"
)

const (
	cmdCreateEvent = "create_event"
	cmdSendNotice  = "send_notice"
	optionLink     = "link"

	noticeTimeout = 30 * time.Second
)

// Commands returns the slash commands the bot registers.
func (h *Handler) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: cmdCreateEvent, Description: h.t("command.create_event.help", nil)},
		{
			Name:        cmdSendNotice,
			Description: h.t("command.send_notice.help", nil),
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionLink,
				Description: h.t("command.send_notice.link_help", nil),
				Required:    true,
			}},
		},
	}
}

// HandleInteraction dispatches slash commands.
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	switch i.ApplicationCommandData().Name {
	case cmdCreateEvent:
		h.handleCreateEventCommand(s, i)
	case cmdSendNotice:
		h.handleSendNoticeCommand(s, i)
	}
}

func (h *Handler) handleCreateEventCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil || i.GuildID == "" {
		return
	}
	h.respondEphemeral(s, i.Interaction, h.t("wizard.started", nil))

	link, err := h.runWizard(entities.WizardRequest{GuildID: i.GuildID, ChannelID: i.ChannelID, UserID: user.ID})
	switch {
	case err == nil:
		h.followupEphemeral(s, i.Interaction, h.t("wizard.created", map[string]any{"Link": link}))
	case !errors.Is(err, domain.ErrAbandonedDialogue):
		h.followupEphemeral(s, i.Interaction, h.errorText(err))
	}
}

func (h *Handler) handleSendNoticeCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var link string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == optionLink {
			link = opt.StringValue()
		}
	}
	h.deferEphemeral(s, i.Interaction)
	h.editResponse(s, i.Interaction, h.sendNotice(i.GuildID, link))
}

// runWizard runs one creation dialogue under the configured deadline.
func (h *Handler) runWizard(req entities.WizardRequest) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), h.wizardTimeout)
	defer cancel()

	rec, err := h.wizard.Run(ctx, req)
	if err != nil {
		h.logger.Info("📝 Dialogue de création terminé sans événement", "channel", req.ChannelID, "user", req.UserID, "error", err)
		return "", err
	}
	return pkgdiscord.MessageLink(rec.GuildID, rec.ChannelID, rec.MessageID), nil
}

// sendNotice resolves link and forces a stage check; it returns the reply text.
func (h *Handler) sendNotice(guildID, link string) string {
	ref, err := pkgdiscord.ParseMessageLink(link)
	if err == nil && guildID != "" && ref.GuildID != guildID {
		err = domain.ErrInvalidMessageLink
	}
	if err != nil {
		return h.errorText(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), noticeTimeout)
	defer cancel()
	stage, err := h.notices.SendNotice(ctx, ref.ChannelID, ref.MessageID)
	if err != nil {
		h.logger.Info("send_notice sans effet", "message", ref.MessageID, "error", err)
		return h.errorText(err)
	}
	return h.t("notice.sent", map[string]any{"Stage": h.t("record.footer."+stage.String(), nil)})
}

func (h *Handler) errorText(err error) string {
	return "❌ " + h.t(pkgdiscord.ErrorMessageKey(err), nil)
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
