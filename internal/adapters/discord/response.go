package discord

import (
	"github.com/bwmarrin/discordgo"
)

func (h *Handler) respondEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) {
	if err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		h.logger.Warn("⚠️ Réponse à l'interaction", "error", err)
	}
}

func (h *Handler) deferEphemeral(s *discordgo.Session, i *discordgo.Interaction) {
	if err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		h.logger.Warn("⚠️ Réponse différée à l'interaction", "error", err)
	}
}

func (h *Handler) editResponse(s *discordgo.Session, i *discordgo.Interaction, content string) {
	if _, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content}); err != nil {
		h.logger.Warn("⚠️ Modification de la réponse", "error", err)
	}
}

func (h *Handler) followupEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) {
	if _, err := s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		h.logger.Warn("⚠️ Message de suivi", "error", err)
	}
}

// reply posts content in channelID without pinging anyone.
func (h *Handler) reply(s *discordgo.Session, channelID, content string) {
	if _, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:         content,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}); err != nil {
		h.logger.Warn("⚠️ Réponse dans le salon", "channel", channelID, "error", err)
	}
}
