package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"rsvpbot/internal/domain/entities"
)

const reactionTimeout = 30 * time.Second

// HandleReactionAdd forwards RSVP reactions to the arbiter.
func (h *Handler) HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), reactionTimeout)
	defer cancel()

	if err := h.reactions.HandleReactionAdd(ctx, reactionEvent(r.MessageReaction)); err != nil {
		h.logger.Warn("⚠️ Arbitrage des réactions", "channel", r.ChannelID, "message", r.MessageID, "user", r.UserID, "error", err)
	}
}

func reactionEvent(r *discordgo.MessageReaction) entities.ReactionEvent {
	ev := entities.ReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
	}
	ev.Emoji = r.Emoji.APIName()
	return ev
}
