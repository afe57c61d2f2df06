package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"rsvpbot/internal/domain/entities"
	"rsvpbot/internal/ports/output"
)

// Arbiter keeps the reactions of event records clean: one RSVP symbol per
// user, and nothing but RSVP symbols.
type Arbiter struct {
	transport output.Transport
	metrics   output.Metrics
	logger    *slog.Logger
}

func NewArbiter(transport output.Transport, metrics output.Metrics, logger *slog.Logger) *Arbiter {
	return &Arbiter{transport: transport, metrics: metrics, logger: logger}
}

// HandleReactionAdd enforces single-choice for ev.UserID after they added an
// RSVP symbol, then clears foreign reaction groups. Foreign symbols themselves
// trigger nothing here; they go at the next pass or sweep.
func (a *Arbiter) HandleReactionAdd(ctx context.Context, ev entities.ReactionEvent) error {
	botID := a.transport.BotUserID()
	if ev.UserID == botID {
		return nil
	}
	added, ok := entities.RSVPFromEmoji(ev.Emoji)
	if !ok {
		return nil
	}
	msg, err := a.transport.Message(ctx, ev.ChannelID, ev.MessageID)
	if err != nil {
		return fmt.Errorf("fetch message %s: %w", ev.MessageID, err)
	}
	if !IsEventMessage(msg, botID) {
		return nil
	}

	var errs []error
	for _, g := range msg.Reactions {
		other, ok := entities.RSVPFromEmoji(g.Emoji)
		if !ok || other == added || userVotes(g) == 0 {
			continue
		}
		users, err := a.transport.ReactionUsers(ctx, msg.ChannelID, msg.ID, g.Emoji)
		if err != nil {
			errs = append(errs, fmt.Errorf("list %s reactions: %w", g.Emoji, err))
			continue
		}
		if !slices.Contains(users, ev.UserID) {
			continue
		}
		if err := a.transport.RemoveUserReaction(ctx, msg.ChannelID, msg.ID, g.Emoji, ev.UserID); err != nil {
			errs = append(errs, fmt.Errorf("remove %s of %s: %w", g.Emoji, ev.UserID, err))
			continue
		}
		a.metrics.ReactionRemoved("duplicate")
		a.logger.Debug("🔁 Réaction RSVP remplacée", "message", msg.ID, "user", ev.UserID, "removed", g.Emoji, "kept", ev.Emoji)
	}
	errs = append(errs, a.clearForeign(ctx, msg)...)
	return errors.Join(errs...)
}

// Sweep clears every non-RSVP reaction group from an event record.
func (a *Arbiter) Sweep(ctx context.Context, msg *entities.Message) error {
	return errors.Join(a.clearForeign(ctx, msg)...)
}

func (a *Arbiter) clearForeign(ctx context.Context, msg *entities.Message) []error {
	var errs []error
	for _, g := range msg.Reactions {
		if entities.IsRSVPEmoji(g.Emoji) {
			continue
		}
		if err := a.transport.ClearReaction(ctx, msg.ChannelID, msg.ID, g.Emoji); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", g.Emoji, err))
			continue
		}
		a.metrics.ReactionRemoved("foreign")
	}
	return errs
}

// userVotes is the number of reactors in g other than the bot.
func userVotes(g entities.ReactionGroup) int {
	if g.Me {
		return g.Count - 1
	}
	return g.Count
}
