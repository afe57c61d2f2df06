package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rsvpbot/internal/domain/entities"
	"rsvpbot/internal/ports/output"
	pkgdiscord "rsvpbot/pkg/discord"
)

// Payload is a resolved reminder: who it goes to and what it says.
type Payload struct {
	Broadcast  bool
	Recipients []string
	Content    string
}

// Notifier builds and delivers milestone reminders.
type Notifier struct {
	transport  output.Transport
	translator output.T
	locale     string
	direct     bool
	metrics    output.Metrics
	logger     *slog.Logger
}

// NewNotifier creates a Notifier. With direct set, RSVP-only reminders go to
// each attendee by direct message instead of one combined channel message.
func NewNotifier(transport output.Transport, translator output.T, locale string, direct bool, metrics output.Metrics, logger *slog.Logger) *Notifier {
	return &Notifier{
		transport:  transport,
		translator: translator,
		locale:     locale,
		direct:     direct,
		metrics:    metrics,
		logger:     logger,
	}
}

// Attendees returns the users holding ACCEPTED or TENTATIVE on rec, in
// first-seen order, without the bot's own seed reactions.
func (n *Notifier) Attendees(ctx context.Context, rec entities.EventRecord) ([]string, error) {
	botID := n.transport.BotUserID()
	seen := make(map[string]struct{})
	var out []string
	for _, r := range []entities.RSVP{entities.RSVPAccepted, entities.RSVPTentative} {
		users, err := n.transport.ReactionUsers(ctx, rec.ChannelID, rec.MessageID, r.Emoji())
		if err != nil {
			return nil, fmt.Errorf("list %s reactions: %w", r.Emoji(), err)
		}
		for _, u := range users {
			if u == botID {
				continue
			}
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}
	return out, nil
}

// BuildPayload resolves the audience of a reminder and renders its text.
func (n *Notifier) BuildPayload(ctx context.Context, rec entities.EventRecord, d Decision) (Payload, error) {
	if rec.Audience == entities.AudienceEveryone {
		return Payload{Broadcast: true, Content: n.render(rec, d, "@everyone")}, nil
	}
	users, err := n.Attendees(ctx, rec)
	if err != nil {
		return Payload{}, err
	}
	mentions := make([]string, len(users))
	for i, u := range users {
		mentions[i] = fmt.Sprintf("<@%s>", u)
	}
	return Payload{Recipients: users, Content: n.render(rec, d, strings.Join(mentions, " "))}, nil
}

func (n *Notifier) render(rec entities.EventRecord, d Decision, mention string) string {
	data := map[string]any{
		"Mention": mention,
		"Title":   rec.Title,
		"Link":    pkgdiscord.MessageLink(rec.GuildID, rec.ChannelID, rec.MessageID),
	}
	key := "notify.final"
	if d.Action == ActionAlarm {
		key = "notify.alarm"
		remaining := pkgdiscord.Humanize(d.Remaining)
		if remaining == "" {
			remaining = n.translator.T(n.locale, "notify.under_a_minute", nil)
		}
		data["Remaining"] = remaining
	}
	return strings.TrimSpace(n.translator.T(n.locale, key, data))
}

// Notify sends the reminder for d. RSVP-only records without attendees send
// nothing.
func (n *Notifier) Notify(ctx context.Context, rec entities.EventRecord, d Decision) error {
	if d.Action == ActionNone {
		return nil
	}
	p, err := n.BuildPayload(ctx, rec, d)
	if err != nil {
		return err
	}
	switch {
	case p.Broadcast:
		_, err = n.transport.SendMessage(ctx, rec.ChannelID, entities.OutgoingMessage{Content: p.Content, MentionEveryone: true})
	case len(p.Recipients) == 0:
		n.logger.Info("🔕 Aucun participant à prévenir", "message", rec.MessageID, "stage", d.Next.String())
		return nil
	case n.direct:
		var errs []error
		for _, u := range p.Recipients {
			if dmErr := n.transport.SendDirectMessage(ctx, u, entities.OutgoingMessage{Content: p.Content}); dmErr != nil {
				errs = append(errs, fmt.Errorf("dm %s: %w", u, dmErr))
			}
		}
		err = errors.Join(errs...)
	default:
		_, err = n.transport.SendMessage(ctx, rec.ChannelID, entities.OutgoingMessage{Content: p.Content, MentionUserIDs: p.Recipients})
	}
	if err != nil {
		return fmt.Errorf("send %s notification: %w", d.Action, err)
	}
	n.metrics.NotificationSent(d.Next.String())
	return nil
}
