package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"rsvpbot/internal/domain/entities"
	"rsvpbot/internal/ports/output"
	pkgdiscord "rsvpbot/pkg/discord"
)

type wizardState int

const (
	stateAwaitName wizardState = iota
	stateAwaitDescription
	stateAwaitTime
	stateAwaitScope
	stateDone
)

// Wizard runs the event creation dialogue.
type Wizard struct {
	transport   output.Transport
	dialogues   *Dialogues
	calendar    output.CalendarEncoder
	translator  output.T
	locale      string
	loc         *time.Location
	askAudience bool
	metrics     output.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

func NewWizard(
	transport output.Transport,
	dialogues *Dialogues,
	calendar output.CalendarEncoder,
	translator output.T,
	locale string,
	loc *time.Location,
	askAudience bool,
	metrics output.Metrics,
	logger *slog.Logger,
) *Wizard {
	return &Wizard{
		transport:   transport,
		dialogues:   dialogues,
		calendar:    calendar,
		translator:  translator,
		locale:      locale,
		loc:         loc,
		askAudience: askAudience,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// dialogue is the partial state of one run.
type dialogue struct {
	req   entities.WizardRequest
	sub   *Subscription
	rec   entities.EventRecord
	trail []string
}

// Run asks for name, description, time and (optionally) audience, then posts
// the record, pins it and seeds the three RSVP reactions. Waiting ends when
// ctx does; the dialogue is then abandoned and nothing is created.
func (w *Wizard) Run(ctx context.Context, req entities.WizardRequest) (*entities.EventRecord, error) {
	sub, err := w.dialogues.Open(req.ChannelID, req.UserID)
	if err != nil {
		return nil, err
	}
	defer sub.Close()

	d := &dialogue{
		req: req,
		sub: sub,
		rec: entities.EventRecord{
			GuildID:   req.GuildID,
			ChannelID: req.ChannelID,
			Audience:  entities.AudienceEveryone,
			Stage:     entities.StageCreated,
		},
	}
	if req.TriggerMessageID != "" {
		d.trail = append(d.trail, req.TriggerMessageID)
	}
	logger := w.logger.With("dialogue", sub.ID, "channel", req.ChannelID, "user", req.UserID)

	state := stateAwaitName
	for state != stateDone {
		switch state {
		case stateAwaitName:
			d.rec.Title, err = w.ask(ctx, d, "wizard.ask_name", acceptText)
			state = stateAwaitDescription
		case stateAwaitDescription:
			d.rec.Description, err = w.ask(ctx, d, "wizard.ask_description", acceptText)
			state = stateAwaitTime
		case stateAwaitTime:
			var reply string
			reply, err = w.ask(ctx, d, "wizard.ask_time", w.acceptTime)
			if err == nil {
				d.rec.ScheduledAt, _ = pkgdiscord.ParseEventTime(reply, w.loc)
			}
			state = stateAwaitScope
			if !w.askAudience {
				state = stateDone
			}
		case stateAwaitScope:
			var reply string
			reply, err = w.ask(ctx, d, "wizard.ask_scope", acceptYesNo)
			if err == nil && isYes(reply) {
				d.rec.Audience = entities.AudienceRSVPOnly
			}
			state = stateDone
		}
		if err != nil {
			logger.Info("⌛ Création d'événement abandonnée", "error", err)
			w.cleanup(d, logger)
			w.metrics.Dialogue("abandoned")
			return nil, err
		}
	}

	if err := w.publish(ctx, d, logger); err != nil {
		w.metrics.Dialogue("failed")
		return nil, err
	}
	w.cleanup(d, logger)
	w.metrics.Dialogue("completed")
	logger.Info("📅 Événement créé", "message", d.rec.MessageID, "title", d.rec.Title, "when", d.rec.ScheduledAt)
	return &d.rec, nil
}

// ask posts a prompt and waits for the first reply accept approves. Rejected
// replies are not answers: the wait simply continues.
func (w *Wizard) ask(ctx context.Context, d *dialogue, key string, accept func(string) bool) (string, error) {
	prompt, err := w.transport.SendMessage(ctx, d.req.ChannelID, entities.OutgoingMessage{
		Content: w.translator.T(w.locale, key, map[string]any{"Mention": "<@" + d.req.UserID + ">"}),
	})
	if err != nil {
		return "", err
	}
	d.trail = append(d.trail, prompt.ID)
	for {
		reply, err := d.sub.Next(ctx)
		if err != nil {
			return "", err
		}
		d.trail = append(d.trail, reply.ID)
		text := strings.TrimSpace(reply.Content)
		if accept(text) {
			return text, nil
		}
	}
}

func (w *Wizard) publish(ctx context.Context, d *dialogue, logger *slog.Logger) error {
	out := entities.OutgoingMessage{
		Embed: ptr(renderEventEmbed(d.rec, w.loc, w.translator.T(w.locale, "record.footer."+d.rec.Stage.String(), nil))),
	}
	if w.calendar != nil {
		if file, err := w.calendar.Encode(d.rec); err != nil {
			logger.Warn("⚠️ Fichier calendrier non généré", "error", err)
		} else {
			out.Files = append(out.Files, file)
		}
	}
	// The record must survive the end of the dialogue.
	ctx = context.WithoutCancel(ctx)
	msg, err := w.transport.SendMessage(ctx, d.req.ChannelID, out)
	if err != nil {
		logger.Error("❌ Publication de l'événement", "error", err)
		w.cleanup(d, logger)
		return err
	}
	d.rec.MessageID = msg.ID
	if err := w.transport.Pin(ctx, d.req.ChannelID, msg.ID); err != nil {
		logger.Warn("⚠️ Épinglage de l'événement", "message", msg.ID, "error", err)
	}
	for _, emoji := range entities.RSVPEmojis {
		if err := w.transport.AddReaction(ctx, d.req.ChannelID, msg.ID, emoji); err != nil {
			logger.Warn("⚠️ Ajout de la réaction", "message", msg.ID, "emoji", emoji, "error", err)
		}
	}
	return nil
}

// cleanup deletes prompts and replies. It runs detached from the dialogue's
// context, which is usually already done.
func (w *Wizard) cleanup(d *dialogue, logger *slog.Logger) {
	ctx := context.Background()
	for _, id := range d.trail {
		if err := w.transport.DeleteMessage(ctx, d.req.ChannelID, id); err != nil {
			logger.Debug("Suppression du message de dialogue", "message", id, "error", err)
		}
	}
	d.trail = nil
}

// acceptTime takes only times that parse and are still ahead.
func (w *Wizard) acceptTime(text string) bool {
	at, err := pkgdiscord.ParseEventTime(text, w.loc)
	return err == nil && at.After(w.now())
}

func acceptText(text string) bool {
	return text != ""
}

var (
	yesAnswers = []string{"y", "yes", "o", "oui"}
	noAnswers  = []string{"n", "no", "non"}
)

func acceptYesNo(text string) bool {
	return isYes(text) || isNo(text)
}

func isYes(text string) bool {
	return containsFold(yesAnswers, text)
}

func isNo(text string) bool {
	return containsFold(noAnswers, text)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T {
	return &v
}
