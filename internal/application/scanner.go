package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/domain/entities"
	"rsvpbot/internal/ports/output"
)

// ScannerConfig holds the scan loop settings.
type ScannerConfig struct {
	Interval     time.Duration
	Windows      Windows
	HistoryLimit int
	UnpinOnFinal bool
	Locale       string
}

// Scanner is the periodic lifecycle engine: it discovers event records,
// runs the stage machine on each and applies the resulting mutation.
type Scanner struct {
	transport  output.Transport
	extractor  *Extractor
	arbiter    *Arbiter
	notifier   *Notifier
	translator output.T
	metrics    output.Metrics
	logger     *slog.Logger
	cfg        ScannerConfig

	now       func() time.Time
	lastCycle atomic.Int64
}

func NewScanner(
	transport output.Transport,
	extractor *Extractor,
	arbiter *Arbiter,
	notifier *Notifier,
	translator output.T,
	metrics output.Metrics,
	logger *slog.Logger,
	cfg ScannerConfig,
) *Scanner {
	return &Scanner{
		transport:  transport,
		extractor:  extractor,
		arbiter:    arbiter,
		notifier:   notifier,
		translator: translator,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Start waits for ready to be closed, then scans immediately and on every
// interval until ctx is cancelled.
func (s *Scanner) Start(ctx context.Context, ready <-chan struct{}) {
	select {
	case <-ctx.Done():
		return
	case <-ready:
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info("🔎 Scanner démarré", "interval", s.cfg.Interval)
	for {
		s.RunCycle(ctx)
		select {
		case <-ctx.Done():
			s.logger.Info("🛑 Scanner arrêté")
			return
		case <-ticker.C:
		}
	}
}

// LastCycle is when the last scan cycle completed (zero before the first one).
func (s *Scanner) LastCycle() time.Time {
	ns := s.lastCycle.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// RunCycle performs one pass over every candidate message. Failures stay
// confined to the channel or message they happened on.
func (s *Scanner) RunCycle(ctx context.Context) {
	start := s.now()
	logger := s.logger.With("cycle", uuid.NewString())

	channels, err := s.transport.Channels(ctx)
	if err != nil {
		s.metrics.ScanFailure("channels")
		logger.Error("❌ Énumération des salons", "error", err)
	}

	scanned := 0
	for _, ch := range channels {
		if ctx.Err() != nil {
			break
		}
		for _, msg := range s.candidates(ctx, ch, logger) {
			s.processSafely(ctx, msg, logger)
			scanned++
		}
	}

	s.lastCycle.Store(s.now().UnixNano())
	s.metrics.ScanCycle(s.now().Sub(start), scanned)
	logger.Debug("Cycle terminé", "channels", len(channels), "messages", scanned)
}

// candidates returns the pinned messages of ch, plus its recent history when
// enabled, without duplicates.
func (s *Scanner) candidates(ctx context.Context, ch entities.Channel, logger *slog.Logger) []*entities.Message {
	pinned, err := s.transport.PinnedMessages(ctx, ch.ID)
	if err != nil {
		s.metrics.ScanFailure("pins")
		logger.Warn("⚠️ Messages épinglés inaccessibles", "channel", ch.ID, "error", err)
	}
	out := pinned
	if s.cfg.HistoryLimit <= 0 {
		return out
	}
	recent, err := s.transport.RecentMessages(ctx, ch.ID, s.cfg.HistoryLimit)
	if err != nil {
		s.metrics.ScanFailure("history")
		logger.Warn("⚠️ Historique inaccessible", "channel", ch.ID, "error", err)
		return out
	}
	seen := make(map[string]struct{}, len(out))
	for _, m := range out {
		seen[m.ID] = struct{}{}
	}
	for _, m := range recent {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

func (s *Scanner) processSafely(ctx context.Context, msg *entities.Message, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.ScanFailure("panic")
			logger.Error("💥 Panique pendant le traitement d'un message", "message", msg.ID, "panic", r)
		}
	}()
	if _, err := s.process(ctx, msg); err != nil {
		reason := "transport"
		if errors.Is(err, domain.ErrMalformedEventRecord) {
			reason = "malformed"
		}
		s.metrics.ScanFailure(reason)
		logger.Warn("⚠️ Message ignoré", "message", msg.ID, "channel", msg.ChannelID, "error", err)
	}
}

// process runs Extract -> Sweep -> Decide -> apply on one message and returns
// the decision taken (ActionNone when msg is not a live event).
func (s *Scanner) process(ctx context.Context, msg *entities.Message) (Decision, error) {
	rec, err := s.extractor.Extract(msg, s.transport.BotUserID())
	if err != nil || rec == nil {
		return Decision{}, err
	}
	if err := s.arbiter.Sweep(ctx, msg); err != nil {
		s.logger.Debug("Nettoyage des réactions incomplet", "message", msg.ID, "error", err)
	}
	embed, _ := msg.FirstEmbed()
	d := Decide(*rec, s.now(), s.cfg.Windows)
	if d.Action == ActionNone {
		return d, nil
	}
	return d, s.apply(ctx, *rec, embed, d)
}

// apply commits the stage marker first and only then notifies. The marker is
// the deduplication token: once written the milestone is never sent again,
// even if the notification below fails.
func (s *Scanner) apply(ctx context.Context, rec entities.EventRecord, embed entities.Embed, d Decision) error {
	footer := s.translator.T(s.cfg.Locale, "record.footer."+d.Next.String(), nil)
	if err := s.transport.EditEmbed(ctx, rec.ChannelID, rec.MessageID, withStage(embed, d.Next, footer)); err != nil {
		return fmt.Errorf("write stage %s: %w", d.Next, err)
	}
	s.logger.Info("🔔 Jalon atteint", "message", rec.MessageID, "title", rec.Title, "stage", d.Next.String(), "remaining", d.Remaining.Truncate(time.Second))

	var errs []error
	if err := s.notifier.Notify(ctx, rec, d); err != nil {
		errs = append(errs, err)
	}
	if d.Next == entities.StageFinalSent && s.cfg.UnpinOnFinal {
		if err := s.transport.Unpin(ctx, rec.ChannelID, rec.MessageID); err != nil {
			errs = append(errs, fmt.Errorf("unpin: %w", err))
		}
	}
	return errors.Join(errs...)
}

// SendNotice runs an immediate check on one message. It returns the stage the
// record advanced to, or domain.ErrNotFutureEvent when nothing was actionable.
func (s *Scanner) SendNotice(ctx context.Context, channelID, messageID string) (entities.Stage, error) {
	msg, err := s.transport.Message(ctx, channelID, messageID)
	if err != nil {
		return 0, fmt.Errorf("fetch message %s: %w", messageID, err)
	}
	d, err := s.process(ctx, msg)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedEventRecord) {
			return 0, fmt.Errorf("%w: %w", domain.ErrNotFutureEvent, err)
		}
		return 0, err
	}
	if d.Action == ActionNone {
		return 0, domain.ErrNotFutureEvent
	}
	return d.Next, nil
}
