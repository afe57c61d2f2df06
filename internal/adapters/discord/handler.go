package discord

import (
	"log/slog"
	"sync"
	"time"

	"rsvpbot/internal/ports/input"
	"rsvpbot/internal/ports/output"
)

// Handler handles Discord events using use cases.
type Handler struct {
	notices    input.NoticeUseCase
	wizard     input.WizardUseCase
	dialogues  input.DialogueRouter
	reactions  input.ReactionUseCase
	translator output.T
	locale     string
	prefix     string
	// wizardTimeout bounds a whole creation dialogue.
	wizardTimeout time.Duration
	logger        *slog.Logger

	ready     chan struct{}
	readyOnce sync.Once
}

// HandlerConfig carries the adapter settings of a Handler.
type HandlerConfig struct {
	Locale        string
	Prefix        string
	WizardTimeout time.Duration
}

// NewHandler creates a Handler.
func NewHandler(
	notices input.NoticeUseCase,
	wizard input.WizardUseCase,
	dialogues input.DialogueRouter,
	reactions input.ReactionUseCase,
	translator output.T,
	cfg HandlerConfig,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		notices:       notices,
		wizard:        wizard,
		dialogues:     dialogues,
		reactions:     reactions,
		translator:    translator,
		locale:        cfg.Locale,
		prefix:        cfg.Prefix,
		wizardTimeout: cfg.WizardTimeout,
		logger:        logger,
		ready:         make(chan struct{}),
	}
}

// Ready is closed once the gateway session is ready.
func (h *Handler) Ready() <-chan struct{} {
	return h.ready
}

func (h *Handler) markReady() {
	h.readyOnce.Do(func() { close(h.ready) })
}

func (h *Handler) t(key string, data map[string]any) string {
	return h.translator.T(h.locale, key, data)
}
