package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsMessageContent |
	discordgo.IntentsDirectMessages

// NewSession creates the discordgo session the transport and the bot share.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création de la session Discord: %w", err)
	}
	s.Identify.Intents = intents
	s.SyncEvents = false
	s.StateEnabled = true
	return s, nil
}

// Bot is the Discord adapter: gateway session plus event handlers.
type Bot struct {
	session *discordgo.Session
	handler *Handler
	guildID string
	logger  *slog.Logger
}

// NewBot wires handler onto session. Slash commands are registered in
// guildID, or globally when it is empty.
func NewBot(session *discordgo.Session, handler *Handler, guildID string, logger *slog.Logger) *Bot {
	bot := &Bot{
		session: session,
		handler: handler,
		guildID: guildID,
		logger:  logger,
	}
	bot.setupHandlers()
	return bot
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handler.HandleInteraction)
	b.session.AddHandler(b.handler.HandleMessageCreate)
	b.session.AddHandler(b.handler.HandleReactionAdd)
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("🤖 Bot en ligne", "user", r.User.Username, "guilds", len(r.Guilds))
	b.handler.markReady()
}

// Ready is closed once the gateway session is ready.
func (b *Bot) Ready() <-chan struct{} {
	return b.handler.Ready()
}

// Start opens the session, registers the commands and runs until ctx ends.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("erreur lors de l'ouverture de la session: %w", err)
	}
	defer b.session.Close()

	for _, cmd := range b.handler.Commands() {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, cmd); err != nil {
			b.logger.Warn("⚠️ Erreur lors de l'enregistrement de la commande", "command", cmd.Name, "error", err)
		}
	}

	<-ctx.Done()
	b.logger.Info("👋 Fermeture de la session Discord")
	return nil
}
