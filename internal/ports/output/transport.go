package output

import (
	"context"

	"rsvpbot/internal/domain/entities"
)

// Transport is the messaging-platform collaborator. Every method is a single
// outbound call; failures are wrapped around domain.ErrTransportFailure.
type Transport interface {
	// BotUserID is the id of the account the bot runs as.
	BotUserID() string

	// Channels enumerates the text channels of every reachable guild.
	Channels(ctx context.Context) ([]entities.Channel, error)
	PinnedMessages(ctx context.Context, channelID string) ([]*entities.Message, error)
	RecentMessages(ctx context.Context, channelID string, limit int) ([]*entities.Message, error)
	Message(ctx context.Context, channelID, messageID string) (*entities.Message, error)

	SendMessage(ctx context.Context, channelID string, msg entities.OutgoingMessage) (*entities.Message, error)
	SendDirectMessage(ctx context.Context, userID string, msg entities.OutgoingMessage) error
	EditEmbed(ctx context.Context, channelID, messageID string, embed entities.Embed) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	Pin(ctx context.Context, channelID, messageID string) error
	Unpin(ctx context.Context, channelID, messageID string) error

	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	RemoveUserReaction(ctx context.Context, channelID, messageID, emoji, userID string) error
	// ClearReaction removes every user's reaction of one emoji.
	ClearReaction(ctx context.Context, channelID, messageID, emoji string) error
	ReactionUsers(ctx context.Context, channelID, messageID, emoji string) ([]string, error)
}
