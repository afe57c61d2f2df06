package input

import (
	"context"

	"rsvpbot/internal/domain/entities"
)

type ReactionUseCase interface {
	HandleReactionAdd(ctx context.Context, ev entities.ReactionEvent) error
}
