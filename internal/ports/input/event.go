package input

import (
	"context"

	"rsvpbot/internal/domain/entities"
)

// NoticeUseCase forces an immediate stage check on one record.
type NoticeUseCase interface {
	SendNotice(ctx context.Context, channelID, messageID string) (entities.Stage, error)
}

// WizardUseCase runs the event creation dialogue.
type WizardUseCase interface {
	Run(ctx context.Context, req entities.WizardRequest) (*entities.EventRecord, error)
}

// DialogueRouter offers inbound messages to open dialogues.
type DialogueRouter interface {
	Deliver(msg *entities.Message) bool
}
