package input_test

import (
	"rsvpbot/internal/application"
	"rsvpbot/internal/ports/input"
)

var (
	_ input.NoticeUseCase   = (*application.Scanner)(nil)
	_ input.WizardUseCase   = (*application.Wizard)(nil)
	_ input.DialogueRouter  = (*application.Dialogues)(nil)
	_ input.ReactionUseCase = (*application.Arbiter)(nil)
)
