package entities

// WizardRequest identifies who started an event creation dialogue and where.
// TriggerMessageID, when set, is deleted with the prompts.
type WizardRequest struct {
	GuildID          string
	ChannelID        string
	UserID           string
	TriggerMessageID string
}
