package domain

import "errors"

// Domain errors.
var (
	ErrInvalidFormat        = errors.New("format de date invalide (attendu MM/DD/YY HH:MM)")
	ErrMalformedEventRecord = errors.New("événement mal formé : champ WHEN illisible")
	ErrTransportFailure     = errors.New("échec de l'appel à la plateforme")
	ErrAbandonedDialogue    = errors.New("dialogue abandonné")
	ErrDialogueInProgress   = errors.New("un dialogue est déjà en cours")
	ErrNotFutureEvent       = errors.New("ce message n'est pas un événement à venir")
	ErrInvalidMessageLink   = errors.New("lien de message invalide")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidFormat, "invalid_format"},
	{ErrMalformedEventRecord, "malformed_event_record"},
	{ErrTransportFailure, "transport_failure"},
	{ErrAbandonedDialogue, "abandoned_dialogue"},
	{ErrDialogueInProgress, "dialogue_in_progress"},
	{ErrNotFutureEvent, "not_future_event"},
	{ErrInvalidMessageLink, "invalid_message_link"},
}

// Code returns the stable code of the first domain error found in err's chain,
// or "" when err is not a domain error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}
