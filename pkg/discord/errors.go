package discord

import "rsvpbot/internal/domain"

// ErrorMessageKey maps an error to the i18n key of its user-facing message.
// Domain errors resolve to "errors.<code>", everything else to "errors.generic".
func ErrorMessageKey(err error) string {
	if err == nil {
		return ""
	}
	if code := domain.Code(err); code != "" {
		return "errors." + code
	}
	return "errors.generic"
}
