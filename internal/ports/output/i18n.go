package output

// T renders user-facing text: wizard prompts, reminders, record footers and
// error replies. Implementations fall back to the default locale, then to
// the key itself.
type T interface {
	T(locale, key string, data map[string]any) string
}
