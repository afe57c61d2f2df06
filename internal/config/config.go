package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"rsvpbot/pkg/tz"
)

type Config struct {
	Token         string
	GuildID       string
	CommandPrefix string

	ScanInterval     time.Duration
	AlarmWindow      time.Duration
	FinalWindow      time.Duration
	WizardTimeout    time.Duration
	ScanHistoryLimit int

	Timezone     string
	Location     *time.Location
	Locale       string
	AskAudience  bool
	NotifyDirect bool
	UnpinOnFinal bool

	OpsAddr  string
	LogLevel slog.Level
}

// Load charge la configuration depuis les variables d'environnement et la valide.
// envFiles, s'ils sont fournis, remplacent le .env par défaut.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("config: lecture de %v impossible: %w", envFiles, err)
		}
	} else {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
		_ = godotenv.Load()
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup construit la configuration à partir d'une fonction de lecture
// des variables (os.LookupEnv en production).
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}
	cfg := &Config{
		Token:            r.str("TOKEN", ""),
		GuildID:          r.str("GUILD_ID", ""),
		CommandPrefix:    r.str("COMMAND_PREFIX", "!"),
		ScanInterval:     r.duration("SCAN_INTERVAL", 15*time.Second),
		AlarmWindow:      r.duration("ALARM_WINDOW", 915*time.Second),
		FinalWindow:      r.duration("FINAL_WINDOW", 20*time.Second),
		WizardTimeout:    r.duration("WIZARD_TIMEOUT", 5*time.Minute),
		ScanHistoryLimit: r.integer("SCAN_HISTORY_LIMIT", 0),
		Timezone:         r.str("TIMEZONE", ""),
		Locale:           r.str("LOCALE", "en"),
		AskAudience:      r.boolean("ASK_AUDIENCE", true),
		NotifyDirect:     r.boolean("NOTIFY_DIRECT", false),
		UnpinOnFinal:     r.boolean("UNPIN_ON_FINAL", false),
		OpsAddr:          r.str("OPS_ADDR", ":8080"),
	}
	level := r.str("LOG_LEVEL", "info")
	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL invalide (%q)", level)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate applique toutes les règles métier sur la configuration chargée.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN est requis et ne peut pas être vide")
	}

	for _, r := range c.GuildID {
		if r < '0' || r > '9' {
			return fmt.Errorf("config: GUILD_ID doit être un ID de serveur Discord (chiffres uniquement)")
		}
	}

	if strings.TrimSpace(c.CommandPrefix) == "" {
		return fmt.Errorf("config: COMMAND_PREFIX ne peut pas être vide")
	}

	if c.ScanInterval <= 0 {
		return fmt.Errorf("config: SCAN_INTERVAL doit être positif")
	}
	if c.FinalWindow <= 0 || c.AlarmWindow <= c.FinalWindow {
		return fmt.Errorf("config: il faut 0 < FINAL_WINDOW (%s) < ALARM_WINDOW (%s)", c.FinalWindow, c.AlarmWindow)
	}
	if c.AlarmWindow >= 24*time.Hour {
		return fmt.Errorf("config: ALARM_WINDOW doit être inférieur à 24h")
	}
	if c.WizardTimeout <= 0 {
		return fmt.Errorf("config: WIZARD_TIMEOUT doit être positif")
	}
	if c.ScanHistoryLimit < 0 {
		return fmt.Errorf("config: SCAN_HISTORY_LIMIT ne peut pas être négatif")
	}

	loc, err := tz.Load(c.Timezone)
	if err != nil {
		return fmt.Errorf("config: TIMEZONE invalide (%q): %w", c.Timezone, err)
	}
	c.Location = loc

	return nil
}

// reader garde la première erreur de conversion rencontrée.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) raw(key string) (string, bool) {
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *reader) str(key, def string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return def
}

func (r *reader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("config: %s invalide (%q): %w", key, value, err)
	}
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Nombre nu = secondes.
		n, nerr := strconv.Atoi(v)
		if nerr != nil {
			r.fail(key, v, err)
			return def
		}
		d = time.Duration(n) * time.Second
	}
	return d
}

func (r *reader) integer(key string, def int) int {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *reader) boolean(key string, def bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}
