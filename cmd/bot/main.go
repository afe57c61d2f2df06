package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"rsvpbot/internal/adapters/discord"
	"rsvpbot/internal/application"
	"rsvpbot/internal/config"
	"rsvpbot/internal/infrastructure/calendar"
	"rsvpbot/internal/infrastructure/httpserver"
	"rsvpbot/internal/infrastructure/i18n"
	"rsvpbot/internal/infrastructure/metrics"
)

func main() {
	app := &cli.App{
		Name:  "rsvpbot",
		Usage: "Discord event scheduling with RSVP reactions and reminders.",
		Commands: []*cli.Command{
			runCommand(),
		},
		DefaultCommand: "run",
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("❌ Arrêt du bot sur erreur", "error", err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Connect to Discord and run the scanner until interrupted.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "Load variables from this file instead of .env."},
			&cli.BoolFlag{Name: "once", Usage: "Run a single scan cycle once connected, then exit."},
		},
		Action: func(c *cli.Context) error {
			var envFiles []string
			if f := c.String("env-file"); f != "" {
				envFiles = append(envFiles, f)
			}
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, c.Bool("once"), logger)
		},
	}
}

func run(ctx context.Context, cfg *config.Config, once bool, logger *slog.Logger) error {
	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		return err
	}

	translator := i18n.NewTranslator(cfg.Locale, logger)
	recorder := metrics.NewRecorder("rsvpbot")
	transport := discord.NewTransport(session)

	arbiter := application.NewArbiter(transport, recorder, logger)
	notifier := application.NewNotifier(transport, translator, cfg.Locale, cfg.NotifyDirect, recorder, logger)
	scanner := application.NewScanner(transport, application.NewExtractor(cfg.Location), arbiter, notifier, translator, recorder, logger,
		application.ScannerConfig{
			Interval:     cfg.ScanInterval,
			Windows:      application.Windows{Alarm: cfg.AlarmWindow, Final: cfg.FinalWindow},
			HistoryLimit: cfg.ScanHistoryLimit,
			UnpinOnFinal: cfg.UnpinOnFinal,
			Locale:       cfg.Locale,
		})
	dialogues := application.NewDialogues()
	wizard := application.NewWizard(transport, dialogues, calendar.NewEncoder(calendar.DefaultDuration), translator,
		cfg.Locale, cfg.Location, cfg.AskAudience, recorder, logger)

	handler := discord.NewHandler(scanner, wizard, dialogues, arbiter, translator, discord.HandlerConfig{
		Locale:        cfg.Locale,
		Prefix:        cfg.CommandPrefix,
		WizardTimeout: cfg.WizardTimeout,
	}, logger)
	bot := discord.NewBot(session, handler, cfg.GuildID, logger)

	if once {
		return runOnce(ctx, bot, scanner, logger)
	}

	ops := httpserver.New(cfg.OpsAddr, scanner, recorder.Registry(), 3*cfg.ScanInterval+time.Minute, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Start(gctx) })
	g.Go(func() error {
		scanner.Start(gctx, bot.Ready())
		return nil
	})
	g.Go(func() error { return ops.Run(gctx) })
	return g.Wait()
}

// runOnce connects, waits for the gateway and performs a single scan.
func runOnce(ctx context.Context, bot *discord.Bot, scanner *application.Scanner, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Start(gctx) })
	g.Go(func() error {
		defer cancel()
		select {
		case <-gctx.Done():
			return fmt.Errorf("session fermée avant d'être prête: %w", context.Cause(gctx))
		case <-bot.Ready():
		}
		scanner.RunCycle(gctx)
		logger.Info("✅ Cycle unique terminé")
		return nil
	})
	return g.Wait()
}

func setupLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
