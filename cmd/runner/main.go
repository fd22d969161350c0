// Command runner executes one classification run: fetch the ACCC page,
// classify every city's buying tip, alert subscribers of cities that
// crossed into their buy window, and persist the new phase snapshot.
// Intended to be invoked on a schedule (cron, scheduled task).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ignite/fuel-alert/internal/accc"
	"github.com/ignite/fuel-alert/internal/alert"
	"github.com/ignite/fuel-alert/internal/config"
	"github.com/ignite/fuel-alert/internal/mailer"
	"github.com/ignite/fuel-alert/internal/pkg/logger"
	"github.com/ignite/fuel-alert/internal/store"
	"github.com/ignite/fuel-alert/internal/token"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	dryRun := flag.Bool("dry-run", false, "log sends instead of delivering email")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logger.SetLevel(logger.DEBUG)
	}

	if err := run(*configPath, *dryRun); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, dryRun bool) error {
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if dryRun {
		cfg.Mailer.Provider = "dryrun"
	}

	ctx := context.Background()

	backend, err := store.NewBackend(cfg.Storage)
	if err != nil {
		return err
	}
	if pg, ok := backend.(*store.PostgresBackend); ok {
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		defer pg.Close()
	}

	sender, err := mailer.NewSender(cfg.Mailer, cfg.Alert.FromName, cfg.Alert.FromEmail)
	if err != nil {
		return err
	}

	cities := cfg.Alert.Cities
	dispatcher := alert.NewDispatcher(
		store.NewStateStore(backend, cities),
		store.NewSubscriberStore(backend, cities),
		token.NewService(cfg.Alert.SecretKey),
		sender,
		mailer.NewTemplates(),
		cities,
		cfg.Alert.SiteURL,
		cfg.Alert.Workers,
	)

	// No source data means no classification: abort the whole run
	logger.Info("fetching price cycles page", "url", cfg.Source.URL)
	page, err := accc.NewClient(cfg.Source).FetchPage(ctx)
	if err != nil {
		return err
	}

	tips := accc.ExtractTips(page, cities)
	extracted := 0
	for _, tip := range tips {
		if tip != "" {
			extracted++
		}
	}
	if extracted == 0 {
		logger.Warn("no buying tips extracted; page structure may have changed")
	}

	report, err := dispatcher.Run(ctx, tips)
	if err != nil {
		return err
	}

	if len(report.Triggered) > 0 {
		logger.Info("alerts dispatched",
			"cities", strings.Join(report.Triggered, ","),
			"sent", report.Sent,
			"failed", report.Failed)
	} else {
		logger.Info("no transitions detected")
	}
	return nil
}
