// Command server runs the subscription HTTP server: signup form
// submissions plus the confirm and unsubscribe capability links.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/fuel-alert/internal/api"
	"github.com/ignite/fuel-alert/internal/config"
	"github.com/ignite/fuel-alert/internal/mailer"
	"github.com/ignite/fuel-alert/internal/pkg/logger"
	"github.com/ignite/fuel-alert/internal/store"
	"github.com/ignite/fuel-alert/internal/subscription"
	"github.com/ignite/fuel-alert/internal/token"
)

// checkPortAvailable verifies that the target port is not already in
// use, so a stale process doesn't silently shadow this one.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		return err
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
	templates := mailer.NewTemplates()
	flow := subscription.NewFlow(
		token.NewService(cfg.Alert.SecretKey),
		store.NewSubscriberStore(backend, cities),
		store.NewStateStore(backend, cities),
		sender,
		templates,
		cities,
		cfg.Alert.SiteURL,
	)

	srv := api.NewServer(cfg.Server, flow, templates)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "host", host, "port", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
