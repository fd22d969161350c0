// Command signup processes a subscription request from the command
// line, for handling form-service submissions manually:
//
//	signup -config config/config.yaml user@example.com sydney
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ignite/fuel-alert/internal/config"
	"github.com/ignite/fuel-alert/internal/mailer"
	"github.com/ignite/fuel-alert/internal/store"
	"github.com/ignite/fuel-alert/internal/subscription"
	"github.com/ignite/fuel-alert/internal/token"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-config path] <email> <city>\n", os.Args[0])
		os.Exit(2)
	}
	email, city := flag.Arg(0), flag.Arg(1)

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	backend, err := store.NewBackend(cfg.Storage)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sender, err := mailer.NewSender(cfg.Mailer, cfg.Alert.FromName, cfg.Alert.FromEmail)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cities := cfg.Alert.Cities
	flow := subscription.NewFlow(
		token.NewService(cfg.Alert.SecretKey),
		store.NewSubscriberStore(backend, cities),
		store.NewStateStore(backend, cities),
		sender,
		mailer.NewTemplates(),
		cities,
		cfg.Alert.SiteURL,
	)

	res, err := flow.Signup(context.Background(), email, city)
	if err != nil {
		fmt.Fprintf(os.Stderr, "signup failed: %v\n", err)
		os.Exit(1)
	}

	if res.OK {
		fmt.Printf("✓ %s\n", res.Message)
		return
	}
	fmt.Printf("✗ %s\n", res.Message)
	os.Exit(1)
}
