// Package alert turns one scheduled classification pass into
// subscriber notifications: classify every city's buying tip, detect
// WAIT→BUY crossings against the previous state, fan alerts out to that
// city's subscribers, and persist the new state snapshot.
package alert

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ignite/fuel-alert/internal/cycle"
	"github.com/ignite/fuel-alert/internal/mailer"
	"github.com/ignite/fuel-alert/internal/pkg/logger"
	"github.com/ignite/fuel-alert/internal/store"
	"github.com/ignite/fuel-alert/internal/token"
)

// Report summarizes one completed run.
type Report struct {
	RunID     string
	Previous  cycle.StateRecord
	Current   cycle.StateRecord
	Triggered []string
	Sent      int64
	Failed    int64
}

// Dispatcher executes classification runs.
type Dispatcher struct {
	states      *store.StateStore
	subscribers *store.SubscriberStore
	tokens      *token.Service
	sender      mailer.Sender
	templates   *mailer.Templates
	cities      []string
	siteURL     string
	workers     int
}

// NewDispatcher creates a dispatcher. workers bounds the per-city send
// fan-out; values below 1 are treated as 1.
func NewDispatcher(states *store.StateStore, subscribers *store.SubscriberStore, tokens *token.Service, sender mailer.Sender, templates *mailer.Templates, cities []string, siteURL string, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		states:      states,
		subscribers: subscribers,
		tokens:      tokens,
		sender:      sender,
		templates:   templates,
		cities:      cities,
		siteURL:     siteURL,
		workers:     workers,
	}
}

// Run classifies the given per-city buying tips, alerts subscribers of
// every city that crossed into its buy window, and overwrites the state
// snapshot. The snapshot is persisted whether or not anything fired; a
// failed send is logged and skipped, never fatal. Only storage failures
// return an error.
func (d *Dispatcher) Run(ctx context.Context, tips map[string]string) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Current: make(cycle.StateRecord, len(d.cities)),
	}

	previous, err := d.states.Load(ctx)
	if err != nil {
		return nil, err
	}
	report.Previous = previous

	for _, city := range d.cities {
		phase := cycle.Classify(tips[city])
		report.Current[city] = phase

		if cycle.ShouldAlert(previous[city], phase) {
			report.Triggered = append(report.Triggered, city)
		}
		logger.Info("city classified",
			"run_id", report.RunID,
			"city", city,
			"previous", string(previous[city]),
			"current", string(phase))
	}

	if len(report.Triggered) > 0 {
		registry, err := d.subscribers.Load(ctx)
		if err != nil {
			return nil, err
		}
		for _, city := range report.Triggered {
			sent, failed := d.dispatchCity(ctx, report.RunID, city, registry[city])
			report.Sent += sent
			report.Failed += failed
		}
	}

	// The snapshot must advance even when nothing fired (or every send
	// failed), otherwise the next run would re-detect the same edge.
	if err := d.states.Save(ctx, report.Current); err != nil {
		return nil, err
	}

	logger.Info("run complete",
		"run_id", report.RunID,
		"triggered", strings.Join(report.Triggered, ","),
		"sent", report.Sent,
		"failed", report.Failed)
	return report, nil
}

// dispatchCity fans one city's alert out to its subscribers with a
// bounded pool of senders. Failures are isolated per recipient.
func (d *Dispatcher) dispatchCity(ctx context.Context, runID, city string, recipients []string) (sent, failed int64) {
	if len(recipients) == 0 {
		logger.Info("buy window with no subscribers", "run_id", runID, "city", city)
		return 0, 0
	}

	display := strings.ToUpper(city[:1]) + city[1:]
	subject := fmt.Sprintf("⛽ %s petrol prices are at the bottom", display)

	jobs := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for email := range jobs {
				if err := d.sendAlert(ctx, email, city, subject); err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Error("alert send failed",
						"run_id", runID, "city", city, "email", email, "error", err)
					continue
				}
				atomic.AddInt64(&sent, 1)
				logger.Info("alert sent", "run_id", runID, "city", city, "email", email)
			}
		}()
	}

	for _, email := range recipients {
		jobs <- email
	}
	close(jobs)
	wg.Wait()

	return sent, failed
}

func (d *Dispatcher) sendAlert(ctx context.Context, email, city, subject string) error {
	unsubURL := d.unsubscribeURL(email, city)
	body, err := d.templates.BuyAlert(city, unsubURL)
	if err != nil {
		return err
	}
	return d.sender.Send(ctx, email, subject, body)
}

func (d *Dispatcher) unsubscribeURL(email, city string) string {
	params := url.Values{}
	params.Set("email", email)
	params.Set("city", city)
	params.Set("token", d.tokens.Issue(email, city, token.ActionUnsubscribe))
	return fmt.Sprintf("%s/unsubscribe.html?%s", strings.TrimRight(d.siteURL, "/"), params.Encode())
}
