// cmd/server/app.go
package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/api/auth"
	"github.com/codr1/Padelicious/internal/booking"
	"github.com/codr1/Padelicious/internal/cancellation"
	"github.com/codr1/Padelicious/internal/config"
	"github.com/codr1/Padelicious/internal/db"
	"github.com/codr1/Padelicious/internal/email"
	"github.com/codr1/Padelicious/internal/events"
	"github.com/codr1/Padelicious/internal/payment"
	"github.com/codr1/Padelicious/internal/ratelimit"
	"github.com/codr1/Padelicious/internal/scheduler"
	"github.com/codr1/Padelicious/internal/wallet"
)

// application holds the long-lived dependencies shared by handlers and jobs.
type application struct {
	db            *db.DB
	loc           *time.Location
	publisher     events.Publisher
	notifier      *email.Notifier
	limiter       *ratelimit.Limiter
	tokens        *auth.TokenManager
	bookings      *booking.Service
	cancellations *cancellation.Service
	wallets       *wallet.Service
	startedAt     time.Time
	closeOnce     sync.Once
}

func newApp(ctx context.Context, cfg *config.Config) (*application, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load booking timezone: %w", err)
	}

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a := &application{
		db:        database,
		loc:       loc,
		publisher: events.Nop{},
		startedAt: time.Now(),
	}

	if cfg.Events.Enabled {
		publisher, err := events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect event broker: %w", err)
		}
		a.publisher = publisher
		log.Info().Str("exchange", cfg.Events.Exchange).Msg("Domain events enabled")
	}

	if cfg.Email.Enabled {
		client, err := email.NewSESClient(ctx, cfg.Email)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create SES client: %w", err)
		}
		a.notifier = email.NewNotifier(database.Queries, client, cfg.Email.Sender, cfg.App.BaseURL, loc)
		log.Info().Str("region", cfg.Email.Region).Msg("Email notifications enabled")
	}

	gateway, err := payment.New(cfg.Payment)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.tokens, err = auth.NewTokenManager(cfg.App.SecretKey)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.limiter = ratelimit.New(ratelimit.FromConfig(cfg.RateLimit))

	a.bookings = booking.NewService(database, gateway,
		booking.WithLocation(loc),
		booking.WithPublisher(a.publisher),
		booking.WithNotifier(a.notifier),
		booking.WithHoldTTL(cfg.Booking.PendingHoldTTL),
		booking.WithRescheduleLead(cfg.Booking.RescheduleLead),
		booking.WithPaymentTimeout(cfg.Payment.Timeout),
	)
	a.cancellations = cancellation.NewService(database,
		cancellation.WithLocation(loc),
		cancellation.WithPublisher(a.publisher),
		cancellation.WithNotifier(a.notifier),
	)
	a.wallets = wallet.NewService(database, gateway,
		wallet.WithPublisher(a.publisher),
		wallet.WithPaymentTimeout(cfg.Payment.Timeout),
	)
	return a, nil
}

func (a *application) registerJobs(cfg *config.Config) error {
	svc, err := scheduler.ServiceInstance()
	if err != nil {
		return err
	}
	if err := scheduler.RegisterHoldSweepJob(svc, a.bookings, cfg.Booking.SweepCron); err != nil {
		return err
	}
	return scheduler.RegisterReminderJobs(svc, a.db, a.notifier, scheduler.ReminderConfig{
		CronExpr: cfg.Booking.ReminderCron,
		Before:   cfg.Booking.ReminderBefore,
	})
}

// Close releases resources in reverse order of acquisition. Pending emails
// are flushed before the database closes.
func (a *application) Close() {
	a.closeOnce.Do(func() {
		if a.limiter != nil {
			a.limiter.Close()
		}
		if a.notifier != nil {
			a.notifier.Wait()
		}
		if a.publisher != nil {
			if err := a.publisher.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close event publisher")
			}
		}
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close database")
			}
		}
	})
}
