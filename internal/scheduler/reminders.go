package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/booking"
	"github.com/codr1/Padelicious/internal/catalog"
	"github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/email"
)

// ReminderConfig controls when upcoming-game reminders go out. Window should
// match the cron interval so each booking falls into exactly one run.
type ReminderConfig struct {
	CronExpr string
	Before   time.Duration
	Window   time.Duration
}

// RegisterReminderJobs schedules booking reminders for owners and players.
func RegisterReminderJobs(svc *Service, database *db.DB, notifier *email.Notifier, cfg ReminderConfig) error {
	if database == nil {
		return fmt.Errorf("reminder jobs require database")
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}

	jobName := "booking_reminders"
	jobLogger := log.With().
		Str("component", "booking_reminders_job").
		Str("job_name", jobName).
		Logger()

	_, err := svc.AddJob(jobName, cfg.CronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if notifier == nil {
			jobLogger.Debug().Msg("Reminder job skipped: email not configured")
			return
		}
		sent, err := SendDueReminders(ctx, database.Queries, notifier, time.Now(), cfg.Before, cfg.Window)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Reminder job failed")
			return
		}
		if sent > 0 {
			jobLogger.Info().Int("bookings", sent).Msg("Booking reminders sent")
		}
	}, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return fmt.Errorf("add booking reminder job: %w", err)
	}
	return nil
}

// SendDueReminders notifies every CONFIRMED booking starting in
// [now+before, now+before+window). It returns how many bookings were handled.
func SendDueReminders(ctx context.Context, q dbgen.Querier, notifier *email.Notifier, now time.Time, before, window time.Duration) (int, error) {
	windowStart := now.UTC().Add(before)
	bookings, err := q.ListBookingsStartingBetween(ctx, dbgen.ListBookingsStartingBetweenParams{
		WindowStart: windowStart,
		WindowEnd:   windowStart.Add(window),
	})
	if err != nil {
		return 0, fmt.Errorf("list upcoming bookings: %w", err)
	}

	sent := 0
	for _, b := range bookings {
		if err := sendBookingReminder(ctx, q, notifier, b); err != nil {
			log.Ctx(ctx).Error().Err(err).Int64("booking_id", b.ID).Msg("Failed to send reminder emails")
			continue
		}
		sent++
	}
	return sent, nil
}

func sendBookingReminder(ctx context.Context, q dbgen.Querier, notifier *email.Notifier, b dbgen.Booking) error {
	court, err := catalog.GetCourt(ctx, q, b.CourtID)
	if err != nil {
		return fmt.Errorf("load court: %w", err)
	}
	participants, err := q.ListParticipantsByBooking(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("load participants: %w", err)
	}

	msg := email.BuildReminder(booking.EmailDetails(court, b), notifier.Location())
	notifier.NotifyUser(ctx, b.UserID, msg)
	for _, p := range participants {
		if p.Status != booking.ParticipantAccepted {
			continue
		}
		switch {
		case p.UserID.Valid:
			notifier.NotifyUser(ctx, p.UserID.Int64, msg)
		case p.Email.Valid:
			notifier.NotifyAddress(ctx, p.Email.String, msg)
		}
	}
	return nil
}
