package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// HoldSweeper cancels PENDING bookings whose payment never completed.
type HoldSweeper interface {
	ExpireStaleHolds(ctx context.Context) (int, error)
}

// RegisterHoldSweepJob frees slots held by abandoned payments.
func RegisterHoldSweepJob(svc *Service, sweeper HoldSweeper, cronExpr string) error {
	if sweeper == nil {
		return fmt.Errorf("hold sweep job requires a sweeper")
	}
	jobName := "pending_hold_sweep"
	jobLogger := log.With().Str("component", "pending_hold_sweep_job").Str("job_name", jobName).Logger()

	_, err := svc.AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		expired, err := sweeper.ExpireStaleHolds(ctx)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Hold sweep failed")
			return
		}
		if expired > 0 {
			jobLogger.Info().Int("expired", expired).Msg("Expired stale booking holds")
		}
	}, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return fmt.Errorf("add hold sweep job: %w", err)
	}
	return nil
}
