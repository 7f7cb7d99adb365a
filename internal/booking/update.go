package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/catalog"
	appdb "github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/email"
	"github.com/codr1/Padelicious/internal/events"
	"github.com/codr1/Padelicious/internal/identity"
	"github.com/codr1/Padelicious/internal/metrics"
)

type Action string

const (
	ActionRemoveParticipant Action = "remove_participant"
	ActionAddParticipant    Action = "add_participant"
	ActionChangeTime        Action = "change_time"
	ActionCancel            Action = "cancel"
)

// UpdateParams carries one owner edit. Only the fields of Action are read.
type UpdateParams struct {
	Action        Action
	ParticipantID int64
	Participant   Invitee
	Start         time.Time
	End           time.Time
}

// Update applies an owner edit to a CONFIRMED booking.
func (s *Service) Update(ctx context.Context, caller identity.Caller, bookingID int64, params UpdateParams) (dbgen.Booking, error) {
	if !caller.Valid() {
		return dbgen.Booking{}, apperror.Unauthenticated("authentication required")
	}
	switch params.Action {
	case ActionRemoveParticipant, ActionAddParticipant, ActionChangeTime, ActionCancel:
	default:
		return dbgen.Booking{}, apperror.Validation("unknown booking action")
	}

	var invitee Invitee
	if params.Action == ActionAddParticipant {
		var err error
		if invitee, err = params.Participant.Normalize(); err != nil {
			return dbgen.Booking{}, err
		}
	}
	if params.Action == ActionChangeTime {
		if err := s.validateRange(params.Start, params.End); err != nil {
			return dbgen.Booking{}, err
		}
	}

	logger := log.Ctx(ctx).With().
		Str("component", "booking").
		Str("action", string(params.Action)).
		Int64("booking_id", bookingID).
		Int64("user_id", caller.ID).
		Logger()

	var (
		updated   dbgen.Booking
		notifyAll []dbgen.BookingParticipant
	)
	err := s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		b, err := s.loadEditable(ctx, tx.Queries, caller, bookingID)
		if err != nil {
			return err
		}
		updated = b
		now := s.now().UTC()

		switch params.Action {
		case ActionRemoveParticipant:
			rows, err := tx.Queries.DeleteParticipant(ctx, dbgen.DeleteParticipantParams{
				ID:        params.ParticipantID,
				BookingID: b.ID,
			})
			if err != nil {
				return fmt.Errorf("delete participant: %w", err)
			}
			if rows == 0 {
				return apperror.NotFound("participant not found")
			}
			return nil

		case ActionAddParticipant:
			if err := ensureCapacity(ctx, tx.Queries, b.ID); err != nil {
				return err
			}
			_, err := insertParticipant(ctx, tx.Queries, participantRow{
				bookingID: b.ID,
				invitee:   invitee,
				status:    ParticipantPending,
				at:        now,
			})
			return err

		case ActionChangeTime:
			if now.After(b.StartTime.Add(-s.rescheduleLead)) {
				return apperror.PolicyViolation(fmt.Sprintf(
					"bookings can only be rescheduled at least %s before they start", formatLead(s.rescheduleLead)))
			}
			start, end := params.Start.UTC(), params.End.UTC()
			occupied, err := courtOccupied(ctx, tx.Queries, b.CourtID, start, end, b.ID, now.Add(-s.holdTTL))
			if err != nil {
				return err
			}
			if occupied {
				return ErrSlotUnavailable
			}
			conflict, err := HasConflict(ctx, tx.Queries, caller.ID, start, end, b.ID, now.Add(-s.holdTTL))
			if err != nil {
				return err
			}
			if conflict {
				return ErrUserConflict
			}
			rows, err := tx.Queries.UpdateBookingTimes(ctx, dbgen.UpdateBookingTimesParams{
				StartTime: start,
				EndTime:   end,
				UpdatedAt: now,
				ID:        b.ID,
			})
			if err != nil {
				return fmt.Errorf("update booking times: %w", err)
			}
			if rows == 0 {
				return ErrConcurrentChange
			}
			updated.StartTime, updated.EndTime, updated.UpdatedAt = start, end, now
			notifyAll, err = tx.Queries.ListParticipantsByBooking(ctx, b.ID)
			if err != nil {
				return fmt.Errorf("list participants: %w", err)
			}
			return nil

		case ActionCancel:
			updated, err = Transition(ctx, tx.Queries, b, EventCancelUnilateral, now)
			return err
		}
		return nil
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			logger.Error().Err(err).Msg("Failed to update booking")
		}
		return dbgen.Booking{}, err
	}
	logger.Info().Msg("Booking updated")

	switch params.Action {
	case ActionAddParticipant:
		s.notifyInvitee(ctx, caller.ID, updated, invitee)
	case ActionChangeTime:
		Publish(ctx, s.publisher, events.BookingRescheduled, NewEvent(updated, nil, s.now()))
		s.notifyReschedule(ctx, updated, notifyAll)
	case ActionCancel:
		metrics.BookingTransitions.WithLabelValues(string(EventCancelUnilateral), string(StatusCancelled)).Inc()
		Publish(ctx, s.publisher, events.BookingCancelled, NewEvent(updated, nil, s.now()))
	}
	return updated, nil
}

// loadEditable returns the booking when caller owns it and it is CONFIRMED.
func (s *Service) loadEditable(ctx context.Context, q dbgen.Querier, caller identity.Caller, bookingID int64) (dbgen.Booking, error) {
	b, err := GetBooking(ctx, q, bookingID)
	if err != nil {
		return dbgen.Booking{}, err
	}
	if b.UserID != caller.ID {
		return dbgen.Booking{}, apperror.Forbidden("you are not the owner of this booking")
	}
	if Status(b.Status) != StatusConfirmed {
		return dbgen.Booking{}, apperror.Validation("only confirmed bookings can be changed")
	}
	return b, nil
}

func (s *Service) notifyInvitee(ctx context.Context, hostID int64, b dbgen.Booking, inv Invitee) {
	court, err := catalog.GetCourt(ctx, s.db.Queries, b.CourtID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("booking_id", b.ID).Msg("Failed to load court for invitation")
		return
	}
	s.invite(ctx, hostID, b, EmailDetails(court, b), inv)
}

func (s *Service) notifyReschedule(ctx context.Context, b dbgen.Booking, participants []dbgen.BookingParticipant) {
	if s.notifier == nil {
		return
	}
	court, err := catalog.GetCourt(ctx, s.db.Queries, b.CourtID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("booking_id", b.ID).Msg("Failed to load court for reschedule notice")
		return
	}
	msg := email.BuildRescheduleNotice(EmailDetails(court, b), s.loc)
	s.notifier.NotifyUser(ctx, b.UserID, msg)
	for _, p := range participants {
		if p.Status == ParticipantDeclined || !p.Email.Valid {
			continue
		}
		s.notifier.NotifyAddress(ctx, p.Email.String, msg)
	}
}

func formatLead(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	}
	return d.String()
}
