// Package booking owns court slots, the booking lifecycle and participants.
package booking

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/catalog"
	appdb "github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/email"
	"github.com/codr1/Padelicious/internal/events"
	"github.com/codr1/Padelicious/internal/identity"
	"github.com/codr1/Padelicious/internal/metrics"
	"github.com/codr1/Padelicious/internal/payment"
	"github.com/codr1/Padelicious/internal/pricing"
	"github.com/codr1/Padelicious/internal/wallet"
)

type PaymentMethod string

const (
	PaymentGateway PaymentMethod = "gateway"
	PaymentWallet  PaymentMethod = "wallet"
)

var (
	ErrBookingNotFound    = apperror.NotFound("booking not found")
	ErrInvitationNotFound = apperror.NotFound("invitation not found")
	ErrUserConflict       = apperror.Conflict("you already have a booking at this time")
	ErrSlotUnavailable    = apperror.Conflict("this time slot is not available")
	ErrPaymentFailed      = apperror.PaymentFailure("payment was not completed")
	ErrConcurrentChange   = apperror.Conflict("booking was modified by another request")
	ErrPaymentRefunded    = apperror.Conflict("booking could not be confirmed after payment; the amount was credited to your wallet")
)

type Service struct {
	db             *appdb.DB
	gateway        payment.Gateway
	publisher      events.Publisher
	notifier       *email.Notifier
	now            func() time.Time
	loc            *time.Location
	holdTTL        time.Duration
	rescheduleLead time.Duration
	paymentTimeout time.Duration
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithNotifier(n *email.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithHoldTTL bounds how long an unpaid PENDING booking keeps its slot.
func WithHoldTTL(d time.Duration) Option {
	return func(s *Service) { s.holdTTL = d }
}

func WithRescheduleLead(d time.Duration) Option {
	return func(s *Service) { s.rescheduleLead = d }
}

func WithPaymentTimeout(d time.Duration) Option {
	return func(s *Service) { s.paymentTimeout = d }
}

func NewService(database *appdb.DB, gateway payment.Gateway, opts ...Option) *Service {
	s := &Service{
		db:             database,
		gateway:        gateway,
		publisher:      events.Nop{},
		now:            time.Now,
		loc:            time.UTC,
		holdTTL:        15 * time.Minute,
		rescheduleLead: 6 * time.Hour,
		paymentTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Slots lists a court's hourly slots for a calendar date.
func (s *Service) Slots(ctx context.Context, courtID int64, date time.Time) ([]Slot, error) {
	return AvailableSlots(ctx, s.db.Queries, courtID, date, s.loc)
}

type CreateParams struct {
	CourtID       int64
	Start         time.Time
	End           time.Time
	Participants  []Invitee
	PaymentMethod PaymentMethod
}

// Create holds the slot as PENDING, settles the price and confirms the
// booking. A failed payment leaves the booking CANCELLED.
func (s *Service) Create(ctx context.Context, caller identity.Caller, params CreateParams) (dbgen.Booking, error) {
	if !caller.Valid() {
		return dbgen.Booking{}, apperror.Unauthenticated("authentication required")
	}
	if params.CourtID <= 0 {
		return dbgen.Booking{}, apperror.Validation("court_id must be a positive integer")
	}
	if err := s.validateRange(params.Start, params.End); err != nil {
		return dbgen.Booking{}, err
	}
	method := params.PaymentMethod
	switch method {
	case "":
		method = PaymentGateway
	case PaymentGateway, PaymentWallet:
	default:
		return dbgen.Booking{}, apperror.Validation("payment_method must be gateway or wallet")
	}
	invitees, err := normalizeInvitees(params.Participants)
	if err != nil {
		metrics.BookingsCreated.WithLabelValues("rejected").Inc()
		return dbgen.Booking{}, err
	}
	token, err := newInviteToken()
	if err != nil {
		return dbgen.Booking{}, apperror.Internal("could not create booking", err)
	}

	logger := log.Ctx(ctx).With().
		Str("component", "booking").
		Int64("user_id", caller.ID).
		Int64("court_id", params.CourtID).
		Logger()

	now := s.now().UTC()
	start, end := params.Start.UTC(), params.End.UTC()

	var (
		held  dbgen.Booking
		court catalog.Court
	)
	err = s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		var err error
		court, err = catalog.GetCourt(ctx, tx.Queries, params.CourtID)
		if err != nil {
			return err
		}
		conflict, err := HasConflict(ctx, tx.Queries, caller.ID, start, end, 0, now.Add(-s.holdTTL))
		if err != nil {
			return err
		}
		if conflict {
			return ErrUserConflict
		}
		occupied, err := courtOccupied(ctx, tx.Queries, court.ID, start, end, 0, now.Add(-s.holdTTL))
		if err != nil {
			return err
		}
		if occupied {
			return ErrSlotUnavailable
		}
		rules, err := catalog.PricingRules(ctx, tx.Queries, court.ID)
		if err != nil {
			return err
		}
		total := pricing.Total(pricing.Price(court.BasePricePerHour, rules, start, s.loc), start, end)

		held, err = tx.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
			UserID:        caller.ID,
			CourtID:       court.ID,
			StartTime:     start,
			EndTime:       end,
			TotalPrice:    total,
			Status:        string(StatusPending),
			PaymentMethod: string(method),
			InviteToken:   sql.NullString{String: token, Valid: true},
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		for _, inv := range invitees {
			if _, err := insertParticipant(ctx, tx.Queries, participantRow{
				bookingID: held.ID,
				invitee:   inv,
				status:    ParticipantPending,
				at:        now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindConflict:
			metrics.BookingsCreated.WithLabelValues("conflict").Inc()
			logger.Info().Err(err).Time("start", start).Msg("Booking rejected")
		case apperror.KindInternal:
			logger.Error().Err(err).Msg("Failed to hold booking slot")
		default:
			metrics.BookingsCreated.WithLabelValues("rejected").Inc()
		}
		return dbgen.Booking{}, err
	}
	logger = logger.With().Int64("booking_id", held.ID).Logger()
	logger.Info().Str("total", held.TotalPrice.String()).Str("payment_method", string(method)).Msg("Booking held")

	var (
		confirmed dbgen.Booking
		entry     *wallet.EntryResult
	)
	if method == PaymentWallet {
		confirmed, entry, err = s.settleFromWallet(ctx, held)
	} else {
		confirmed, err = s.settleWithGateway(ctx, held, &logger)
	}
	if err != nil {
		if !errors.Is(err, ErrPaymentRefunded) {
			s.failPayment(ctx, held, &logger)
		}
		return dbgen.Booking{}, err
	}

	metrics.BookingsCreated.WithLabelValues("confirmed").Inc()
	metrics.BookingTransitions.WithLabelValues(string(EventPaymentSucceeded), string(StatusConfirmed)).Inc()
	logger.Info().Str("transaction_id", confirmed.TransactionID.String).Msg("Booking confirmed")

	Publish(ctx, s.publisher, events.BookingConfirmed, NewEvent(confirmed, nil, s.now()))
	if entry != nil {
		metrics.WalletTransactions.WithLabelValues(wallet.TypePayment).Inc()
		wallet.Publish(ctx, s.publisher, caller.ID, *entry)
	}
	details := EmailDetails(court, confirmed)
	s.notifier.NotifyUser(ctx, caller.ID, email.BuildBookingConfirmation(details, s.loc))
	s.inviteAll(ctx, caller.ID, confirmed, details, invitees)

	return confirmed, nil
}

func (s *Service) settleWithGateway(ctx context.Context, held dbgen.Booking, logger *zerolog.Logger) (dbgen.Booking, error) {
	payCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()
	started := time.Now()
	res, err := s.gateway.Initiate(payCtx, held.TotalPrice, fmt.Sprintf("booking-%d", held.ID))
	if err != nil || !res.Success {
		metrics.ObservePayment(started, "failed")
		logger.Warn().Err(err).Str("message", res.Message).Msg("Booking payment failed")
		return dbgen.Booking{}, ErrPaymentFailed
	}
	metrics.ObservePayment(started, "success")

	var confirmed dbgen.Booking
	err = s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		var err error
		confirmed, err = Transition(ctx, tx.Queries, held, EventPaymentSucceeded, s.now())
		if err != nil {
			return err
		}
		confirmed.TransactionID = sql.NullString{String: res.TransactionID, Valid: res.TransactionID != ""}
		return tx.Queries.SetBookingTransactionID(ctx, dbgen.SetBookingTransactionIDParams{
			TransactionID: confirmed.TransactionID,
			ID:            confirmed.ID,
		})
	})
	if err != nil {
		logger.Error().Err(err).Str("transaction_id", res.TransactionID).Msg("Failed to confirm paid booking")
		entry, refundErr := s.refundUnconfirmed(ctx, held, res.TransactionID)
		if refundErr != nil {
			logger.Error().Err(refundErr).Str("transaction_id", res.TransactionID).Msg("Failed to refund unconfirmed booking")
			return dbgen.Booking{}, err
		}
		logger.Warn().
			Str("transaction_id", res.TransactionID).
			Str("amount", held.TotalPrice.String()).
			Msg("Gateway charge for unconfirmed booking credited to wallet")
		if entry.Transaction.ID != 0 {
			metrics.WalletTransactions.WithLabelValues(wallet.TypeCancellationRefund).Inc()
			wallet.Publish(ctx, s.publisher, held.UserID, entry)
		}
		return dbgen.Booking{}, ErrPaymentRefunded
	}
	return confirmed, nil
}

// refundUnconfirmed handles a gateway charge whose booking could not be
// confirmed. It stores the gateway transaction id, cancels the hold if it is
// still PENDING and credits the charged amount to the player's wallet, all in
// one transaction.
func (s *Service) refundUnconfirmed(ctx context.Context, held dbgen.Booking, transactionID string) (wallet.EntryResult, error) {
	var entry wallet.EntryResult
	err := s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		current, err := GetBooking(ctx, tx.Queries, held.ID)
		if err != nil {
			return err
		}
		switch Status(current.Status) {
		case StatusPending:
			if _, err := Transition(ctx, tx.Queries, current, EventPaymentFailed, s.now()); err != nil {
				return err
			}
		case StatusCancelled:
		default:
			return fmt.Errorf("booking %d is %s, not refunding charge %q", held.ID, current.Status, transactionID)
		}
		if err := tx.Queries.SetBookingTransactionID(ctx, dbgen.SetBookingTransactionIDParams{
			TransactionID: sql.NullString{String: transactionID, Valid: transactionID != ""},
			ID:            held.ID,
		}); err != nil {
			return fmt.Errorf("store transaction id: %w", err)
		}
		if !held.TotalPrice.IsPositive() {
			return nil
		}
		bookingID := held.ID
		entry, err = wallet.RefundToWallet(ctx, tx.Queries, wallet.EntryParams{
			UserID:      held.UserID,
			Amount:      held.TotalPrice,
			BookingID:   &bookingID,
			Description: fmt.Sprintf("Refund of unconfirmed payment for booking #%d", held.ID),
			At:          s.now(),
		})
		return err
	})
	return entry, err
}

// settleFromWallet debits the booking owner and confirms in one transaction.
func (s *Service) settleFromWallet(ctx context.Context, held dbgen.Booking) (dbgen.Booking, *wallet.EntryResult, error) {
	var (
		confirmed dbgen.Booking
		entry     wallet.EntryResult
	)
	err := s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		var err error
		bookingID := held.ID
		entry, err = wallet.PayFromWallet(ctx, tx.Queries, wallet.EntryParams{
			UserID:    held.UserID,
			Amount:    held.TotalPrice,
			BookingID: &bookingID,
			At:        s.now(),
		})
		if err != nil {
			return err
		}
		confirmed, err = Transition(ctx, tx.Queries, held, EventPaymentSucceeded, s.now())
		if err != nil {
			return err
		}
		confirmed.TransactionID = sql.NullString{String: fmt.Sprintf("wallet_%d", entry.Transaction.ID), Valid: true}
		return tx.Queries.SetBookingTransactionID(ctx, dbgen.SetBookingTransactionIDParams{
			TransactionID: confirmed.TransactionID,
			ID:            confirmed.ID,
		})
	})
	if err != nil {
		return dbgen.Booking{}, nil, err
	}
	return confirmed, &entry, nil
}

// failPayment releases the hold. If this write fails the sweep job
// cancels the booking once its hold expires.
func (s *Service) failPayment(ctx context.Context, held dbgen.Booking, logger *zerolog.Logger) {
	metrics.BookingsCreated.WithLabelValues("payment_failed").Inc()
	err := s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		_, err := Transition(ctx, tx.Queries, held, EventPaymentFailed, s.now())
		return err
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to cancel unpaid booking")
		return
	}
	metrics.BookingTransitions.WithLabelValues(string(EventPaymentFailed), string(StatusCancelled)).Inc()
	cancelled := held
	cancelled.Status = string(StatusCancelled)
	Publish(ctx, s.publisher, events.BookingCancelled, NewEvent(cancelled, nil, s.now()))
}

// Transition applies event to b through the status table and persists it with
// a compare-and-set on the current status.
func Transition(ctx context.Context, q dbgen.Querier, b dbgen.Booking, event Event, at time.Time) (dbgen.Booking, error) {
	to, err := Next(Status(b.Status), event)
	if err != nil {
		return dbgen.Booking{}, err
	}
	at = at.UTC()
	rows, err := q.TransitionBookingStatus(ctx, dbgen.TransitionBookingStatusParams{
		ToStatus:   string(to),
		UpdatedAt:  at,
		ID:         b.ID,
		FromStatus: b.Status,
	})
	if err != nil {
		return dbgen.Booking{}, fmt.Errorf("transition booking: %w", err)
	}
	if rows == 0 {
		return dbgen.Booking{}, ErrConcurrentChange
	}
	b.Status = string(to)
	b.UpdatedAt = at
	return b, nil
}

// GetBooking loads a booking or reports NotFound.
func GetBooking(ctx context.Context, q dbgen.Querier, bookingID int64) (dbgen.Booking, error) {
	if bookingID <= 0 {
		return dbgen.Booking{}, apperror.Validation("booking_id must be a positive integer")
	}
	b, err := q.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Booking{}, ErrBookingNotFound
		}
		return dbgen.Booking{}, fmt.Errorf("load booking: %w", err)
	}
	return b, nil
}

func (s *Service) validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperror.Validation("start_time and end_time are required")
	}
	if !end.After(start) {
		return apperror.Validation("end time must be after start time")
	}
	if start.Before(s.now()) {
		return apperror.Validation("start time must be in the future")
	}
	return nil
}

func (s *Service) inviteAll(ctx context.Context, hostID int64, b dbgen.Booking, details email.BookingDetails, invitees []Invitee) {
	for _, inv := range invitees {
		s.invite(ctx, hostID, b, details, inv)
	}
}

func (s *Service) invite(ctx context.Context, hostID int64, b dbgen.Booking, details email.BookingDetails, inv Invitee) {
	Publish(ctx, s.publisher, events.ParticipantInvited, NewEvent(b, nil, s.now()))
	if inv.Email == "" || s.notifier == nil {
		return
	}
	hostName := ""
	if host, err := s.db.Queries.GetUserByID(ctx, hostID); err == nil {
		hostName = host.Name
	}
	s.notifier.NotifyAddress(ctx, inv.Email, email.BuildInvitation(details, hostName, s.notifier.InviteURL(b.InviteToken.String), s.loc))
}

func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// View is a booking as listed to a player.
type View struct {
	ID            int64             `json:"id"`
	CourtID       int64             `json:"court_id"`
	CourtName     string            `json:"court_name"`
	CourtType     string            `json:"court_type"`
	ClubName      string            `json:"club_name"`
	CityName      string            `json:"city_name"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	TotalPrice    decimal.Decimal   `json:"total_price"`
	Status        string            `json:"status"`
	PaymentMethod string            `json:"payment_method"`
	IsOwner       bool              `json:"is_owner"`
	InviteToken   string            `json:"invite_token,omitempty"`
	Participants  []ParticipantView `json:"participants"`
	CreatedAt     time.Time         `json:"created_at"`
}

type ParticipantView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Gender string `json:"gender,omitempty"`
	Status string `json:"status"`
	IsUser bool   `json:"is_user"`
}

// ListForUser returns bookings the caller owns or was invited to, newest
// start first.
func (s *Service) ListForUser(ctx context.Context, caller identity.Caller) ([]View, error) {
	if !caller.Valid() {
		return nil, apperror.Unauthenticated("authentication required")
	}
	rows, err := s.db.Queries.ListBookingsForUser(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	views := make([]View, 0, len(rows))
	for _, row := range rows {
		participants, err := s.db.Queries.ListParticipantsByBooking(ctx, row.ID)
		if err != nil {
			return nil, fmt.Errorf("list participants: %w", err)
		}
		v := View{
			ID:            row.ID,
			CourtID:       row.CourtID,
			CourtName:     row.CourtName,
			CourtType:     row.CourtType,
			ClubName:      row.ClubName,
			CityName:      row.CityName,
			StartTime:     row.StartTime,
			EndTime:       row.EndTime,
			TotalPrice:    row.TotalPrice,
			Status:        row.Status,
			PaymentMethod: row.PaymentMethod,
			IsOwner:       row.UserID == caller.ID,
			Participants:  make([]ParticipantView, 0, len(participants)),
			CreatedAt:     row.CreatedAt,
		}
		if v.IsOwner {
			v.InviteToken = row.InviteToken.String
		}
		for _, p := range participants {
			v.Participants = append(v.Participants, ParticipantView{
				ID:     p.ID,
				Name:   p.Name,
				Email:  p.Email.String,
				Phone:  p.Phone.String,
				Gender: p.Gender.String,
				Status: p.Status,
				IsUser: p.UserID.Valid,
			})
		}
		views = append(views, v)
	}
	return views, nil
}

// RespondToInvitation accepts or declines the caller's participant link.
func (s *Service) RespondToInvitation(ctx context.Context, caller identity.Caller, bookingID int64, accept bool) (dbgen.BookingParticipant, error) {
	if !caller.Valid() {
		return dbgen.BookingParticipant{}, apperror.Unauthenticated("authentication required")
	}
	status := ParticipantDeclined
	if accept {
		status = ParticipantAccepted
	}
	var participant dbgen.BookingParticipant
	err := s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		p, err := tx.Queries.GetParticipantForUser(ctx, dbgen.GetParticipantForUserParams{
			BookingID: bookingID,
			UserID:    sql.NullInt64{Int64: caller.ID, Valid: true},
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInvitationNotFound
			}
			return fmt.Errorf("load participant: %w", err)
		}
		if err := tx.Queries.UpdateParticipantStatus(ctx, dbgen.UpdateParticipantStatusParams{
			Status: status,
			ID:     p.ID,
		}); err != nil {
			return fmt.Errorf("update participant: %w", err)
		}
		p.Status = status
		participant = p
		return nil
	})
	if err != nil {
		return dbgen.BookingParticipant{}, err
	}
	log.Ctx(ctx).Info().
		Int64("booking_id", bookingID).
		Int64("user_id", caller.ID).
		Str("status", status).
		Msg("Invitation answered")
	return participant, nil
}

// AcceptInvitation links the caller to the booking behind an invite token.
func (s *Service) AcceptInvitation(ctx context.Context, caller identity.Caller, token string) (dbgen.Booking, error) {
	if !caller.Valid() {
		return dbgen.Booking{}, apperror.Unauthenticated("authentication required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return dbgen.Booking{}, ErrInvitationNotFound
	}

	var b dbgen.Booking
	err := s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		var err error
		b, err = tx.Queries.GetBookingByInviteToken(ctx, token)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInvitationNotFound
			}
			return fmt.Errorf("load booking by invite: %w", err)
		}
		if Status(b.Status) != StatusConfirmed {
			return apperror.Validation("this booking is no longer accepting players")
		}
		if b.UserID == caller.ID {
			return apperror.Validation("you cannot join your own booking")
		}

		linked, err := tx.Queries.GetParticipantForUser(ctx, dbgen.GetParticipantForUserParams{
			BookingID: b.ID,
			UserID:    sql.NullInt64{Int64: caller.ID, Valid: true},
		})
		switch {
		case err == nil:
			if linked.Status == ParticipantAccepted {
				return nil
			}
			if linked.Status == ParticipantDeclined {
				if err := ensureCapacity(ctx, tx.Queries, b.ID); err != nil {
					return err
				}
			}
			return tx.Queries.UpdateParticipantStatus(ctx, dbgen.UpdateParticipantStatusParams{
				Status: ParticipantAccepted,
				ID:     linked.ID,
			})
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("load participant: %w", err)
		}

		if err := ensureCapacity(ctx, tx.Queries, b.ID); err != nil {
			return err
		}
		user, err := tx.Queries.GetUserByID(ctx, caller.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("user not found")
			}
			return fmt.Errorf("load user: %w", err)
		}
		_, err = insertParticipant(ctx, tx.Queries, participantRow{
			bookingID: b.ID,
			userID:    caller.ID,
			invitee: Invitee{
				Name:  user.Name,
				Email: user.Email.String,
				Phone: user.Phone.String,
			},
			status: ParticipantAccepted,
			at:     s.now(),
		})
		return err
	})
	if err != nil {
		return dbgen.Booking{}, err
	}
	log.Ctx(ctx).Info().Int64("booking_id", b.ID).Int64("user_id", caller.ID).Msg("Invitation accepted")
	return b, nil
}

// ExpireStaleHolds cancels PENDING bookings older than the hold TTL.
func (s *Service) ExpireStaleHolds(ctx context.Context) (int, error) {
	logger := log.Ctx(ctx).With().Str("component", "booking_sweep").Logger()
	cutoff := s.now().UTC().Add(-s.holdTTL)

	stale, err := s.db.Queries.ListStalePendingBookings(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale bookings: %w", err)
	}

	expired := 0
	for _, b := range stale {
		var cancelled dbgen.Booking
		err := s.db.RunInTx(ctx, func(tx *appdb.DB) error {
			var err error
			cancelled, err = Transition(ctx, tx.Queries, b, EventHoldExpired, s.now())
			return err
		})
		if errors.Is(err, ErrConcurrentChange) {
			continue
		}
		if err != nil {
			logger.Error().Err(err).Int64("booking_id", b.ID).Msg("Failed to expire booking hold")
			continue
		}
		expired++
		metrics.BookingTransitions.WithLabelValues(string(EventHoldExpired), string(StatusCancelled)).Inc()
		Publish(ctx, s.publisher, events.BookingCancelled, NewEvent(cancelled, nil, s.now()))
	}
	if expired > 0 {
		logger.Info().Int("expired", expired).Time("cutoff", cutoff).Msg("Expired stale booking holds")
	}
	return expired, nil
}
