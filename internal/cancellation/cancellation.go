// Package cancellation implements court cancellation policies and the
// two-party cancellation flow: the player asks, the court owner decides, and
// an approval moves the refund from the owner's wallet to the player's.
package cancellation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/booking"
	"github.com/codr1/Padelicious/internal/catalog"
	appdb "github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/email"
	"github.com/codr1/Padelicious/internal/events"
	"github.com/codr1/Padelicious/internal/identity"
	"github.com/codr1/Padelicious/internal/metrics"
	"github.com/codr1/Padelicious/internal/wallet"
)

var (
	ErrPolicyNotFound    = apperror.NotFound("no cancellation policy is set for this court")
	ErrCourtWithoutOwner = apperror.PolicyViolation("this court has no owner, so cancellations cannot be refunded")
	ErrNotRequested      = apperror.Validation("this booking has no pending cancellation request")
)

type Service struct {
	db        *appdb.DB
	publisher events.Publisher
	notifier  *email.Notifier
	now       func() time.Time
	loc       *time.Location
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

func NewService(database *appdb.DB, opts ...Option) *Service {
	s := &Service{
		db:        database,
		publisher: events.Nop{},
		now:       time.Now,
		loc:       time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type PolicyParams struct {
	CourtID          int64
	HoursBeforeStart int64
	RefundPercentage int64
	Description      string
}

// SetPolicy creates or replaces the cancellation policy of a court.
func (s *Service) SetPolicy(ctx context.Context, caller identity.Caller, params PolicyParams) (dbgen.CancellationPolicy, error) {
	if !caller.Valid() {
		return dbgen.CancellationPolicy{}, apperror.Unauthenticated("authentication required")
	}
	if params.HoursBeforeStart < 0 {
		return dbgen.CancellationPolicy{}, apperror.Validation("hours_before_start must not be negative")
	}
	if params.RefundPercentage < 0 || params.RefundPercentage > 100 {
		return dbgen.CancellationPolicy{}, apperror.Validation("refund_percentage must be between 0 and 100")
	}

	court, err := catalog.GetCourt(ctx, s.db.Queries, params.CourtID)
	if err != nil {
		return dbgen.CancellationPolicy{}, err
	}
	if err := catalog.RequireManager(court, caller); err != nil {
		return dbgen.CancellationPolicy{}, err
	}

	now := s.now().UTC()
	policy, err := s.db.Queries.UpsertCancellationPolicy(ctx, dbgen.UpsertCancellationPolicyParams{
		CourtID:          court.ID,
		HoursBeforeStart: params.HoursBeforeStart,
		RefundPercentage: params.RefundPercentage,
		Description:      strings.TrimSpace(params.Description),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return dbgen.CancellationPolicy{}, fmt.Errorf("upsert cancellation policy: %w", err)
	}
	log.Ctx(ctx).Info().
		Int64("court_id", court.ID).
		Int64("user_id", caller.ID).
		Int64("hours_before_start", policy.HoursBeforeStart).
		Int64("refund_percentage", policy.RefundPercentage).
		Msg("Cancellation policy saved")
	return policy, nil
}

// GetPolicy returns the policy of a court.
func (s *Service) GetPolicy(ctx context.Context, courtID int64) (dbgen.CancellationPolicy, error) {
	if _, err := catalog.GetCourt(ctx, s.db.Queries, courtID); err != nil {
		return dbgen.CancellationPolicy{}, err
	}
	return loadPolicy(ctx, s.db.Queries, courtID)
}

func loadPolicy(ctx context.Context, q dbgen.Querier, courtID int64) (dbgen.CancellationPolicy, error) {
	policy, err := q.GetCancellationPolicyByCourt(ctx, courtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.CancellationPolicy{}, ErrPolicyNotFound
		}
		return dbgen.CancellationPolicy{}, fmt.Errorf("load cancellation policy: %w", err)
	}
	return policy, nil
}

// RefundAmount is total × percentage / 100.
func RefundAmount(total decimal.Decimal, percentage int64) decimal.Decimal {
	return total.Mul(decimal.NewFromInt(percentage)).Div(decimal.NewFromInt(100))
}

// RequestCancellation asks the court owner to cancel a CONFIRMED booking.
func (s *Service) RequestCancellation(ctx context.Context, caller identity.Caller, bookingID int64, reason string) (dbgen.Booking, error) {
	if !caller.Valid() {
		return dbgen.Booking{}, apperror.Unauthenticated("authentication required")
	}
	reason = strings.TrimSpace(reason)
	logger := log.Ctx(ctx).With().
		Str("component", "cancellation").
		Int64("booking_id", bookingID).
		Int64("user_id", caller.ID).
		Logger()

	var (
		updated dbgen.Booking
		policy  dbgen.CancellationPolicy
	)
	err := s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		b, err := booking.GetBooking(ctx, tx.Queries, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != caller.ID {
			return apperror.Forbidden("you are not allowed to cancel this booking")
		}
		if booking.Status(b.Status) != booking.StatusConfirmed {
			return apperror.Validation("this booking cannot be cancelled")
		}
		policy, err = loadPolicy(ctx, tx.Queries, b.CourtID)
		if err != nil {
			if errors.Is(err, ErrPolicyNotFound) {
				return apperror.PolicyViolation("no cancellation policy is set for this court")
			}
			return err
		}
		now := s.now().UTC()
		lead := time.Duration(policy.HoursBeforeStart) * time.Hour
		if b.StartTime.Sub(now) < lead {
			return apperror.PolicyViolation(fmt.Sprintf(
				"bookings must be cancelled at least %d hours before they start", policy.HoursBeforeStart))
		}

		updated, err = booking.Transition(ctx, tx.Queries, b, booking.EventRequestCancellation, now)
		if err != nil {
			return err
		}
		if err := tx.Queries.RecordCancellationRequest(ctx, dbgen.RecordCancellationRequestParams{
			RequestedAt: now,
			Reason:      sql.NullString{String: reason, Valid: reason != ""},
			ID:          b.ID,
		}); err != nil {
			return fmt.Errorf("record cancellation request: %w", err)
		}
		updated.CancellationRequestedAt = sql.NullTime{Time: now, Valid: true}
		updated.CancellationReason = sql.NullString{String: reason, Valid: reason != ""}
		return nil
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			logger.Error().Err(err).Msg("Failed to request cancellation")
		}
		return dbgen.Booking{}, err
	}
	logger.Info().Msg("Cancellation requested")

	metrics.BookingTransitions.WithLabelValues(string(booking.EventRequestCancellation), string(booking.StatusCancellationRequested)).Inc()
	booking.Publish(ctx, s.publisher, events.CancellationRequested, booking.NewEvent(updated, nil, s.now()))
	s.notifyOwner(ctx, caller.ID, updated, reason, RefundAmount(updated.TotalPrice, policy.RefundPercentage))
	return updated, nil
}

// Decision is the outcome of VerifyCancellation.
type Decision struct {
	Booking dbgen.Booking
	Refund  decimal.Decimal
}

// VerifyCancellation lets the court owner approve or reject a pending
// request. Approval refunds the player from the owner's wallet and changes
// the booking status in one transaction.
func (s *Service) VerifyCancellation(ctx context.Context, caller identity.Caller, bookingID int64, approve bool) (Decision, error) {
	if !caller.Valid() {
		return Decision{}, apperror.Unauthenticated("authentication required")
	}
	logger := log.Ctx(ctx).With().
		Str("component", "cancellation").
		Int64("booking_id", bookingID).
		Int64("user_id", caller.ID).
		Bool("approve", approve).
		Logger()

	var (
		decision Decision
		court    catalog.Court
		transfer *wallet.TransferResult
	)
	err := s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		b, err := booking.GetBooking(ctx, tx.Queries, bookingID)
		if err != nil {
			return err
		}
		court, err = catalog.GetCourt(ctx, tx.Queries, b.CourtID)
		if err != nil {
			return err
		}
		if !court.HasOwner() {
			return ErrCourtWithoutOwner
		}
		// Admins may list requests but only the court owner pays refunds.
		if !court.OwnedBy(caller.ID) {
			return apperror.Forbidden("only the court owner can decide on a cancellation")
		}
		if booking.Status(b.Status) != booking.StatusCancellationRequested {
			return ErrNotRequested
		}
		now := s.now().UTC()

		if !approve {
			decision.Booking, err = booking.Transition(ctx, tx.Queries, b, booking.EventRejectCancellation, now)
			if err != nil {
				return err
			}
			if err := tx.Queries.RecordCancellationRejected(ctx, dbgen.RecordCancellationRejectedParams{
				RejectedAt: now,
				ID:         b.ID,
			}); err != nil {
				return fmt.Errorf("record cancellation rejection: %w", err)
			}
			decision.Booking.CancellationRejectedAt = sql.NullTime{Time: now, Valid: true}
			decision.Refund = decimal.Zero
			return nil
		}

		policy, err := loadPolicy(ctx, tx.Queries, b.CourtID)
		if err != nil {
			if errors.Is(err, ErrPolicyNotFound) {
				return apperror.PolicyViolation("no cancellation policy is set for this court")
			}
			return err
		}
		refund := RefundAmount(b.TotalPrice, policy.RefundPercentage)
		if refund.IsPositive() {
			result, err := wallet.TransferRefund(ctx, tx.Queries, wallet.TransferParams{
				FromUserID: *court.OwnerID,
				ToUserID:   b.UserID,
				Amount:     refund,
				BookingID:  b.ID,
				At:         now,
			})
			if err != nil {
				return err
			}
			transfer = &result
		}

		decision.Booking, err = booking.Transition(ctx, tx.Queries, b, booking.EventApproveCancellation, now)
		if err != nil {
			return err
		}
		if err := tx.Queries.RecordCancellationVerified(ctx, dbgen.RecordCancellationVerifiedParams{
			VerifiedAt: now,
			ID:         b.ID,
		}); err != nil {
			return fmt.Errorf("record cancellation approval: %w", err)
		}
		decision.Booking.CancellationVerifiedAt = sql.NullTime{Time: now, Valid: true}
		decision.Refund = refund
		return nil
	})
	if err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindInternal:
			logger.Error().Err(err).Msg("Failed to verify cancellation")
		case apperror.KindInsufficientBalance:
			logger.Warn().Msg("Court owner cannot cover the refund")
		}
		return Decision{}, err
	}

	b := decision.Booking
	if approve {
		logger.Info().Str("refund", decision.Refund.String()).Msg("Cancellation approved")
		metrics.BookingTransitions.WithLabelValues(string(booking.EventApproveCancellation), string(booking.StatusCancellationVerified)).Inc()
		refund := decision.Refund
		booking.Publish(ctx, s.publisher, events.CancellationVerified, booking.NewEvent(b, &refund, s.now()))
		if transfer != nil {
			metrics.WalletTransactions.WithLabelValues(wallet.TypeRefund).Inc()
			metrics.WalletTransactions.WithLabelValues(wallet.TypeCancellationRefund).Inc()
			wallet.Publish(ctx, s.publisher, *court.OwnerID, transfer.Debit)
			wallet.Publish(ctx, s.publisher, b.UserID, transfer.Credit)
		}
	} else {
		logger.Info().Msg("Cancellation rejected")
		metrics.BookingTransitions.WithLabelValues(string(booking.EventRejectCancellation), string(booking.StatusCancellationRejected)).Inc()
		booking.Publish(ctx, s.publisher, events.CancellationRejected, booking.NewEvent(b, nil, s.now()))
	}
	if s.notifier != nil {
		msg := email.BuildCancellationDecision(booking.EmailDetails(court, b), approve, decision.Refund, s.loc)
		s.notifier.NotifyUser(ctx, b.UserID, msg)
	}
	return decision, nil
}

// Request is one pending cancellation as shown to a court owner.
type Request struct {
	BookingID    int64           `json:"id"`
	UserName     string          `json:"user_name"`
	UserEmail    string          `json:"user_email,omitempty"`
	CourtName    string          `json:"court_name"`
	ClubName     string          `json:"club_name"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Reason       string          `json:"cancellation_reason,omitempty"`
	RequestedAt  time.Time       `json:"requested_at"`
}

// ListFilter bounds requests by the calendar date they were made on. Both
// ends are inclusive dates in the service location.
type ListFilter struct {
	From *time.Time
	To   *time.Time
}

// ListRequests returns pending requests, newest first. Field owners see their
// own courts and admins see every court.
func (s *Service) ListRequests(ctx context.Context, caller identity.Caller, filter ListFilter) ([]Request, error) {
	if !caller.Valid() {
		return nil, apperror.Unauthenticated("authentication required")
	}
	params := dbgen.ListCancellationRequestsParams{}
	switch {
	case caller.IsAdmin():
	case caller.IsFieldOwner():
		params.OwnerID = sql.NullInt64{Int64: caller.ID, Valid: true}
	default:
		return nil, apperror.Forbidden("you are not allowed to view cancellation requests")
	}
	if filter.From != nil {
		from := startOfDay(*filter.From, s.loc)
		params.RequestedFrom = sql.NullTime{Time: from.UTC(), Valid: true}
	}
	if filter.To != nil {
		to := startOfDay(*filter.To, s.loc).AddDate(0, 0, 1).Add(-time.Millisecond)
		params.RequestedTo = sql.NullTime{Time: to.UTC(), Valid: true}
	}

	rows, err := s.db.Queries.ListCancellationRequests(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list cancellation requests: %w", err)
	}
	out := make([]Request, 0, len(rows))
	for _, row := range rows {
		refund := decimal.Zero
		if row.RefundPercentage.Valid {
			refund = RefundAmount(row.TotalPrice, row.RefundPercentage.Int64)
		}
		name := row.UserName
		if name == "" {
			name = row.UserEmail.String
		}
		out = append(out, Request{
			BookingID:    row.ID,
			UserName:     name,
			UserEmail:    row.UserEmail.String,
			CourtName:    row.CourtName,
			ClubName:     row.ClubName,
			StartTime:    row.StartTime,
			EndTime:      row.EndTime,
			TotalPrice:   row.TotalPrice,
			RefundAmount: refund,
			Reason:       row.CancellationReason.String,
			RequestedAt:  row.CancellationRequestedAt.Time,
		})
	}
	return out, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func (s *Service) notifyOwner(ctx context.Context, playerID int64, b dbgen.Booking, reason string, refund decimal.Decimal) {
	if s.notifier == nil {
		return
	}
	court, err := catalog.GetCourt(ctx, s.db.Queries, b.CourtID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("booking_id", b.ID).Msg("Failed to load court for cancellation notice")
		return
	}
	if !court.HasOwner() {
		return
	}
	playerName := ""
	if user, err := s.db.Queries.GetUserByID(ctx, playerID); err == nil {
		playerName = user.Name
	}
	msg := email.BuildCancellationRequested(booking.EmailDetails(court, b), playerName, reason, refund, s.loc)
	s.notifier.NotifyUser(ctx, *court.OwnerID, msg)
}
