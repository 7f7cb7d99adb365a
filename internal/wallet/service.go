package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/apperror"
	appdb "github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/events"
	"github.com/codr1/Padelicious/internal/identity"
	"github.com/codr1/Padelicious/internal/metrics"
	"github.com/codr1/Padelicious/internal/payment"
)

// MinimumCharge is the smallest top-up accepted through the gateway.
var MinimumCharge = decimal.NewFromInt(1000)

type Service struct {
	db             *appdb.DB
	gateway        payment.Gateway
	publisher      events.Publisher
	now            func() time.Time
	paymentTimeout time.Duration
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
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
		paymentTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wallet returns the caller's wallet, creating it on first access.
func (s *Service) Wallet(ctx context.Context, caller identity.Caller) (dbgen.Wallet, error) {
	if !caller.Valid() {
		return dbgen.Wallet{}, apperror.Unauthenticated("authentication required")
	}
	var w dbgen.Wallet
	err := s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		var err error
		w, err = GetOrCreate(ctx, tx.Queries, caller.ID, s.now())
		return err
	})
	return w, err
}

// Transactions returns the caller's latest ledger entries.
func (s *Service) Transactions(ctx context.Context, caller identity.Caller) ([]dbgen.WalletTransaction, error) {
	if !caller.Valid() {
		return nil, apperror.Unauthenticated("authentication required")
	}
	var txs []dbgen.WalletTransaction
	err := s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		var err error
		_, txs, err = ListTransactions(ctx, tx.Queries, caller.ID, s.now())
		return err
	})
	return txs, err
}

// Charge tops up the caller's wallet after the gateway approves the amount.
func (s *Service) Charge(ctx context.Context, caller identity.Caller, amount decimal.Decimal) (EntryResult, error) {
	if !caller.Valid() {
		return EntryResult{}, apperror.Unauthenticated("authentication required")
	}
	if amount.LessThan(MinimumCharge) {
		return EntryResult{}, apperror.Validation(fmt.Sprintf("minimum charge amount is %s", MinimumCharge))
	}
	logger := log.Ctx(ctx).With().Str("component", "wallet").Int64("user_id", caller.ID).Logger()

	payCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()
	started := time.Now()
	res, err := s.gateway.Initiate(payCtx, amount, fmt.Sprintf("wallet-%d-%d", caller.ID, s.now().UnixMilli()))
	if err != nil || !res.Success {
		metrics.ObservePayment(started, "failed")
		logger.Warn().Err(err).Str("message", res.Message).Msg("Wallet charge payment failed")
		return EntryResult{}, apperror.PaymentFailure("payment was not completed")
	}
	metrics.ObservePayment(started, "success")

	var result EntryResult
	err = s.db.RunInTx(ctx, func(tx *appdb.DB) error {
		var err error
		result, err = Charge(ctx, tx.Queries, EntryParams{
			UserID:      caller.ID,
			Amount:      amount,
			Description: fmt.Sprintf("Wallet top-up (%s)", res.TransactionID),
			At:          s.now(),
		})
		return err
	})
	if err != nil {
		logger.Error().Err(err).Str("transaction_id", res.TransactionID).Msg("Failed to credit wallet after approved payment")
		return EntryResult{}, err
	}

	metrics.WalletTransactions.WithLabelValues(TypeCharge).Inc()
	Publish(ctx, s.publisher, caller.ID, result)
	logger.Info().Int64("wallet_id", result.Wallet.ID).Str("amount", amount.String()).Msg("Wallet charged")
	return result, nil
}

// Publish emits a wallet event for a committed ledger entry.
func Publish(ctx context.Context, publisher events.Publisher, userID int64, entry EntryResult) {
	if publisher == nil {
		return
	}
	evt := events.WalletEvent{
		WalletID:   entry.Wallet.ID,
		UserID:     userID,
		Type:       entry.Transaction.Type,
		Amount:     entry.Transaction.Amount,
		Balance:    entry.Wallet.Balance,
		OccurredAt: entry.Transaction.CreatedAt,
	}
	if entry.Transaction.BookingID.Valid {
		id := entry.Transaction.BookingID.Int64
		evt.BookingID = &id
	}
	if err := publisher.Publish(ctx, events.WalletTransactionAdded, evt); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("wallet_id", entry.Wallet.ID).Msg("Failed to publish wallet event")
	}
}
