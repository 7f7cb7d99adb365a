// Package wallet keeps per-user balances as an append-only ledger. Every
// mutation appends one signed transaction and moves the cached balance by the
// same amount. Functions take a dbgen.Querier so callers can compose them
// inside a larger transaction.
package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/apperror"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
)

const (
	TypeCharge             = "CHARGE"
	TypePayment            = "PAYMENT"
	TypeRefund             = "REFUND"
	TypeCancellationRefund = "CANCELLATION_REFUND"

	StatusCompleted = "COMPLETED"

	RecentTransactionsLimit = 50
)

var ErrInsufficientBalance = apperror.InsufficientBalance("insufficient wallet balance")

type EntryParams struct {
	UserID      int64
	Amount      decimal.Decimal
	BookingID   *int64
	Description string
	At          time.Time
}

type EntryResult struct {
	Wallet      dbgen.Wallet
	Transaction dbgen.WalletTransaction
}

// GetOrCreate returns the user's wallet, creating an empty one on first use.
func GetOrCreate(ctx context.Context, q dbgen.Querier, userID int64, at time.Time) (dbgen.Wallet, error) {
	if q == nil {
		return dbgen.Wallet{}, fmt.Errorf("queries are required")
	}
	if userID <= 0 {
		return dbgen.Wallet{}, apperror.Validation("user_id must be a positive integer")
	}
	w, err := q.GetWalletByUserID(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return dbgen.Wallet{}, fmt.Errorf("load wallet: %w", err)
	}
	at = normalizeAt(at)
	w, err = q.CreateWallet(ctx, dbgen.CreateWalletParams{
		UserID:    userID,
		Balance:   decimal.Zero,
		CreatedAt: at,
		UpdatedAt: at,
	})
	if err != nil {
		return dbgen.Wallet{}, fmt.Errorf("create wallet: %w", err)
	}
	return w, nil
}

// Charge credits a top-up.
func Charge(ctx context.Context, q dbgen.Querier, params EntryParams) (EntryResult, error) {
	if params.Description == "" {
		params.Description = "Wallet top-up"
	}
	return apply(ctx, q, params, TypeCharge, false)
}

// PayFromWallet debits a booking payment.
func PayFromWallet(ctx context.Context, q dbgen.Querier, params EntryParams) (EntryResult, error) {
	if params.Description == "" {
		params.Description = describe("Payment for booking", params.BookingID)
	}
	return apply(ctx, q, params, TypePayment, true)
}

// RefundToWallet credits a player's cancellation refund.
func RefundToWallet(ctx context.Context, q dbgen.Querier, params EntryParams) (EntryResult, error) {
	if params.Description == "" {
		params.Description = describe("Cancellation refund for booking", params.BookingID)
	}
	return apply(ctx, q, params, TypeCancellationRefund, false)
}

// DeductFromFieldOwnerWallet debits the refund a field owner pays out.
func DeductFromFieldOwnerWallet(ctx context.Context, q dbgen.Querier, params EntryParams) (EntryResult, error) {
	if params.Description == "" {
		params.Description = describe("Refund paid for booking", params.BookingID)
	}
	return apply(ctx, q, params, TypeRefund, true)
}

type TransferParams struct {
	FromUserID int64
	ToUserID   int64
	Amount     decimal.Decimal
	BookingID  int64
	At         time.Time
}

type TransferResult struct {
	Debit  EntryResult
	Credit EntryResult
}

// TransferRefund debits the field owner and credits the player for one
// booking. Both legs must run on the same transactional querier.
func TransferRefund(ctx context.Context, q dbgen.Querier, params TransferParams) (TransferResult, error) {
	if params.FromUserID == params.ToUserID {
		return TransferResult{}, apperror.Validation("refund source and destination must differ")
	}
	bookingID := params.BookingID
	debit, err := DeductFromFieldOwnerWallet(ctx, q, EntryParams{
		UserID:    params.FromUserID,
		Amount:    params.Amount,
		BookingID: &bookingID,
		At:        params.At,
	})
	if err != nil {
		return TransferResult{}, err
	}
	credit, err := RefundToWallet(ctx, q, EntryParams{
		UserID:    params.ToUserID,
		Amount:    params.Amount,
		BookingID: &bookingID,
		At:        params.At,
	})
	if err != nil {
		return TransferResult{}, err
	}
	return TransferResult{Debit: debit, Credit: credit}, nil
}

// ListTransactions returns the most recent ledger entries, newest first.
func ListTransactions(ctx context.Context, q dbgen.Querier, userID int64, at time.Time) (dbgen.Wallet, []dbgen.WalletTransaction, error) {
	w, err := GetOrCreate(ctx, q, userID, at)
	if err != nil {
		return dbgen.Wallet{}, nil, err
	}
	txs, err := q.ListWalletTransactions(ctx, dbgen.ListWalletTransactionsParams{
		WalletID: w.ID,
		Limit:    RecentTransactionsLimit,
	})
	if err != nil {
		return dbgen.Wallet{}, nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	return w, txs, nil
}

type Reconciliation struct {
	WalletID  int64
	Balance   decimal.Decimal
	LedgerSum decimal.Decimal
}

func (r Reconciliation) Consistent() bool {
	return r.Balance.Equal(r.LedgerSum)
}

// Reconcile recomputes the ledger sum for a user's wallet.
func Reconcile(ctx context.Context, q dbgen.Querier, userID int64) (Reconciliation, error) {
	w, err := q.GetWalletByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reconciliation{}, apperror.NotFound("wallet not found")
		}
		return Reconciliation{}, fmt.Errorf("load wallet: %w", err)
	}
	txs, err := q.ListAllWalletTransactions(ctx, w.ID)
	if err != nil {
		return Reconciliation{}, fmt.Errorf("list wallet transactions: %w", err)
	}
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}
	return Reconciliation{WalletID: w.ID, Balance: w.Balance, LedgerSum: sum}, nil
}

func apply(ctx context.Context, q dbgen.Querier, params EntryParams, txType string, debit bool) (EntryResult, error) {
	if !params.Amount.IsPositive() {
		return EntryResult{}, apperror.Validation("amount must be greater than 0")
	}
	at := normalizeAt(params.At)

	w, err := GetOrCreate(ctx, q, params.UserID, at)
	if err != nil {
		return EntryResult{}, err
	}

	signed := params.Amount
	if debit {
		if w.Balance.LessThan(params.Amount) {
			return EntryResult{}, ErrInsufficientBalance
		}
		signed = params.Amount.Neg()
	}

	bookingID := sql.NullInt64{}
	if params.BookingID != nil {
		bookingID = sql.NullInt64{Int64: *params.BookingID, Valid: true}
	}
	tx, err := q.CreateWalletTransaction(ctx, dbgen.CreateWalletTransactionParams{
		WalletID:    w.ID,
		BookingID:   bookingID,
		Amount:      signed,
		Type:        txType,
		Description: params.Description,
		Status:      StatusCompleted,
		CreatedAt:   at,
	})
	if err != nil {
		return EntryResult{}, fmt.Errorf("append wallet transaction: %w", err)
	}

	w.Balance = w.Balance.Add(signed)
	w.UpdatedAt = at
	if err := q.UpdateWalletBalance(ctx, dbgen.UpdateWalletBalanceParams{
		Balance:   w.Balance,
		UpdatedAt: at,
		ID:        w.ID,
	}); err != nil {
		return EntryResult{}, fmt.Errorf("update wallet balance: %w", err)
	}

	return EntryResult{Wallet: w, Transaction: tx}, nil
}

func describe(prefix string, bookingID *int64) string {
	if bookingID == nil {
		return prefix
	}
	return fmt.Sprintf("%s #%d", prefix, *bookingID)
}

func normalizeAt(at time.Time) time.Time {
	if at.IsZero() {
		at = time.Now()
	}
	return at.UTC()
}
