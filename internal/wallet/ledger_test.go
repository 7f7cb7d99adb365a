package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/testutil"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := testutil.CreateUser(t, database, "sara", "PLAYER")

	first, err := GetOrCreate(ctx, database.Queries, userID, time.Time{})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if !first.Balance.IsZero() {
		t.Fatalf("expected empty wallet, got %s", first.Balance)
	}
	second, err := GetOrCreate(ctx, database.Queries, userID, time.Time{})
	if err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same wallet, got %d and %d", first.ID, second.ID)
	}
}

func TestChargeAndPayKeepLedgerConsistent(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := testutil.CreateUser(t, database, "reza", "PLAYER")

	if _, err := Charge(ctx, database.Queries, EntryParams{UserID: userID, Amount: amount("500000")}); err != nil {
		t.Fatalf("charge: %v", err)
	}
	bookingID := int64(7)
	res, err := PayFromWallet(ctx, database.Queries, EntryParams{
		UserID:    userID,
		Amount:    amount("150000.50"),
		BookingID: &bookingID,
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !res.Wallet.Balance.Equal(amount("349999.50")) {
		t.Fatalf("expected balance 349999.50, got %s", res.Wallet.Balance)
	}
	if res.Transaction.Type != TypePayment || !res.Transaction.Amount.Equal(amount("-150000.50")) {
		t.Fatalf("unexpected payment entry: %+v", res.Transaction)
	}
	if res.Transaction.Description != "Payment for booking #7" {
		t.Fatalf("unexpected description %q", res.Transaction.Description)
	}

	rec, err := Reconcile(ctx, database.Queries, userID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !rec.Consistent() {
		t.Fatalf("balance %s does not match ledger sum %s", rec.Balance, rec.LedgerSum)
	}
}

func TestDebitRejectsInsufficientBalance(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := testutil.CreateUser(t, database, "nima", "PLAYER")

	if _, err := Charge(ctx, database.Queries, EntryParams{UserID: userID, Amount: amount("1000")}); err != nil {
		t.Fatalf("charge: %v", err)
	}
	_, err := PayFromWallet(ctx, database.Queries, EntryParams{UserID: userID, Amount: amount("1000.01")})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if apperror.KindOf(err) != apperror.KindInsufficientBalance {
		t.Fatalf("expected insufficient balance kind, got %v", apperror.KindOf(err))
	}

	w, err := database.Queries.GetWalletByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	if !w.Balance.Equal(amount("1000")) {
		t.Fatalf("balance changed after rejected debit: %s", w.Balance)
	}
}

func TestApplyRejectsNonPositiveAmounts(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := testutil.CreateUser(t, database, "leila", "PLAYER")

	for _, amt := range []string{"0", "-10"} {
		_, err := Charge(ctx, database.Queries, EntryParams{UserID: userID, Amount: amount(amt)})
		if apperror.KindOf(err) != apperror.KindValidation {
			t.Fatalf("amount %s: expected validation error, got %v", amt, err)
		}
	}
}

func TestTransferRefundMovesFundsBetweenWallets(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, database, "owner", "FIELD_OWNER")
	player := testutil.CreateUser(t, database, "player", "PLAYER")

	if _, err := Charge(ctx, database.Queries, EntryParams{UserID: owner, Amount: amount("200000")}); err != nil {
		t.Fatalf("fund owner: %v", err)
	}
	res, err := TransferRefund(ctx, database.Queries, TransferParams{
		FromUserID: owner,
		ToUserID:   player,
		Amount:     amount("75000"),
		BookingID:  3,
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !res.Debit.Wallet.Balance.Equal(amount("125000")) {
		t.Fatalf("expected owner balance 125000, got %s", res.Debit.Wallet.Balance)
	}
	if !res.Credit.Wallet.Balance.Equal(amount("75000")) {
		t.Fatalf("expected player balance 75000, got %s", res.Credit.Wallet.Balance)
	}
	if res.Debit.Transaction.Type != TypeRefund || res.Credit.Transaction.Type != TypeCancellationRefund {
		t.Fatalf("unexpected entry types %s/%s", res.Debit.Transaction.Type, res.Credit.Transaction.Type)
	}

	for _, id := range []int64{owner, player} {
		rec, err := Reconcile(ctx, database.Queries, id)
		if err != nil {
			t.Fatalf("reconcile %d: %v", id, err)
		}
		if !rec.Consistent() {
			t.Fatalf("wallet of user %d inconsistent: %s vs %s", id, rec.Balance, rec.LedgerSum)
		}
	}
}

func TestTransferRefundFailsWhenOwnerCannotCover(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, database, "owner", "FIELD_OWNER")
	player := testutil.CreateUser(t, database, "player", "PLAYER")

	_, err := TransferRefund(ctx, database.Queries, TransferParams{
		FromUserID: owner,
		ToUserID:   player,
		Amount:     amount("10"),
		BookingID:  1,
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestListTransactionsReturnsNewestFiftyEntries(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := testutil.CreateUser(t, database, "ali", "PLAYER")

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < RecentTransactionsLimit+5; i++ {
		if _, err := Charge(ctx, database.Queries, EntryParams{
			UserID: userID,
			Amount: decimal.NewFromInt(int64(i + 1)),
			At:     base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("charge %d: %v", i, err)
		}
	}

	_, txs, err := ListTransactions(ctx, database.Queries, userID, base)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != RecentTransactionsLimit {
		t.Fatalf("expected %d entries, got %d", RecentTransactionsLimit, len(txs))
	}
	if !txs[0].Amount.Equal(decimal.NewFromInt(RecentTransactionsLimit + 5)) {
		t.Fatalf("expected newest entry first, got %s", txs[0].Amount)
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].CreatedAt.After(txs[i-1].CreatedAt) {
			t.Fatalf("entries out of order at %d", i)
		}
	}
}
