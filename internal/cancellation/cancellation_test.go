package cancellation

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/booking"
	appdb "github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/events"
	"github.com/codr1/Padelicious/internal/identity"
	"github.com/codr1/Padelicious/internal/testutil"
	"github.com/codr1/Padelicious/internal/wallet"
)

type fixture struct {
	db       *appdb.DB
	svc      *Service
	recorder *events.Recorder
	loc      *time.Location
	now      time.Time

	owner  identity.Caller
	player identity.Caller
	admin  identity.Caller
	court  dbgen.Court
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Tehran")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	f := &fixture{
		db:       testutil.NewTestDB(t),
		recorder: &events.Recorder{},
		loc:      loc,
		now:      time.Date(2025, 6, 1, 9, 0, 0, 0, loc),
	}
	f.svc = NewService(f.db,
		WithClock(func() time.Time { return f.now }),
		WithLocation(loc),
		WithPublisher(f.recorder),
	)
	f.owner = identity.Caller{ID: testutil.CreateUser(t, f.db, "owner", "FIELD_OWNER"), Role: identity.RoleFieldOwner}
	f.player = identity.Caller{ID: testutil.CreateUser(t, f.db, "player", "PLAYER"), Role: identity.RolePlayer}
	f.admin = identity.Caller{ID: testutil.CreateUser(t, f.db, "admin", "ADMIN"), Role: identity.RoleAdmin}
	f.court = testutil.CreateCourt(t, f.db, testutil.CourtOptions{Name: "Center", OwnerID: f.owner.ID})
	return f
}

// day returns a local time n days after the fixture clock's date.
func (f *fixture) day(n, hour int) time.Time {
	return time.Date(2025, 6, 1+n, hour, 0, 0, 0, f.loc)
}

func (f *fixture) confirmedBooking(t *testing.T, courtID, userID int64, start time.Time, price string) dbgen.Booking {
	t.Helper()
	b, err := f.db.Queries.CreateBooking(context.Background(), dbgen.CreateBookingParams{
		UserID:        userID,
		CourtID:       courtID,
		StartTime:     start.UTC(),
		EndTime:       start.Add(time.Hour).UTC(),
		TotalPrice:    decimal.RequireFromString(price),
		Status:        string(booking.StatusConfirmed),
		PaymentMethod: string(booking.PaymentGateway),
		InviteToken:   sql.NullString{},
		CreatedAt:     f.now.UTC(),
		UpdatedAt:     f.now.UTC(),
	})
	if err != nil {
		t.Fatalf("insert booking: %v", err)
	}
	return b
}

func (f *fixture) setPolicy(t *testing.T, hours, pct int64) {
	t.Helper()
	if _, err := f.svc.SetPolicy(context.Background(), f.owner, PolicyParams{
		CourtID:          f.court.ID,
		HoursBeforeStart: hours,
		RefundPercentage: pct,
	}); err != nil {
		t.Fatalf("set policy: %v", err)
	}
}

func (f *fixture) fund(t *testing.T, userID int64, amount string) {
	t.Helper()
	if _, err := wallet.Charge(context.Background(), f.db.Queries, wallet.EntryParams{
		UserID: userID,
		Amount: decimal.RequireFromString(amount),
		At:     f.now,
	}); err != nil {
		t.Fatalf("fund wallet: %v", err)
	}
}

func (f *fixture) balance(t *testing.T, userID int64) decimal.Decimal {
	t.Helper()
	w, err := wallet.GetOrCreate(context.Background(), f.db.Queries, userID, f.now)
	if err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	return w.Balance
}

func (f *fixture) bookingStatus(t *testing.T, id int64) booking.Status {
	t.Helper()
	b, err := f.db.Queries.GetBooking(context.Background(), id)
	if err != nil {
		t.Fatalf("load booking: %v", err)
	}
	return booking.Status(b.Status)
}

func TestSetPolicyValidation(t *testing.T) {
	f := newFixture(t)
	stranger := identity.Caller{ID: testutil.CreateUser(t, f.db, "other-owner", "FIELD_OWNER"), Role: identity.RoleFieldOwner}

	tests := []struct {
		name   string
		caller identity.Caller
		params PolicyParams
		want   apperror.Kind
	}{
		{"negative hours", f.owner, PolicyParams{CourtID: f.court.ID, HoursBeforeStart: -1, RefundPercentage: 50}, apperror.KindValidation},
		{"percentage above 100", f.owner, PolicyParams{CourtID: f.court.ID, HoursBeforeStart: 1, RefundPercentage: 101}, apperror.KindValidation},
		{"other owner", stranger, PolicyParams{CourtID: f.court.ID, HoursBeforeStart: 1, RefundPercentage: 50}, apperror.KindAuthorization},
		{"player", f.player, PolicyParams{CourtID: f.court.ID, HoursBeforeStart: 1, RefundPercentage: 50}, apperror.KindAuthorization},
		{"unknown court", f.owner, PolicyParams{CourtID: 9999, HoursBeforeStart: 1, RefundPercentage: 50}, apperror.KindNotFound},
		{"anonymous", identity.Caller{}, PolicyParams{CourtID: f.court.ID}, apperror.KindAuth},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SetPolicy(context.Background(), tc.caller, tc.params)
			if apperror.KindOf(err) != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
		})
	}

	if _, err := f.svc.SetPolicy(context.Background(), f.admin, PolicyParams{
		CourtID: f.court.ID, HoursBeforeStart: 12, RefundPercentage: 80, Description: " admin set ",
	}); err != nil {
		t.Fatalf("admin set policy: %v", err)
	}
	f.setPolicy(t, 24, 50)
	policy, err := f.svc.GetPolicy(context.Background(), f.court.ID)
	if err != nil {
		t.Fatalf("get policy: %v", err)
	}
	if policy.HoursBeforeStart != 24 || policy.RefundPercentage != 50 {
		t.Fatalf("expected upserted policy, got %+v", policy)
	}
}

func TestGetPolicyMissing(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.GetPolicy(context.Background(), f.court.ID); err != ErrPolicyNotFound {
		t.Fatalf("expected ErrPolicyNotFound, got %v", err)
	}
}

func TestApprovedCancellationMovesRefund(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setPolicy(t, 24, 50)
	f.fund(t, f.owner.ID, "100000")
	b := f.confirmedBooking(t, f.court.ID, f.player.ID, f.day(2, 10), "100000")

	requested, err := f.svc.RequestCancellation(ctx, f.player, b.ID, "  rain  ")
	if err != nil {
		t.Fatalf("request cancellation: %v", err)
	}
	if booking.Status(requested.Status) != booking.StatusCancellationRequested {
		t.Fatalf("expected CANCELLATION_REQUESTED, got %s", requested.Status)
	}
	stored, err := f.db.Queries.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("load booking: %v", err)
	}
	if stored.CancellationReason.String != "rain" || !stored.CancellationRequestedAt.Valid {
		t.Fatalf("request not stamped: %+v", stored)
	}

	f.now = f.now.Add(time.Hour)
	decision, err := f.svc.VerifyCancellation(ctx, f.owner, b.ID, true)
	if err != nil {
		t.Fatalf("verify cancellation: %v", err)
	}
	if !decision.Refund.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected refund 50000, got %s", decision.Refund)
	}
	if got := f.bookingStatus(t, b.ID); got != booking.StatusCancellationVerified {
		t.Fatalf("expected CANCELLATION_VERIFIED, got %s", got)
	}
	if got := f.balance(t, f.owner.ID); !got.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected owner balance 50000, got %s", got)
	}
	if got := f.balance(t, f.player.ID); !got.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected player balance 50000, got %s", got)
	}

	_, playerTxs, err := wallet.ListTransactions(ctx, f.db.Queries, f.player.ID, f.now)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(playerTxs) != 1 || playerTxs[0].Type != wallet.TypeCancellationRefund || playerTxs[0].BookingID.Int64 != b.ID {
		t.Fatalf("unexpected player ledger: %+v", playerTxs)
	}
	_, ownerTxs, err := wallet.ListTransactions(ctx, f.db.Queries, f.owner.ID, f.now)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(ownerTxs) != 2 || ownerTxs[0].Type != wallet.TypeRefund || !ownerTxs[0].Amount.Equal(decimal.NewFromInt(-50000)) {
		t.Fatalf("unexpected owner ledger: %+v", ownerTxs)
	}

	keys := strings.Join(f.recorder.Keys(), ",")
	for _, want := range []string{events.CancellationRequested, events.CancellationVerified, events.WalletTransactionAdded} {
		if !strings.Contains(keys, want) {
			t.Fatalf("expected event %s in %s", want, keys)
		}
	}

	if _, err := f.svc.VerifyCancellation(ctx, f.owner, b.ID, true); err != ErrNotRequested {
		t.Fatalf("expected second approval to fail, got %v", err)
	}
}

func TestApprovalRollsBackWhenOwnerCannotPay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setPolicy(t, 24, 50)
	f.fund(t, f.owner.ID, "10000")
	b := f.confirmedBooking(t, f.court.ID, f.player.ID, f.day(2, 10), "100000")

	if _, err := f.svc.RequestCancellation(ctx, f.player, b.ID, ""); err != nil {
		t.Fatalf("request cancellation: %v", err)
	}
	_, err := f.svc.VerifyCancellation(ctx, f.owner, b.ID, true)
	if apperror.KindOf(err) != apperror.KindInsufficientBalance {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if got := f.bookingStatus(t, b.ID); got != booking.StatusCancellationRequested {
		t.Fatalf("expected booking to stay requested, got %s", got)
	}
	if got := f.balance(t, f.owner.ID); !got.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected owner balance unchanged, got %s", got)
	}
	if got := f.balance(t, f.player.ID); !got.IsZero() {
		t.Fatalf("expected player balance 0, got %s", got)
	}
	rows, err := f.db.Queries.ListWalletTransactionsByBooking(ctx, sql.NullInt64{Int64: b.ID, Valid: true})
	if err != nil {
		t.Fatalf("list booking transactions: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no ledger rows for booking, got %d", len(rows))
	}
}

func TestRejectedCancellation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setPolicy(t, 24, 50)
	b := f.confirmedBooking(t, f.court.ID, f.player.ID, f.day(2, 10), "100000")

	if _, err := f.svc.RequestCancellation(ctx, f.player, b.ID, ""); err != nil {
		t.Fatalf("request cancellation: %v", err)
	}
	decision, err := f.svc.VerifyCancellation(ctx, f.owner, b.ID, false)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if booking.Status(decision.Booking.Status) != booking.StatusCancellationRejected || !decision.Refund.IsZero() {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	// Rejection is final.
	if _, err := f.svc.RequestCancellation(ctx, f.player, b.ID, ""); apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRequestCancellationRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soon := f.confirmedBooking(t, f.court.ID, f.player.ID, f.day(0, 20), "100000")

	_, err := f.svc.RequestCancellation(ctx, f.player, soon.ID, "")
	if apperror.KindOf(err) != apperror.KindPolicyViolation {
		t.Fatalf("expected policy violation without policy, got %v", err)
	}

	f.setPolicy(t, 24, 50)
	_, err = f.svc.RequestCancellation(ctx, f.player, soon.ID, "")
	if apperror.KindOf(err) != apperror.KindPolicyViolation || !strings.Contains(err.Error(), "24 hours") {
		t.Fatalf("expected policy violation naming 24 hours, got %v", err)
	}
	if got := f.bookingStatus(t, soon.ID); got != booking.StatusConfirmed {
		t.Fatalf("expected booking unchanged, got %s", got)
	}

	if _, err := f.svc.RequestCancellation(ctx, f.owner, soon.ID, ""); apperror.KindOf(err) != apperror.KindAuthorization {
		t.Fatalf("expected authorization error for non-owner, got %v", err)
	}
	if _, err := f.svc.RequestCancellation(ctx, f.player, soon.ID+100, ""); apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRequestCancellationLeadBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setPolicy(t, 24, 50)
	start := f.day(2, 10)
	b := f.confirmedBooking(t, f.court.ID, f.player.ID, start, "100000")

	f.now = start.Add(-24*time.Hour + time.Second)
	_, err := f.svc.RequestCancellation(ctx, f.player, b.ID, "")
	if apperror.KindOf(err) != apperror.KindPolicyViolation {
		t.Fatalf("expected policy violation one second inside the window, got %v", err)
	}
	if got := f.bookingStatus(t, b.ID); got != booking.StatusConfirmed {
		t.Fatalf("expected booking unchanged, got %s", got)
	}

	f.now = start.Add(-24 * time.Hour)
	if _, err := f.svc.RequestCancellation(ctx, f.player, b.ID, ""); err != nil {
		t.Fatalf("request exactly 24 hours before start: %v", err)
	}
	if got := f.bookingStatus(t, b.ID); got != booking.StatusCancellationRequested {
		t.Fatalf("expected CANCELLATION_REQUESTED, got %s", got)
	}
}

func TestVerifyCancellationAuthority(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setPolicy(t, 1, 100)
	f.fund(t, f.owner.ID, "500000")
	b := f.confirmedBooking(t, f.court.ID, f.player.ID, f.day(2, 10), "100000")
	if _, err := f.svc.RequestCancellation(ctx, f.player, b.ID, ""); err != nil {
		t.Fatalf("request cancellation: %v", err)
	}

	if _, err := f.svc.VerifyCancellation(ctx, f.admin, b.ID, true); apperror.KindOf(err) != apperror.KindAuthorization {
		t.Fatalf("expected admins to be refused, got %v", err)
	}
	if _, err := f.svc.VerifyCancellation(ctx, f.player, b.ID, true); apperror.KindOf(err) != apperror.KindAuthorization {
		t.Fatalf("expected player to be refused, got %v", err)
	}

	ownerless := testutil.CreateCourt(t, f.db, testutil.CourtOptions{Name: "Public"})
	orphan := f.confirmedBooking(t, ownerless.ID, f.player.ID, f.day(3, 10), "100000")
	if _, err := f.db.Queries.TransitionBookingStatus(ctx, dbgen.TransitionBookingStatusParams{
		ToStatus:   string(booking.StatusCancellationRequested),
		UpdatedAt:  f.now.UTC(),
		ID:         orphan.ID,
		FromStatus: string(booking.StatusConfirmed),
	}); err != nil {
		t.Fatalf("force status: %v", err)
	}
	if _, err := f.svc.VerifyCancellation(ctx, f.admin, orphan.ID, true); err != ErrCourtWithoutOwner {
		t.Fatalf("expected ownerless court to fail closed, got %v", err)
	}
	if got := f.bookingStatus(t, orphan.ID); got != booking.StatusCancellationRequested {
		t.Fatalf("expected orphan booking unchanged, got %s", got)
	}
}

func TestListRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setPolicy(t, 1, 50)

	otherOwner := identity.Caller{ID: testutil.CreateUser(t, f.db, "other-owner", "FIELD_OWNER"), Role: identity.RoleFieldOwner}
	otherCourt := testutil.CreateCourt(t, f.db, testutil.CourtOptions{Name: "Side", OwnerID: otherOwner.ID})
	if _, err := f.svc.SetPolicy(ctx, otherOwner, PolicyParams{CourtID: otherCourt.ID, HoursBeforeStart: 1, RefundPercentage: 25}); err != nil {
		t.Fatalf("set other policy: %v", err)
	}

	first := f.confirmedBooking(t, f.court.ID, f.player.ID, f.day(5, 10), "100000")
	second := f.confirmedBooking(t, f.court.ID, f.player.ID, f.day(5, 12), "200000")
	other := f.confirmedBooking(t, otherCourt.ID, f.player.ID, f.day(5, 14), "100000")

	if _, err := f.svc.RequestCancellation(ctx, f.player, first.ID, "sick"); err != nil {
		t.Fatalf("request first: %v", err)
	}
	f.now = f.day(1, 22)
	if _, err := f.svc.RequestCancellation(ctx, f.player, second.ID, ""); err != nil {
		t.Fatalf("request second: %v", err)
	}
	if _, err := f.svc.RequestCancellation(ctx, f.player, other.ID, ""); err != nil {
		t.Fatalf("request other: %v", err)
	}

	requests, err := f.svc.ListRequests(ctx, f.owner, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(requests) != 2 || requests[0].BookingID != second.ID || requests[1].BookingID != first.ID {
		t.Fatalf("expected own requests newest first, got %+v", requests)
	}
	if !requests[0].RefundAmount.Equal(decimal.NewFromInt(100000)) || requests[1].Reason != "sick" {
		t.Fatalf("unexpected request details: %+v", requests)
	}

	all, err := f.svc.ListRequests(ctx, f.admin, ListFilter{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected admin to see 3 requests, got %d", len(all))
	}

	// The end date covers the whole day, late evening included.
	day1 := f.day(1, 0)
	filtered, err := f.svc.ListRequests(ctx, f.owner, ListFilter{From: &day1, To: &day1})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(filtered) != 1 || filtered[0].BookingID != second.ID {
		t.Fatalf("expected only the day-1 request, got %+v", filtered)
	}
	day0 := f.day(0, 0)
	filtered, err = f.svc.ListRequests(ctx, f.owner, ListFilter{To: &day0})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(filtered) != 1 || filtered[0].BookingID != first.ID {
		t.Fatalf("expected only the day-0 request, got %+v", filtered)
	}

	if _, err := f.svc.ListRequests(ctx, f.player, ListFilter{}); apperror.KindOf(err) != apperror.KindAuthorization {
		t.Fatalf("expected players to be refused, got %v", err)
	}
}

func TestRefundAmount(t *testing.T) {
	tests := []struct {
		total string
		pct   int64
		want  string
	}{
		{"100000", 50, "50000"},
		{"150000", 100, "150000"},
		{"99999", 0, "0"},
		{"12345", 10, "1234.5"},
	}
	for _, tc := range tests {
		got := RefundAmount(decimal.RequireFromString(tc.total), tc.pct)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("RefundAmount(%s, %d) = %s, want %s", tc.total, tc.pct, got, tc.want)
		}
	}
}
