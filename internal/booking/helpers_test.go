package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	appdb "github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/events"
	"github.com/codr1/Padelicious/internal/identity"
	"github.com/codr1/Padelicious/internal/payment"
	"github.com/codr1/Padelicious/internal/testutil"
)

type fixture struct {
	db       *appdb.DB
	svc      *Service
	gateway  *payment.MockGateway
	recorder *events.Recorder
	loc      *time.Location
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Tehran")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	f := &fixture{
		db:       testutil.NewTestDB(t),
		gateway:  &payment.MockGateway{},
		recorder: &events.Recorder{},
		loc:      loc,
		now:      time.Date(2025, 6, 1, 9, 0, 0, 0, loc),
	}
	f.svc = NewService(f.db, f.gateway,
		WithClock(func() time.Time { return f.now }),
		WithLocation(loc),
		WithPublisher(f.recorder),
	)
	return f
}

// at returns a local time on the day after the fixture clock.
func (f *fixture) at(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, f.loc)
}

func (f *fixture) player(t *testing.T, name string) identity.Caller {
	t.Helper()
	return identity.Caller{ID: testutil.CreateUser(t, f.db, name, "PLAYER"), Role: identity.RolePlayer}
}

func (f *fixture) court(t *testing.T, name string) dbgen.Court {
	t.Helper()
	return testutil.CreateCourt(t, f.db, testutil.CourtOptions{Name: name, BasePrice: "100000"})
}

// insertBooking writes a booking row directly, bypassing the service.
func (f *fixture) insertBooking(t *testing.T, userID, courtID int64, start, end time.Time, status Status, createdAt time.Time) dbgen.Booking {
	t.Helper()
	b, err := f.db.Queries.CreateBooking(context.Background(), dbgen.CreateBookingParams{
		UserID:        userID,
		CourtID:       courtID,
		StartTime:     start.UTC(),
		EndTime:       end.UTC(),
		TotalPrice:    decimal.NewFromInt(100000),
		Status:        string(status),
		PaymentMethod: string(PaymentGateway),
		InviteToken:   sql.NullString{},
		CreatedAt:     createdAt.UTC(),
		UpdatedAt:     createdAt.UTC(),
	})
	if err != nil {
		t.Fatalf("insert booking: %v", err)
	}
	return b
}

func (f *fixture) status(t *testing.T, bookingID int64) Status {
	t.Helper()
	b, err := f.db.Queries.GetBooking(context.Background(), bookingID)
	if err != nil {
		t.Fatalf("load booking %d: %v", bookingID, err)
	}
	return Status(b.Status)
}
