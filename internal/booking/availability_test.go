package booking

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/testutil"
)

func TestAvailableSlotsPricesAndBlocksConfirmedBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	player := f.player(t, "sara")
	court := f.court(t, "Center")
	testutil.AddPricingRule(t, f.db, court.ID, "18:00", "23:00", "1.5")

	f.insertBooking(t, player.ID, court.ID, f.at(10, 0), f.at(11, 0), StatusConfirmed, f.now)
	f.insertBooking(t, player.ID, court.ID, f.at(12, 30), f.at(13, 30), StatusConfirmed, f.now)
	f.insertBooking(t, player.ID, court.ID, f.at(15, 0), f.at(16, 0), StatusPending, f.now)
	f.insertBooking(t, player.ID, court.ID, f.at(16, 0), f.at(17, 0), StatusCancelled, f.now)

	date, err := ParseDate("2025-06-02", f.loc)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	slots, err := f.svc.Slots(ctx, court.ID, date)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(slots) != ClosingHour-OpeningHour {
		t.Fatalf("expected %d slots, got %d", ClosingHour-OpeningHour, len(slots))
	}
	if !slots[0].Start.Equal(f.at(8, 0)) || !slots[len(slots)-1].End.Equal(f.at(23, 0)) {
		t.Fatalf("unexpected slot bounds %v - %v", slots[0].Start, slots[len(slots)-1].End)
	}

	byHour := map[int]Slot{}
	for _, s := range slots {
		byHour[s.Start.In(f.loc).Hour()] = s
	}
	unavailable := map[int]bool{10: true, 12: true, 13: true}
	for hour, slot := range byHour {
		if slot.Available == unavailable[hour] {
			t.Fatalf("slot %02d:00 availability = %v", hour, slot.Available)
		}
	}

	if !byHour[10].Price.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("expected 10:00 at base price, got %s", byHour[10].Price)
	}
	if !byHour[19].Price.Equal(decimal.NewFromInt(150000)) {
		t.Fatalf("expected 19:00 at 150000, got %s", byHour[19].Price)
	}
	if !byHour[17].Price.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("expected 17:00 at base price, got %s", byHour[17].Price)
	}
}

func TestAvailableSlotsUnknownCourt(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Slots(context.Background(), 999, f.at(0, 0))
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	f := newFixture(t)
	if _, err := ParseDate("02/06/2025", f.loc); apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ParseDate("", f.loc); apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected validation error for empty date, got %v", err)
	}
}
