package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/catalog"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/pricing"
)

// Courts open at OpeningHour and the last slot ends at ClosingHour, local time.
const (
	OpeningHour  = 8
	ClosingHour  = 23
	SlotDuration = time.Hour
)

const dateLayout = "2006-01-02"

type Slot struct {
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	Available bool            `json:"available"`
	Price     decimal.Decimal `json:"price"`
}

// ParseDate reads a YYYY-MM-DD calendar date in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperror.Validation("date is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	date, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, apperror.Validation("date must be in YYYY-MM-DD format")
	}
	return date, nil
}

// AvailableSlots lists the hourly slots of a court for the calendar date of
// date in loc. Only CONFIRMED bookings make a slot unavailable.
func AvailableSlots(ctx context.Context, q dbgen.Querier, courtID int64, date time.Time, loc *time.Location) ([]Slot, error) {
	if loc == nil {
		loc = time.UTC
	}
	court, err := catalog.GetCourt(ctx, q, courtID)
	if err != nil {
		return nil, err
	}
	rules, err := catalog.PricingRules(ctx, q, court.ID)
	if err != nil {
		return nil, err
	}

	y, m, d := date.In(loc).Date()
	open := time.Date(y, m, d, OpeningHour, 0, 0, 0, loc)
	closing := time.Date(y, m, d, ClosingHour, 0, 0, 0, loc)

	booked, err := q.ListConfirmedCourtBookings(ctx, dbgen.ListConfirmedCourtBookingsParams{
		CourtID:    court.ID,
		RangeEnd:   closing.UTC(),
		RangeStart: open.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("list court bookings: %w", err)
	}

	slots := make([]Slot, 0, ClosingHour-OpeningHour)
	for hour := OpeningHour; hour < ClosingHour; hour++ {
		start := time.Date(y, m, d, hour, 0, 0, 0, loc)
		end := start.Add(SlotDuration)

		available := true
		for _, b := range booked {
			if overlaps(start, end, b.StartTime, b.EndTime) {
				available = false
				break
			}
		}
		slots = append(slots, Slot{
			Start:     start,
			End:       end,
			Available: available,
			Price:     pricing.Price(court.BasePricePerHour, rules, start, loc),
		})
	}
	return slots, nil
}

// overlaps is the half-open interval test [aStart,aEnd) ∩ [bStart,bEnd) ≠ ∅.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
