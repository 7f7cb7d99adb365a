package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/catalog"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/email"
	"github.com/codr1/Padelicious/internal/events"
)

// EmailDetails renders a booking and its court for notification templates.
func EmailDetails(court catalog.Court, b dbgen.Booking) email.BookingDetails {
	return email.BookingDetails{
		BookingID:  b.ID,
		CourtName:  court.Name,
		ClubName:   court.ClubName,
		CityName:   court.CityName,
		Start:      b.StartTime,
		End:        b.EndTime,
		TotalPrice: b.TotalPrice,
	}
}

// NewEvent builds the payload for a booking routing key.
func NewEvent(b dbgen.Booking, refund *decimal.Decimal, at time.Time) events.BookingEvent {
	return events.BookingEvent{
		BookingID:    b.ID,
		UserID:       b.UserID,
		CourtID:      b.CourtID,
		Status:       b.Status,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		TotalPrice:   b.TotalPrice,
		RefundAmount: refund,
		OccurredAt:   at.UTC(),
	}
}

// Publish sends an event and logs, rather than returns, a failure.
func Publish(ctx context.Context, publisher events.Publisher, key string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, key, payload); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("routing_key", key).Msg("Failed to publish booking event")
	}
}
