package events

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRecorderKeepsOrder(t *testing.T) {
	rec := &Recorder{}
	ctx := context.Background()
	_ = rec.Publish(ctx, BookingConfirmed, BookingEvent{BookingID: 1})
	_ = rec.Publish(ctx, CancellationRequested, BookingEvent{BookingID: 1})

	keys := rec.Keys()
	if len(keys) != 2 || keys[0] != BookingConfirmed || keys[1] != CancellationRequested {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestBookingEventJSON(t *testing.T) {
	refund := decimal.NewFromInt(160000)
	evt := BookingEvent{
		BookingID:    7,
		Status:       "CANCELLATION_VERIFIED",
		TotalPrice:   decimal.NewFromInt(200000),
		RefundAmount: &refund,
		OccurredAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(body), `"refund_amount":"160000"`) {
		t.Fatalf("expected decimal refund amount as string, got %s", body)
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), BookingCancelled, nil); err != nil {
		t.Fatalf("nop publish: %v", err)
	}
}
