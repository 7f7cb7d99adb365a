package booking

import (
	"strings"

	"github.com/codr1/Padelicious/internal/apperror"
)

type Status string

const (
	StatusPending               Status = "PENDING"
	StatusConfirmed             Status = "CONFIRMED"
	StatusCancelled             Status = "CANCELLED"
	StatusCancellationRequested Status = "CANCELLATION_REQUESTED"
	StatusCancellationVerified  Status = "CANCELLATION_VERIFIED"
	StatusCancellationRejected  Status = "CANCELLATION_REJECTED"
)

type Event string

const (
	EventPaymentSucceeded    Event = "payment_succeeded"
	EventPaymentFailed       Event = "payment_failed"
	EventHoldExpired         Event = "hold_expired"
	EventCancelUnilateral    Event = "cancel_unilateral"
	EventRequestCancellation Event = "request_cancellation"
	EventApproveCancellation Event = "approve_cancellation"
	EventRejectCancellation  Event = "reject_cancellation"
)

type edge struct {
	from  Status
	event Event
}

var transitions = map[edge]Status{
	{StatusPending, EventPaymentSucceeded}:                  StatusConfirmed,
	{StatusPending, EventPaymentFailed}:                     StatusCancelled,
	{StatusPending, EventHoldExpired}:                       StatusCancelled,
	{StatusConfirmed, EventCancelUnilateral}:                StatusCancelled,
	{StatusConfirmed, EventRequestCancellation}:             StatusCancellationRequested,
	{StatusCancellationRequested, EventApproveCancellation}: StatusCancellationVerified,
	{StatusCancellationRequested, EventRejectCancellation}:  StatusCancellationRejected,
}

// Next is the only place booking status legality is decided.
func Next(from Status, event Event) (Status, error) {
	to, ok := transitions[edge{from: from, event: event}]
	if !ok {
		return "", apperror.Validation("booking cannot " + strings.ReplaceAll(string(event), "_", " ") + " while " + string(from))
	}
	return to, nil
}

// IsTerminal reports whether no event can move a booking out of s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusCancellationVerified, StatusCancellationRejected:
		return true
	}
	return false
}

// Occupies reports whether a booking in s blocks its court and its owner's time.
func (s Status) Occupies() bool {
	return s == StatusConfirmed
}
