package booking

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/codr1/Padelicious/internal/apperror"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
)

// MaxParticipants caps PENDING plus ACCEPTED invitees per booking.
const MaxParticipants = 3

// DefaultPhoneRegion is used for numbers written without a country code.
const DefaultPhoneRegion = "IR"

const (
	ParticipantPending  = "PENDING"
	ParticipantAccepted = "ACCEPTED"
	ParticipantDeclined = "DECLINED"
)

var ErrParticipantCap = apperror.Validation(fmt.Sprintf("a booking can have at most %d participants", MaxParticipants))

type Invitee struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// Normalize trims fields, validates email syntax, formats the phone number
// as E.164 and upper-cases the gender.
func (i Invitee) Normalize() (Invitee, error) {
	out := Invitee{
		Name:   strings.TrimSpace(i.Name),
		Email:  strings.TrimSpace(i.Email),
		Phone:  strings.TrimSpace(i.Phone),
		Gender: strings.ToUpper(strings.TrimSpace(i.Gender)),
	}
	if out.Name == "" {
		return Invitee{}, apperror.Validation("participant name is required")
	}
	if out.Email != "" {
		addr, err := mail.ParseAddress(out.Email)
		if err != nil || addr.Address != out.Email {
			return Invitee{}, apperror.Validation("participant email is not valid")
		}
	}
	if out.Phone != "" {
		num, err := phonenumbers.Parse(out.Phone, DefaultPhoneRegion)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return Invitee{}, apperror.Validation("participant phone is not valid")
		}
		out.Phone = phonenumbers.Format(num, phonenumbers.E164)
	}
	switch out.Gender {
	case "", "MALE", "FEMALE", "OTHER":
	default:
		return Invitee{}, apperror.Validation("participant gender must be MALE, FEMALE or OTHER")
	}
	return out, nil
}

func normalizeInvitees(invitees []Invitee) ([]Invitee, error) {
	if len(invitees) > MaxParticipants {
		return nil, ErrParticipantCap
	}
	out := make([]Invitee, 0, len(invitees))
	for _, inv := range invitees {
		n, err := inv.Normalize()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

type participantRow struct {
	bookingID int64
	userID    int64
	invitee   Invitee
	status    string
	at        time.Time
}

func insertParticipant(ctx context.Context, q dbgen.Querier, p participantRow) (dbgen.BookingParticipant, error) {
	created, err := q.CreateParticipant(ctx, dbgen.CreateParticipantParams{
		BookingID: p.bookingID,
		UserID:    sql.NullInt64{Int64: p.userID, Valid: p.userID > 0},
		Name:      p.invitee.Name,
		Email:     nullString(p.invitee.Email),
		Phone:     nullString(p.invitee.Phone),
		Gender:    nullString(p.invitee.Gender),
		Status:    p.status,
		CreatedAt: p.at.UTC(),
	})
	if err != nil {
		return dbgen.BookingParticipant{}, fmt.Errorf("create participant: %w", err)
	}
	return created, nil
}

// ensureCapacity fails when the booking already holds MaxParticipants
// PENDING or ACCEPTED participants.
func ensureCapacity(ctx context.Context, q dbgen.Querier, bookingID int64) error {
	count, err := q.CountActiveParticipants(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("count participants: %w", err)
	}
	if count >= MaxParticipants {
		return ErrParticipantCap
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
