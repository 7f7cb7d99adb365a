package booking

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/apperror"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/identity"
	"github.com/codr1/Padelicious/internal/testutil"
)

func createConfirmed(t *testing.T, f *fixture, caller identity.Caller, courtID int64, start, end time.Time, invitees ...Invitee) dbgen.Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), caller, CreateParams{
		CourtID:      courtID,
		Start:        start,
		End:          end,
		Participants: invitees,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func TestAddParticipantEnforcesCap(t *testing.T) {
	f := newFixture(t)
	owner := f.player(t, "owner")
	court := f.court(t, "Center")
	b := createConfirmed(t, f, owner, court.ID, f.at(10, 0), f.at(11, 0),
		Invitee{Name: "one"}, Invitee{Name: "two"}, Invitee{Name: "three"})

	_, err := f.svc.Update(context.Background(), owner, b.ID, UpdateParams{
		Action:      ActionAddParticipant,
		Participant: Invitee{Name: "four"},
	})
	if err != ErrParticipantCap {
		t.Fatalf("expected participant cap error, got %v", err)
	}
	count, err := f.db.Queries.CountActiveParticipants(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != MaxParticipants {
		t.Fatalf("expected %d participants, got %d", MaxParticipants, count)
	}
}

func TestRemoveThenAddParticipant(t *testing.T) {
	f := newFixture(t)
	owner := f.player(t, "owner")
	court := f.court(t, "Center")
	b := createConfirmed(t, f, owner, court.ID, f.at(10, 0), f.at(11, 0),
		Invitee{Name: "one"}, Invitee{Name: "two"}, Invitee{Name: "three"})
	other := createConfirmed(t, f, owner, court.ID, f.at(14, 0), f.at(15, 0), Invitee{Name: "elsewhere"})

	participants, err := f.db.Queries.ListParticipantsByBooking(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	otherParticipants, err := f.db.Queries.ListParticipantsByBooking(context.Background(), other.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	// A participant of another booking is not reachable through this one.
	_, err = f.svc.Update(context.Background(), owner, b.ID, UpdateParams{
		Action:        ActionRemoveParticipant,
		ParticipantID: otherParticipants[0].ID,
	})
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := f.svc.Update(context.Background(), owner, b.ID, UpdateParams{
		Action:        ActionRemoveParticipant,
		ParticipantID: participants[0].ID,
	}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := f.svc.Update(context.Background(), owner, b.ID, UpdateParams{
		Action:      ActionAddParticipant,
		Participant: Invitee{Name: "four", Email: "four@example.com"},
	}); err != nil {
		t.Fatalf("add after remove: %v", err)
	}
}

func TestUpdateRequiresOwnerAndConfirmedBooking(t *testing.T) {
	f := newFixture(t)
	owner := f.player(t, "owner")
	stranger := f.player(t, "stranger")
	court := f.court(t, "Center")
	b := createConfirmed(t, f, owner, court.ID, f.at(10, 0), f.at(11, 0))

	_, err := f.svc.Update(context.Background(), stranger, b.ID, UpdateParams{Action: ActionCancel})
	if apperror.KindOf(err) != apperror.KindAuthorization {
		t.Fatalf("expected authorization error, got %v", err)
	}

	cancelled, err := f.svc.Update(context.Background(), owner, b.ID, UpdateParams{Action: ActionCancel})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if Status(cancelled.Status) != StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}

	_, err = f.svc.Update(context.Background(), owner, b.ID, UpdateParams{Action: ActionCancel})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected validation error on cancelled booking, got %v", err)
	}
	_, err = f.svc.Update(context.Background(), owner, b.ID+100, UpdateParams{Action: ActionCancel})
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = f.svc.Update(context.Background(), owner, b.ID, UpdateParams{Action: "delete"})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected validation error for unknown action, got %v", err)
	}
}

func TestChangeTimeRules(t *testing.T) {
	f := newFixture(t)
	owner := f.player(t, "owner")
	rival := f.player(t, "rival")
	court := f.court(t, "Center")
	testutil.AddPricingRule(t, f.db, court.ID, "18:00", "23:00", "2")

	b := createConfirmed(t, f, owner, court.ID, f.at(10, 0), f.at(11, 0))
	createConfirmed(t, f, rival, court.ID, f.at(12, 0), f.at(13, 0))

	_, err := f.svc.Update(context.Background(), owner, b.ID, UpdateParams{
		Action: ActionChangeTime, Start: f.at(12, 30), End: f.at(13, 30),
	})
	if err != ErrSlotUnavailable {
		t.Fatalf("expected slot unavailable, got %v", err)
	}

	moved, err := f.svc.Update(context.Background(), owner, b.ID, UpdateParams{
		Action: ActionChangeTime, Start: f.at(19, 0), End: f.at(20, 0),
	})
	if err != nil {
		t.Fatalf("change time: %v", err)
	}
	if !moved.StartTime.Equal(f.at(19, 0)) {
		t.Fatalf("expected new start, got %v", moved.StartTime)
	}
	if !moved.TotalPrice.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("price must not be recomputed on reschedule, got %s", moved.TotalPrice)
	}

	// Moving onto its own old interval only conflicts with itself.
	if _, err := f.svc.Update(context.Background(), owner, b.ID, UpdateParams{
		Action: ActionChangeTime, Start: f.at(19, 30), End: f.at(20, 30),
	}); err != nil {
		t.Fatalf("overlapping own interval: %v", err)
	}

	// Less than six hours before the current start.
	f.now = f.at(14, 0)
	_, err = f.svc.Update(context.Background(), owner, b.ID, UpdateParams{
		Action: ActionChangeTime, Start: f.at(21, 0), End: f.at(22, 0),
	})
	if apperror.KindOf(err) != apperror.KindPolicyViolation {
		t.Fatalf("expected policy violation, got %v", err)
	}
}

func TestChangeTimeLeadBoundary(t *testing.T) {
	f := newFixture(t)
	owner := f.player(t, "owner")
	court := f.court(t, "Center")
	b := createConfirmed(t, f, owner, court.ID, f.at(10, 0), f.at(11, 0))

	f.now = f.at(4, 0)
	moved, err := f.svc.Update(context.Background(), owner, b.ID, UpdateParams{
		Action: ActionChangeTime, Start: f.at(12, 0), End: f.at(13, 0),
	})
	if err != nil {
		t.Fatalf("change time exactly six hours before start: %v", err)
	}
	if !moved.StartTime.Equal(f.at(12, 0)) {
		t.Fatalf("expected new start, got %v", moved.StartTime)
	}

	f.now = f.at(6, 0).Add(time.Second)
	_, err = f.svc.Update(context.Background(), owner, b.ID, UpdateParams{
		Action: ActionChangeTime, Start: f.at(14, 0), End: f.at(15, 0),
	})
	if apperror.KindOf(err) != apperror.KindPolicyViolation {
		t.Fatalf("expected policy violation one second inside the lead, got %v", err)
	}
}

func TestChangeTimeRejectsUserConflict(t *testing.T) {
	f := newFixture(t)
	owner := f.player(t, "owner")
	courtA := f.court(t, "A")
	courtB := f.court(t, "B")

	b := createConfirmed(t, f, owner, courtA.ID, f.at(10, 0), f.at(11, 0))
	createConfirmed(t, f, owner, courtB.ID, f.at(16, 0), f.at(17, 0))

	_, err := f.svc.Update(context.Background(), owner, b.ID, UpdateParams{
		Action: ActionChangeTime, Start: f.at(16, 30), End: f.at(17, 30),
	})
	if err != ErrUserConflict {
		t.Fatalf("expected user conflict, got %v", err)
	}
}

func TestInvitationFlow(t *testing.T) {
	f := newFixture(t)
	owner := f.player(t, "owner")
	guest := f.player(t, "guest")
	court := f.court(t, "Center")
	b := createConfirmed(t, f, owner, court.ID, f.at(10, 0), f.at(11, 0))
	ctx := context.Background()

	if _, err := f.svc.RespondToInvitation(ctx, guest, b.ID, true); err != ErrInvitationNotFound {
		t.Fatalf("expected invitation not found before linking, got %v", err)
	}
	if _, err := f.svc.AcceptInvitation(ctx, guest, "deadbeef"); err != ErrInvitationNotFound {
		t.Fatalf("expected unknown token to be not found, got %v", err)
	}
	if _, err := f.svc.AcceptInvitation(ctx, owner, b.InviteToken.String); apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected owner to be refused, got %v", err)
	}

	if _, err := f.svc.AcceptInvitation(ctx, guest, b.InviteToken.String); err != nil {
		t.Fatalf("accept invitation: %v", err)
	}
	// Accepting twice keeps a single link.
	if _, err := f.svc.AcceptInvitation(ctx, guest, b.InviteToken.String); err != nil {
		t.Fatalf("accept invitation again: %v", err)
	}
	count, err := f.db.Queries.CountActiveParticipants(ctx, b.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one participant, got %d", count)
	}

	views, err := f.svc.ListForUser(ctx, guest)
	if err != nil {
		t.Fatalf("list for guest: %v", err)
	}
	if len(views) != 1 || views[0].IsOwner || views[0].InviteToken != "" {
		t.Fatalf("expected one shared booking without token, got %+v", views)
	}

	p, err := f.svc.RespondToInvitation(ctx, guest, b.ID, false)
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if p.Status != ParticipantDeclined {
		t.Fatalf("expected DECLINED, got %s", p.Status)
	}
	views, err = f.svc.ListForUser(ctx, guest)
	if err != nil {
		t.Fatalf("list for guest: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("declined bookings should not be listed, got %d", len(views))
	}
}

func TestAcceptInvitationRespectsCap(t *testing.T) {
	f := newFixture(t)
	owner := f.player(t, "owner")
	guest := f.player(t, "guest")
	court := f.court(t, "Center")
	b := createConfirmed(t, f, owner, court.ID, f.at(10, 0), f.at(11, 0),
		Invitee{Name: "one"}, Invitee{Name: "two"}, Invitee{Name: "three"})

	if _, err := f.svc.AcceptInvitation(context.Background(), guest, b.InviteToken.String); err != ErrParticipantCap {
		t.Fatalf("expected participant cap error, got %v", err)
	}
}

func TestListForUserNewestFirst(t *testing.T) {
	f := newFixture(t)
	owner := f.player(t, "owner")
	court := f.court(t, "Center")
	early := createConfirmed(t, f, owner, court.ID, f.at(9, 0), f.at(10, 0))
	late := createConfirmed(t, f, owner, court.ID, f.at(20, 0), f.at(21, 0))

	views, err := f.svc.ListForUser(context.Background(), owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 || views[0].ID != late.ID || views[1].ID != early.ID {
		t.Fatalf("unexpected order: %+v", views)
	}
	if !views[0].IsOwner || views[0].ClubName != "Club of Center" || views[0].CourtType != "INDOOR" {
		t.Fatalf("view not enriched: %+v", views[0])
	}
}
