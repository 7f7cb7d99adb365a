package email

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/testutil"
)

type sentMail struct {
	recipient string
	subject   string
	body      string
	sender    string
	ctxErr    error
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	return f.SendFrom(ctx, recipient, subject, body, "")
}

func (f *fakeEmailSender) SendFrom(ctx context.Context, recipient, subject, body, sender string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{
		recipient: recipient,
		subject:   subject,
		body:      body,
		sender:    sender,
		ctxErr:    ctx.Err(),
	})
	return nil
}

func (f *fakeEmailSender) messages() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMail(nil), f.sent...)
}

func TestNotifyUserSurvivesCanceledRequestContext(t *testing.T) {
	database := testutil.NewTestDB(t)
	userID := testutil.CreateUser(t, database, "member", "PLAYER")
	sender := &fakeEmailSender{}
	notifier := NewNotifier(database.Queries, sender, "bookings@padel.test", "https://padel.test/", time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	notifier.NotifyUser(ctx, userID, Message{Subject: "Subject", Body: "Body"})
	cancel()
	notifier.Wait()

	sent := sender.messages()
	if len(sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sent))
	}
	if sent[0].recipient != "member@example.com" || sent[0].sender != "bookings@padel.test" {
		t.Fatalf("unexpected email: %+v", sent[0])
	}
	if sent[0].ctxErr != nil {
		t.Fatalf("send context should not inherit request cancellation, got %v", sent[0].ctxErr)
	}
}

func TestNotifierSkipsIncompleteMessages(t *testing.T) {
	database := testutil.NewTestDB(t)
	userID := testutil.CreateUser(t, database, "member", "PLAYER")
	sender := &fakeEmailSender{}
	notifier := NewNotifier(database.Queries, sender, "", "", nil)

	notifier.NotifyUser(context.Background(), userID, Message{Subject: "only subject"})
	notifier.NotifyUser(context.Background(), 0, Message{Subject: "s", Body: "b"})
	notifier.NotifyAddress(context.Background(), "  ", Message{Subject: "s", Body: "b"})
	notifier.Wait()

	if n := len(sender.messages()); n != 0 {
		t.Fatalf("expected no emails, got %d", n)
	}

	var nilNotifier *Notifier
	nilNotifier.NotifyUser(context.Background(), userID, Message{Subject: "s", Body: "b"})
	nilNotifier.Wait()
}

func TestInviteURL(t *testing.T) {
	notifier := NewNotifier(nil, nil, "", "https://padel.test/", nil)
	if got := notifier.InviteURL("abc"); got != "https://padel.test/invite/abc" {
		t.Fatalf("unexpected invite url %q", got)
	}
	if got := notifier.InviteURL(""); got != "" {
		t.Fatalf("expected empty url for empty token, got %q", got)
	}
}

func TestBuildCancellationDecision(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tehran")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	details := BookingDetails{
		BookingID:  12,
		CourtName:  "Court A",
		ClubName:   "Azadi Padel",
		CityName:   "Tehran",
		Start:      time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC),
		End:        time.Date(2025, 6, 1, 16, 30, 0, 0, time.UTC),
		TotalPrice: decimal.NewFromInt(200000),
	}

	approved := BuildCancellationDecision(details, true, decimal.NewFromInt(160000), loc)
	if approved.Subject != "Cancellation Approved - Booking #12" {
		t.Fatalf("unexpected subject %q", approved.Subject)
	}
	for _, want := range []string{"approved", "Refunded to your wallet: 160000", "19:00 - 20:00", "Azadi Padel, Tehran"} {
		if !strings.Contains(approved.Body, want) {
			t.Fatalf("expected body to contain %q:\n%s", want, approved.Body)
		}
	}

	rejected := BuildCancellationDecision(details, false, decimal.Zero, loc)
	if strings.Contains(rejected.Body, "Refunded") {
		t.Fatalf("rejected decision should not mention a refund:\n%s", rejected.Body)
	}
}
