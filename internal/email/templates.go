package email

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Message struct {
	Subject string
	Body    string
}

// BookingDetails is what every booking email renders.
type BookingDetails struct {
	BookingID  int64
	CourtName  string
	ClubName   string
	CityName   string
	Start      time.Time
	End        time.Time
	TotalPrice decimal.Decimal
}

func FormatDateTimeRange(start, end time.Time, loc *time.Location) (string, string) {
	if loc == nil {
		loc = time.UTC
	}
	start, end = start.In(loc), end.In(loc)
	date := start.Format("Monday, Jan 2, 2006")
	timeRange := fmt.Sprintf("%s - %s %s", start.Format("15:04"), end.Format("15:04"), start.Format("MST"))
	return date, timeRange
}

func (d BookingDetails) lines(loc *time.Location) []string {
	date, timeRange := FormatDateTimeRange(d.Start, d.End, loc)
	venue := orDefault(d.ClubName, "your club")
	if city := strings.TrimSpace(d.CityName); city != "" {
		venue = fmt.Sprintf("%s, %s", venue, city)
	}
	return []string{
		fmt.Sprintf("Booking: #%d", d.BookingID),
		fmt.Sprintf("Club: %s", venue),
		fmt.Sprintf("Court: %s", orDefault(d.CourtName, "TBD")),
		fmt.Sprintf("Date: %s", date),
		fmt.Sprintf("Time: %s", timeRange),
	}
}

func BuildBookingConfirmation(d BookingDetails, loc *time.Location) Message {
	lines := []string{"Your court booking is confirmed.", ""}
	lines = append(lines, d.lines(loc)...)
	lines = append(lines, fmt.Sprintf("Total paid: %s", d.TotalPrice.StringFixed(0)))
	return Message{
		Subject: fmt.Sprintf("Booking Confirmed - %s", orDefault(d.ClubName, d.CourtName)),
		Body:    strings.Join(lines, "\n"),
	}
}

func BuildInvitation(d BookingDetails, hostName, inviteURL string, loc *time.Location) Message {
	host := orDefault(hostName, "A friend")
	lines := []string{fmt.Sprintf("%s invited you to a padel game.", host), ""}
	lines = append(lines, d.lines(loc)...)
	if inviteURL != "" {
		lines = append(lines, "", fmt.Sprintf("Join the game: %s", inviteURL))
	}
	return Message{
		Subject: fmt.Sprintf("%s invited you to play padel", host),
		Body:    strings.Join(lines, "\n"),
	}
}

func BuildRescheduleNotice(d BookingDetails, loc *time.Location) Message {
	lines := []string{"A booking you are part of has a new time.", ""}
	lines = append(lines, d.lines(loc)...)
	return Message{
		Subject: fmt.Sprintf("Booking #%d Rescheduled", d.BookingID),
		Body:    strings.Join(lines, "\n"),
	}
}

func BuildCancellationRequested(d BookingDetails, playerName, reason string, refund decimal.Decimal, loc *time.Location) Message {
	lines := []string{
		fmt.Sprintf("%s asked to cancel a booking on your court.", orDefault(playerName, "A player")),
		"",
	}
	lines = append(lines, d.lines(loc)...)
	if reason = strings.TrimSpace(reason); reason != "" {
		lines = append(lines, fmt.Sprintf("Reason: %s", reason))
	}
	lines = append(lines, fmt.Sprintf("Refund owed if approved: %s", refund.StringFixed(0)))
	return Message{
		Subject: fmt.Sprintf("Cancellation Requested - Booking #%d", d.BookingID),
		Body:    strings.Join(lines, "\n"),
	}
}

func BuildCancellationDecision(d BookingDetails, approved bool, refund decimal.Decimal, loc *time.Location) Message {
	verdict := "rejected"
	if approved {
		verdict = "approved"
	}
	lines := []string{fmt.Sprintf("Your cancellation request was %s.", verdict), ""}
	lines = append(lines, d.lines(loc)...)
	if approved {
		lines = append(lines, fmt.Sprintf("Refunded to your wallet: %s", refund.StringFixed(0)))
	}
	return Message{
		Subject: fmt.Sprintf("Cancellation %s - Booking #%d", strings.ToUpper(verdict[:1])+verdict[1:], d.BookingID),
		Body:    strings.Join(lines, "\n"),
	}
}

func BuildReminder(d BookingDetails, loc *time.Location) Message {
	lines := []string{"Reminder: your padel game is coming up.", ""}
	lines = append(lines, d.lines(loc)...)
	return Message{
		Subject: fmt.Sprintf("Upcoming Game - %s", orDefault(d.ClubName, d.CourtName)),
		Body:    strings.Join(lines, "\n"),
	}
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
