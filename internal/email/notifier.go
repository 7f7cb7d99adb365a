package email

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/Padelicious/internal/db/generated"
)

const sendTimeout = 5 * time.Second

// Notifier sends booking emails asynchronously. A nil *Notifier sends nothing.
type Notifier struct {
	q       dbgen.Querier
	client  EmailSender
	sender  string
	baseURL string
	loc     *time.Location
	wg      sync.WaitGroup
}

func NewNotifier(q dbgen.Querier, client EmailSender, sender, baseURL string, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		q:       q,
		client:  client,
		sender:  sender,
		baseURL: strings.TrimRight(baseURL, "/"),
		loc:     loc,
	}
}

// Location is the zone emails render times in.
func (n *Notifier) Location() *time.Location {
	if n == nil {
		return time.UTC
	}
	return n.loc
}

// InviteURL is the shareable link for an invite token.
func (n *Notifier) InviteURL(token string) string {
	if n == nil || token == "" {
		return ""
	}
	return n.baseURL + "/invite/" + token
}

// NotifyUser looks up the user's address and sends msg in the background.
func (n *Notifier) NotifyUser(ctx context.Context, userID int64, msg Message) {
	if n == nil || n.client == nil || n.q == nil {
		return
	}
	logger := log.Ctx(ctx)
	if userID <= 0 {
		logger.Warn().Int64("user_id", userID).Msg("Skipping email with invalid user ID")
		return
	}
	user, err := n.q.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load user for email")
		return
	}
	if !user.Email.Valid {
		return
	}
	n.NotifyAddress(ctx, user.Email.String, msg)
}

// NotifyAddress sends msg to recipient in the background. The send outlives
// the request context but not sendTimeout.
func (n *Notifier) NotifyAddress(ctx context.Context, recipient string, msg Message) {
	if n == nil || n.client == nil {
		return
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" || msg.Subject == "" || msg.Body == "" {
		return
	}
	logger := log.Ctx(ctx).With().Str("recipient", recipient).Str("subject", msg.Subject).Logger()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		sendCtx, cancel := newEmailContext(ctx, sendTimeout)
		defer cancel()
		if err := n.client.SendFrom(sendCtx, recipient, msg.Subject, msg.Body, n.sender); err != nil {
			logger.Error().Err(err).Msg("Failed to send email")
			return
		}
		logger.Debug().Msg("Email sent")
	}()
}

// Wait blocks until in-flight sends finish.
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}
