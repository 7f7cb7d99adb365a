// internal/api/bookings/handlers.go
package bookings

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/api/apiutil"
	"github.com/codr1/Padelicious/internal/api/authz"
	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/booking"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/ratelimit"
)

// Creation settles a payment, so it gets a longer budget than reads.
const (
	bookingQueryTimeout  = 5 * time.Second
	bookingCreateTimeout = 30 * time.Second
)

var (
	service     *booking.Service
	limiter     *ratelimit.Limiter
	trustProxy  bool
	serviceOnce sync.Once
)

type createRequest struct {
	CourtID       int64             `json:"court_id"`
	StartTime     string            `json:"start_time"`
	EndTime       string            `json:"end_time"`
	Participants  []booking.Invitee `json:"participants"`
	PaymentMethod string            `json:"payment_method"`
}

type updateRequest struct {
	Action        string          `json:"action"`
	ParticipantID int64           `json:"participant_id"`
	Participant   booking.Invitee `json:"participant"`
	StartTime     string          `json:"start_time"`
	EndTime       string          `json:"end_time"`
}

type invitationRequest struct {
	Accept *bool `json:"accept"`
}

// bookingResponse is the public shape of a booking row.
type bookingResponse struct {
	ID            int64           `json:"id"`
	CourtID       int64           `json:"court_id"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	InviteToken   string          `json:"invite_token,omitempty"`
}

// InitHandlers must be called during server startup before handling requests.
// A nil limiter disables throttling of booking creation.
func InitHandlers(svc *booking.Service, l *ratelimit.Limiter, trustProxyHeaders bool) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
		limiter = l
		trustProxy = trustProxyHeaders
	})
}

func loadService(w http.ResponseWriter, r *http.Request) *booking.Service {
	if service == nil {
		log.Ctx(r.Context()).Error().Msg("Booking service not initialized")
		apiutil.WriteError(w, r, apperror.Internal("service unavailable", nil))
		return nil
	}
	return service
}

func toResponse(b dbgen.Booking, withToken bool) bookingResponse {
	resp := bookingResponse{
		ID:            b.ID,
		CourtID:       b.CourtID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		PaymentMethod: b.PaymentMethod,
		TransactionID: b.TransactionID.String,
	}
	if withToken {
		resp.InviteToken = b.InviteToken.String
	}
	return resp
}

// POST /api/v1/bookings
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	logger := log.Ctx(r.Context())

	caller, err := authz.RequireCaller(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if limiter != nil {
		ip := ratelimit.GetClientIP(r, trustProxy)
		if result := limiter.Allow(ratelimit.ActionBooking, caller.ID, ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded(ratelimit.ActionBooking, caller.ID, ip, result.Reason)
			apiutil.WriteRateLimited(w, r, result.RetryAfter)
			return
		}
	}

	var req createRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	start, err := apiutil.ParseTime(req.StartTime, "start_time", svc.Location())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	end, err := apiutil.ParseTime(req.EndTime, "end_time", svc.Location())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingCreateTimeout)
	defer cancel()

	created, err := svc.Create(ctx, caller, booking.CreateParams{
		CourtID:       req.CourtID,
		Start:         start,
		End:           end,
		Participants:  req.Participants,
		PaymentMethod: booking.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Debug().Int64("booking_id", created.ID).Msg("Booking created via API")
	apiutil.WriteSuccess(w, r, http.StatusCreated, map[string]any{"booking": toResponse(created, true)})
}

// GET /api/v1/bookings
func HandleList(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	caller, err := authz.RequireCaller(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	views, err := svc.ListForUser(ctx, caller)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{"bookings": views})
}

// PATCH /api/v1/bookings/{id}
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	caller, err := authz.RequireCaller(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	bookingID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	var req updateRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	params := booking.UpdateParams{
		Action:        booking.Action(strings.TrimSpace(req.Action)),
		ParticipantID: req.ParticipantID,
		Participant:   req.Participant,
	}
	if params.Action == booking.ActionChangeTime {
		if params.Start, err = apiutil.ParseTime(req.StartTime, "start_time", svc.Location()); err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
		if params.End, err = apiutil.ParseTime(req.EndTime, "end_time", svc.Location()); err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	updated, err := svc.Update(ctx, caller, bookingID, params)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{"booking": toResponse(updated, true)})
}

// POST /api/v1/bookings/{id}/invitation
func HandleRespondToInvitation(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	caller, err := authz.RequireCaller(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	bookingID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	var req invitationRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if req.Accept == nil {
		apiutil.WriteError(w, r, apiutil.InvalidField("accept", "is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	participant, err := svc.RespondToInvitation(ctx, caller, bookingID, *req.Accept)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"booking_id": participant.BookingID,
		"status":     participant.Status,
	})
}

// POST /api/v1/invitations/{token}/accept
func HandleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	caller, err := authz.RequireCaller(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	b, err := svc.AcceptInvitation(ctx, caller, r.PathValue("token"))
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{"booking": toResponse(b, false)})
}
