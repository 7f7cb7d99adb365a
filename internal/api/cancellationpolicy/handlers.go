// internal/api/cancellationpolicy/handlers.go
package cancellationpolicy

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/api/apiutil"
	"github.com/codr1/Padelicious/internal/api/authz"
	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/cancellation"
)

const cancellationQueryTimeout = 5 * time.Second

var (
	service     *cancellation.Service
	loc         *time.Location
	serviceOnce sync.Once
)

type policyRequest struct {
	HoursBeforeStart int64  `json:"hours_before_start"`
	RefundPercentage int64  `json:"refund_percentage"`
	Description      string `json:"description"`
}

type cancellationRequest struct {
	Reason string `json:"reason"`
}

type verifyRequest struct {
	Approve *bool `json:"approve"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *cancellation.Service, location *time.Location) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
		loc = location
		if loc == nil {
			loc = time.UTC
		}
	})
}

func loadService(w http.ResponseWriter, r *http.Request) *cancellation.Service {
	if service == nil {
		log.Ctx(r.Context()).Error().Msg("Cancellation service not initialized")
		apiutil.WriteError(w, r, apperror.Internal("service unavailable", nil))
		return nil
	}
	return service
}

// GET /api/v1/courts/{id}/cancellation-policy
func HandleGetPolicy(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), cancellationQueryTimeout)
	defer cancel()

	policy, err := svc.GetPolicy(ctx, courtID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{"policy": policy})
}

// PUT /api/v1/courts/{id}/cancellation-policy
func HandlePutPolicy(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	caller, err := authz.RequireCaller(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	var req policyRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), cancellationQueryTimeout)
	defer cancel()

	policy, err := svc.SetPolicy(ctx, caller, cancellation.PolicyParams{
		CourtID:          courtID,
		HoursBeforeStart: req.HoursBeforeStart,
		RefundPercentage: req.RefundPercentage,
		Description:      req.Description,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{"policy": policy})
}

// POST /api/v1/bookings/{id}/cancellation
func HandleRequestCancellation(w http.ResponseWriter, r *http.Request) {
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
	var req cancellationRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), cancellationQueryTimeout)
	defer cancel()

	b, err := svc.RequestCancellation(ctx, caller, bookingID, req.Reason)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"booking_id": b.ID,
		"status":     b.Status,
	})
}

// POST /api/v1/bookings/{id}/cancellation/verify
func HandleVerifyCancellation(w http.ResponseWriter, r *http.Request) {
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
	var req verifyRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if req.Approve == nil {
		apiutil.WriteError(w, r, apiutil.InvalidField("approve", "is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), cancellationQueryTimeout)
	defer cancel()

	decision, err := svc.VerifyCancellation(ctx, caller, bookingID, *req.Approve)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"booking_id":    decision.Booking.ID,
		"status":        decision.Booking.Status,
		"refund_amount": decision.Refund,
	})
}

// GET /api/v1/cancellation-requests?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func HandleListRequests(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	caller, err := authz.RequireCaller(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	query := r.URL.Query()
	from, err := apiutil.ParseOptionalDate(query.Get("start_date"), "start_date", loc)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	to, err := apiutil.ParseOptionalDate(query.Get("end_date"), "end_date", loc)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if from != nil && to != nil && to.Before(*from) {
		apiutil.WriteError(w, r, apiutil.InvalidField("end_date", "must not be before start_date"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), cancellationQueryTimeout)
	defer cancel()

	requests, err := svc.ListRequests(ctx, caller, cancellation.ListFilter{From: from, To: to})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{"requests": requests})
}
