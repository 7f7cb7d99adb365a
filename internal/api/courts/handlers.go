// internal/api/courts/handlers.go
package courts

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/api/apiutil"
	"github.com/codr1/Padelicious/internal/api/authz"
	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/booking"
	"github.com/codr1/Padelicious/internal/catalog"
	appdb "github.com/codr1/Padelicious/internal/db"
)

const courtQueryTimeout = 5 * time.Second

var (
	store       *appdb.DB
	bookings    *booking.Service
	handlerOnce sync.Once
)

type pricingRuleRequest struct {
	StartTime  string          `json:"start_time"`
	EndTime    string          `json:"end_time"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, svc *booking.Service) {
	if database == nil || svc == nil {
		return
	}
	handlerOnce.Do(func() {
		store = database
		bookings = svc
	})
}

// GET /api/v1/courts/{id}/slots?date=YYYY-MM-DD
func HandleSlots(w http.ResponseWriter, r *http.Request) {
	if bookings == nil {
		apiutil.WriteError(w, r, apperror.Internal("service unavailable", nil))
		return
	}

	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	date, err := booking.ParseDate(r.URL.Query().Get("date"), bookings.Location())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtQueryTimeout)
	defer cancel()

	slots, err := bookings.Slots(ctx, courtID, date)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"court_id": courtID,
		"date":     date.Format("2006-01-02"),
		"slots":    slots,
	})
}

// POST /api/v1/courts/{id}/pricing-rules
func HandleAddPricingRule(w http.ResponseWriter, r *http.Request) {
	if store == nil {
		apiutil.WriteError(w, r, apperror.Internal("service unavailable", nil))
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

	var req pricingRuleRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtQueryTimeout)
	defer cancel()

	rule, err := catalog.AddPricingRule(ctx, store.Queries, caller, catalog.AddPricingRuleParams{
		CourtID:    courtID,
		Start:      req.StartTime,
		End:        req.EndTime,
		Multiplier: req.Multiplier,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Debug().Int64("pricing_rule_id", rule.ID).Msg("Pricing rule created via API")
	apiutil.WriteSuccess(w, r, http.StatusCreated, map[string]any{"pricing_rule": rule})
}
