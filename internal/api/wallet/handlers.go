// internal/api/wallet/handlers.go
package wallet

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
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/ratelimit"
	walletsvc "github.com/codr1/Padelicious/internal/wallet"
)

const (
	walletQueryTimeout  = 5 * time.Second
	walletChargeTimeout = 30 * time.Second
)

var (
	service     *walletsvc.Service
	limiter     *ratelimit.Limiter
	trustProxy  bool
	serviceOnce sync.Once
)

type chargeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type walletResponse struct {
	ID        int64           `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type transactionResponse struct {
	ID          int64           `json:"id"`
	BookingID   *int64          `json:"booking_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *walletsvc.Service, l *ratelimit.Limiter, trustProxyHeaders bool) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
		limiter = l
		trustProxy = trustProxyHeaders
	})
}

func loadService(w http.ResponseWriter, r *http.Request) *walletsvc.Service {
	if service == nil {
		log.Ctx(r.Context()).Error().Msg("Wallet service not initialized")
		apiutil.WriteError(w, r, apperror.Internal("service unavailable", nil))
		return nil
	}
	return service
}

func toWallet(w dbgen.Wallet) walletResponse {
	return walletResponse{ID: w.ID, Balance: w.Balance, UpdatedAt: w.UpdatedAt}
}

func toTransaction(t dbgen.WalletTransaction) transactionResponse {
	resp := transactionResponse{
		ID:          t.ID,
		Amount:      t.Amount,
		Type:        t.Type,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
	if t.BookingID.Valid {
		id := t.BookingID.Int64
		resp.BookingID = &id
	}
	return resp
}

// GET /api/v1/wallet
func HandleBalance(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	caller, err := authz.RequireCaller(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), walletQueryTimeout)
	defer cancel()

	wallet, err := svc.Wallet(ctx, caller)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{"wallet": toWallet(wallet)})
}

// GET /api/v1/wallet/transactions
func HandleTransactions(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	caller, err := authz.RequireCaller(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), walletQueryTimeout)
	defer cancel()

	txs, err := svc.Transactions(ctx, caller)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransaction(t))
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{"transactions": out})
}

// POST /api/v1/wallet/charge
func HandleCharge(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	caller, err := authz.RequireCaller(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if limiter != nil {
		ip := ratelimit.GetClientIP(r, trustProxy)
		if result := limiter.Allow(ratelimit.ActionCharge, caller.ID, ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded(ratelimit.ActionCharge, caller.ID, ip, result.Reason)
			apiutil.WriteRateLimited(w, r, result.RetryAfter)
			return
		}
	}

	var req chargeRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), walletChargeTimeout)
	defer cancel()

	result, err := svc.Charge(ctx, caller, req.Amount)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"wallet":      toWallet(result.Wallet),
		"transaction": toTransaction(result.Transaction),
	})
}
