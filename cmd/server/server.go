// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/codr1/Padelicious/internal/api"
	"github.com/codr1/Padelicious/internal/api/apiutil"
	"github.com/codr1/Padelicious/internal/api/bookings"
	"github.com/codr1/Padelicious/internal/api/cancellationpolicy"
	"github.com/codr1/Padelicious/internal/api/courts"
	"github.com/codr1/Padelicious/internal/api/wallet"
	"github.com/codr1/Padelicious/internal/config"
	"github.com/codr1/Padelicious/internal/metrics"
)

func newServer(cfg *config.Config, a *application) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithAuth(a.tokens),
		api.WithMetrics,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	courts.InitHandlers(a.db, a.bookings)
	bookings.InitHandlers(a.bookings, a.limiter, cfg.RateLimit.TrustProxy)
	cancellationpolicy.InitHandlers(a.cancellations, a.loc)
	wallet.InitHandlers(a.wallets, a.limiter, cfg.RateLimit.TrustProxy)

	// Register routes
	registerRoutes(router, cfg)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		apiutil.WriteSuccess(w, r, http.StatusOK, map[string]any{"status": "ok"})
	})
	if cfg.Features.EnableMetrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Courts
	mux.HandleFunc("GET /api/v1/courts/{id}/slots", courts.HandleSlots)
	mux.HandleFunc("POST /api/v1/courts/{id}/pricing-rules", courts.HandleAddPricingRule)
	mux.HandleFunc("GET /api/v1/courts/{id}/cancellation-policy", cancellationpolicy.HandleGetPolicy)
	mux.HandleFunc("PUT /api/v1/courts/{id}/cancellation-policy", cancellationpolicy.HandlePutPolicy)

	// Bookings
	mux.HandleFunc("POST /api/v1/bookings", bookings.HandleCreate)
	mux.HandleFunc("GET /api/v1/bookings", bookings.HandleList)
	mux.HandleFunc("PATCH /api/v1/bookings/{id}", bookings.HandleUpdate)
	mux.HandleFunc("POST /api/v1/bookings/{id}/invitation", bookings.HandleRespondToInvitation)
	mux.HandleFunc("POST /api/v1/invitations/{token}/accept", bookings.HandleAcceptInvitation)

	// Cancellations
	mux.HandleFunc("POST /api/v1/bookings/{id}/cancellation", cancellationpolicy.HandleRequestCancellation)
	mux.HandleFunc("POST /api/v1/bookings/{id}/cancellation/verify", cancellationpolicy.HandleVerifyCancellation)
	mux.HandleFunc("GET /api/v1/cancellation-requests", cancellationpolicy.HandleListRequests)

	// Wallet
	mux.HandleFunc("GET /api/v1/wallet", wallet.HandleBalance)
	mux.HandleFunc("GET /api/v1/wallet/transactions", wallet.HandleTransactions)
	mux.HandleFunc("POST /api/v1/wallet/charge", wallet.HandleCharge)
}
