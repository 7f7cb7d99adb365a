// Package payment abstracts payment initiation. The booking core calls a
// Gateway and trusts its verdict; no real provider is wired yet.
package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/config"
)

type Result struct {
	Success       bool
	TransactionID string
	Message       string
}

type Gateway interface {
	Initiate(ctx context.Context, amount decimal.Decimal, reference string) (Result, error)
}

// GatewayFunc adapts a function to Gateway.
type GatewayFunc func(ctx context.Context, amount decimal.Decimal, reference string) (Result, error)

func (f GatewayFunc) Initiate(ctx context.Context, amount decimal.Decimal, reference string) (Result, error) {
	return f(ctx, amount, reference)
}

// MockGateway approves every payment unless Decline is set.
type MockGateway struct {
	Decline bool
	Now     func() time.Time
}

func (g *MockGateway) Initiate(ctx context.Context, amount decimal.Decimal, reference string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	logger := log.Ctx(ctx).With().
		Str("component", "mock_payment_gateway").
		Str("reference", reference).
		Str("amount", amount.String()).
		Logger()

	if g.Decline {
		logger.Info().Msg("Mock payment declined")
		return Result{Success: false, Message: "payment declined"}, nil
	}
	if !amount.IsPositive() {
		return Result{Success: false, Message: "amount must be greater than 0"}, nil
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	txID := fmt.Sprintf("mock_%d_%s", now().UnixMilli(), reference)
	logger.Info().Str("transaction_id", txID).Msg("Mock payment approved")
	return Result{Success: true, TransactionID: txID}, nil
}

// New builds the gateway selected by cfg.
func New(cfg config.PaymentConfig) (Gateway, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "mock":
		return &MockGateway{Decline: cfg.MockDecline}, nil
	default:
		return nil, fmt.Errorf("unsupported payment provider: %s", cfg.Provider)
	}
}
