// Package catalog reads courts, clubs and pricing rules for the booking core.
// Catalog CRUD lives elsewhere; the only write here is adding pricing rules.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/apperror"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/identity"
	"github.com/codr1/Padelicious/internal/pricing"
)

var ErrCourtNotFound = apperror.NotFound("court not found")

type Court struct {
	ID               int64
	Name             string
	Type             string
	BasePricePerHour decimal.Decimal
	OwnerID          *int64
	ClubID           int64
	ClubName         string
	CityName         string
}

// HasOwner reports whether a field owner is attached to the court.
func (c Court) HasOwner() bool {
	return c.OwnerID != nil
}

// OwnedBy reports whether userID owns the court.
func (c Court) OwnedBy(userID int64) bool {
	return c.OwnerID != nil && *c.OwnerID == userID
}

// GetCourt loads a court with its club and city names.
func GetCourt(ctx context.Context, q dbgen.Querier, courtID int64) (Court, error) {
	if q == nil {
		return Court{}, fmt.Errorf("queries are required")
	}
	if courtID <= 0 {
		return Court{}, apperror.Validation("court_id must be a positive integer")
	}
	row, err := q.GetCourtDetails(ctx, courtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Court{}, ErrCourtNotFound
		}
		return Court{}, fmt.Errorf("load court: %w", err)
	}
	court := Court{
		ID:               row.ID,
		Name:             row.Name,
		Type:             row.Type,
		BasePricePerHour: row.BasePricePerHour,
		ClubID:           row.ClubID,
		ClubName:         row.ClubName,
		CityName:         row.CityName,
	}
	if row.OwnerID.Valid {
		owner := row.OwnerID.Int64
		court.OwnerID = &owner
	}
	return court, nil
}

// PricingRules returns the court's rules in declaration order.
func PricingRules(ctx context.Context, q dbgen.Querier, courtID int64) ([]pricing.Rule, error) {
	rows, err := q.ListPricingRulesByCourt(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}
	rules := make([]pricing.Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, pricing.Rule{
			Start:      row.StartTime,
			End:        row.EndTime,
			Multiplier: row.Multiplier,
		})
	}
	return rules, nil
}

// RequireManager allows the court's owner and admins.
func RequireManager(court Court, caller identity.Caller) error {
	if !caller.Valid() {
		return apperror.Unauthenticated("authentication required")
	}
	if caller.IsAdmin() {
		return nil
	}
	if caller.IsFieldOwner() && court.OwnedBy(caller.ID) {
		return nil
	}
	return apperror.Forbidden("only the court owner or an admin can manage this court")
}

type AddPricingRuleParams struct {
	CourtID    int64
	Start      string
	End        string
	Multiplier decimal.Decimal
}

// AddPricingRule appends a rule after the court's existing ones.
func AddPricingRule(ctx context.Context, q dbgen.Querier, caller identity.Caller, params AddPricingRuleParams) (dbgen.PricingRule, error) {
	court, err := GetCourt(ctx, q, params.CourtID)
	if err != nil {
		return dbgen.PricingRule{}, err
	}
	if err := RequireManager(court, caller); err != nil {
		return dbgen.PricingRule{}, err
	}

	rule := pricing.Rule{
		Start:      strings.TrimSpace(params.Start),
		End:        strings.TrimSpace(params.End),
		Multiplier: params.Multiplier,
	}
	if err := pricing.ValidateRule(rule); err != nil {
		return dbgen.PricingRule{}, apperror.Wrap(apperror.KindValidation, err.Error(), err)
	}

	created, err := q.CreatePricingRule(ctx, dbgen.CreatePricingRuleParams{
		CourtID:    court.ID,
		StartTime:  rule.Start,
		EndTime:    rule.End,
		Multiplier: rule.Multiplier,
	})
	if err != nil {
		return dbgen.PricingRule{}, fmt.Errorf("create pricing rule: %w", err)
	}

	log.Ctx(ctx).Info().
		Int64("court_id", court.ID).
		Int64("pricing_rule_id", created.ID).
		Int64("user_id", caller.ID).
		Str("window", rule.Start+"-"+rule.End).
		Str("multiplier", rule.Multiplier.String()).
		Msg("Pricing rule added")
	return created, nil
}
