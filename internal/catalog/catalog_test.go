package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/identity"
	"github.com/codr1/Padelicious/internal/testutil"
)

func TestGetCourtLoadsClubAndOwner(t *testing.T) {
	database := testutil.NewTestDB(t)
	owner := testutil.CreateUser(t, database, "owner", "FIELD_OWNER")
	created := testutil.CreateCourt(t, database, testutil.CourtOptions{Name: "Center", OwnerID: owner})

	court, err := GetCourt(context.Background(), database.Queries, created.ID)
	if err != nil {
		t.Fatalf("get court: %v", err)
	}
	if court.ClubName != "Club of Center" || court.CityName != "City of Center" {
		t.Fatalf("unexpected club/city: %+v", court)
	}
	if !court.OwnedBy(owner) {
		t.Fatalf("expected court owned by %d", owner)
	}

	_, err = GetCourt(context.Background(), database.Queries, created.ID+100)
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddPricingRuleAuthorization(t *testing.T) {
	database := testutil.NewTestDB(t)
	owner := testutil.CreateUser(t, database, "owner", "FIELD_OWNER")
	otherOwner := testutil.CreateUser(t, database, "other", "FIELD_OWNER")
	admin := testutil.CreateUser(t, database, "admin", "ADMIN")
	player := testutil.CreateUser(t, database, "player", "PLAYER")
	court := testutil.CreateCourt(t, database, testutil.CourtOptions{OwnerID: owner})

	tests := []struct {
		name     string
		caller   identity.Caller
		wantKind apperror.Kind
		wantErr  bool
	}{
		{name: "owner", caller: identity.Caller{ID: owner, Role: identity.RoleFieldOwner}},
		{name: "admin", caller: identity.Caller{ID: admin, Role: identity.RoleAdmin}},
		{name: "other owner", caller: identity.Caller{ID: otherOwner, Role: identity.RoleFieldOwner}, wantErr: true, wantKind: apperror.KindAuthorization},
		{name: "player", caller: identity.Caller{ID: player, Role: identity.RolePlayer}, wantErr: true, wantKind: apperror.KindAuthorization},
		{name: "anonymous", caller: identity.Caller{}, wantErr: true, wantKind: apperror.KindAuth},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := AddPricingRule(context.Background(), database.Queries, tc.caller, AddPricingRuleParams{
				CourtID:    court.ID,
				Start:      "18:00",
				End:        "23:00",
				Multiplier: decimal.RequireFromString("1.5"),
			})
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("add rule: %v", err)
				}
				return
			}
			if apperror.KindOf(err) != tc.wantKind {
				t.Fatalf("expected %v, got %v", tc.wantKind, err)
			}
		})
	}

	rules, err := PricingRules(context.Background(), database.Queries, court.ID)
	if err != nil {
		t.Fatalf("list rules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules from owner and admin, got %d", len(rules))
	}
}

func TestAddPricingRuleValidation(t *testing.T) {
	database := testutil.NewTestDB(t)
	admin := identity.Caller{ID: testutil.CreateUser(t, database, "admin", "ADMIN"), Role: identity.RoleAdmin}
	court := testutil.CreateCourt(t, database, testutil.CourtOptions{})

	tests := []struct {
		name       string
		start, end string
		multiplier string
	}{
		{name: "bad start", start: "25:00", end: "23:00", multiplier: "1.5"},
		{name: "missing end", start: "18:00", end: "", multiplier: "1.5"},
		{name: "zero multiplier", start: "18:00", end: "23:00", multiplier: "0"},
		{name: "negative multiplier", start: "18:00", end: "23:00", multiplier: "-1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := AddPricingRule(context.Background(), database.Queries, admin, AddPricingRuleParams{
				CourtID:    court.ID,
				Start:      tc.start,
				End:        tc.end,
				Multiplier: decimal.RequireFromString(tc.multiplier),
			})
			if apperror.KindOf(err) != apperror.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
