package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// CreateUser inserts a user with the given role and returns its id.
func CreateUser(t *testing.T, database *db.DB, name, role string) int64 {
	t.Helper()

	user, err := database.Queries.CreateUser(context.Background(), dbgen.CreateUserParams{
		Name:  name,
		Email: sql.NullString{String: name + "@example.com", Valid: true},
		Role:  role,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user.ID
}

type CourtOptions struct {
	Name      string
	BasePrice string
	OwnerID   int64
}

// CreateCourt inserts a city, club and court. A zero OwnerID leaves the
// court without an owner.
func CreateCourt(t *testing.T, database *db.DB, opts CourtOptions) dbgen.Court {
	t.Helper()
	ctx := context.Background()

	if opts.Name == "" {
		opts.Name = "Court 1"
	}
	if opts.BasePrice == "" {
		opts.BasePrice = "100000"
	}
	owner := sql.NullInt64{}
	if opts.OwnerID > 0 {
		owner = sql.NullInt64{Int64: opts.OwnerID, Valid: true}
	}

	city, err := database.Queries.CreateCity(ctx, "City of "+opts.Name)
	if err != nil {
		t.Fatalf("create city: %v", err)
	}
	club, err := database.Queries.CreateSportsClub(ctx, dbgen.CreateSportsClubParams{
		CityID:  city.ID,
		Name:    "Club of " + opts.Name,
		OwnerID: owner,
	})
	if err != nil {
		t.Fatalf("create club: %v", err)
	}
	court, err := database.Queries.CreateCourt(ctx, dbgen.CreateCourtParams{
		SportsClubID:     club.ID,
		Name:             opts.Name,
		Type:             "INDOOR",
		BasePricePerHour: decimal.RequireFromString(opts.BasePrice),
		OwnerID:          owner,
	})
	if err != nil {
		t.Fatalf("create court: %v", err)
	}
	return court
}

// AddPricingRule appends a time-of-day multiplier to a court.
func AddPricingRule(t *testing.T, database *db.DB, courtID int64, start, end, multiplier string) {
	t.Helper()

	if _, err := database.Queries.CreatePricingRule(context.Background(), dbgen.CreatePricingRuleParams{
		CourtID:    courtID,
		StartTime:  start,
		EndTime:    end,
		Multiplier: decimal.RequireFromString(multiplier),
	}); err != nil {
		t.Fatalf("create pricing rule: %v", err)
	}
}
