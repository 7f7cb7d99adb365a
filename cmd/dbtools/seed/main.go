// cmd/dbtools/seed/main.go
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Padelicious/internal/api/auth"
	"github.com/codr1/Padelicious/internal/cancellation"
	"github.com/codr1/Padelicious/internal/catalog"
	"github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/identity"
)

type seededUser struct {
	name  string
	email string
	role  identity.Role
}

var users = []seededUser{
	{name: "Admin", email: "admin@padelicious.local", role: identity.RoleAdmin},
	{name: "Court Owner", email: "owner@padelicious.local", role: identity.RoleFieldOwner},
	{name: "Player", email: "player@padelicious.local", role: identity.RolePlayer},
}

func main() {
	var (
		dbPath = flag.String("db", "data/padelicious.db", "Path to SQLite database")
		secret = flag.String("secret", os.Getenv("APP_SECRET_KEY"), "Token signing key (defaults to APP_SECRET_KEY)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	ctx := log.Logger.WithContext(context.Background())

	database, err := db.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("Failed to open database")
	}
	defer database.Close()

	callers, err := seed(ctx, database)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	if *secret == "" {
		log.Warn().Msg("No signing key given; skipping token output")
		return
	}
	tokens, err := auth.NewTokenManager(*secret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token manager")
	}
	for i, caller := range callers {
		token, err := tokens.Issue(caller)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to issue token")
		}
		fmt.Printf("%-12s %s\n", users[i].role, token)
	}
}

// seed creates the demo users, one club with two courts, an evening
// surcharge and a cancellation policy on the owner's court.
func seed(ctx context.Context, database *db.DB) ([]identity.Caller, error) {
	callers := make([]identity.Caller, 0, len(users))
	for _, u := range users {
		created, err := database.Queries.CreateUser(ctx, dbgen.CreateUserParams{
			Name:  u.name,
			Email: sql.NullString{String: u.email, Valid: true},
			Role:  string(u.role),
		})
		if err != nil {
			return nil, fmt.Errorf("create user %s: %w", u.email, err)
		}
		callers = append(callers, identity.Caller{ID: created.ID, Role: u.role})
	}
	admin, owner := callers[0], callers[1]

	city, err := database.Queries.CreateCity(ctx, "Tehran")
	if err != nil {
		return nil, fmt.Errorf("create city: %w", err)
	}
	club, err := database.Queries.CreateSportsClub(ctx, dbgen.CreateSportsClubParams{
		CityID:  city.ID,
		Name:    "Azadi Padel Club",
		Address: "Azadi Sports Complex",
		OwnerID: sql.NullInt64{Int64: owner.ID, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create club: %w", err)
	}

	courts := []dbgen.CreateCourtParams{
		{SportsClubID: club.ID, Name: "Court 1", Type: "INDOOR", BasePricePerHour: decimal.NewFromInt(800000), OwnerID: sql.NullInt64{Int64: owner.ID, Valid: true}},
		{SportsClubID: club.ID, Name: "Court 2", Type: "OUTDOOR", BasePricePerHour: decimal.NewFromInt(600000)},
	}
	policies := cancellation.NewService(database)
	for _, params := range courts {
		court, err := database.Queries.CreateCourt(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("create court %s: %w", params.Name, err)
		}
		if _, err := catalog.AddPricingRule(ctx, database.Queries, admin, catalog.AddPricingRuleParams{
			CourtID:    court.ID,
			Start:      "18:00",
			End:        "23:00",
			Multiplier: decimal.RequireFromString("1.5"),
		}); err != nil {
			return nil, fmt.Errorf("add pricing rule: %w", err)
		}
		if params.OwnerID.Valid {
			if _, err := policies.SetPolicy(ctx, owner, cancellation.PolicyParams{
				CourtID:          court.ID,
				HoursBeforeStart: 24,
				RefundPercentage: 50,
				Description:      "Half refund when cancelled a day ahead",
			}); err != nil {
				return nil, fmt.Errorf("set cancellation policy: %w", err)
			}
		}
		log.Ctx(ctx).Info().Int64("court_id", court.ID).Str("name", court.Name).Msg("Court seeded")
	}
	return callers, nil
}
