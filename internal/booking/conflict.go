package booking

import (
	"context"
	"fmt"
	"time"

	dbgen "github.com/codr1/Padelicious/internal/db/generated"
)

// HasConflict reports whether the user owns another CONFIRMED booking, or a
// PENDING hold created at or after holdSince, on any court overlapping
// [start, end). excludeID 0 excludes nothing.
func HasConflict(ctx context.Context, q dbgen.Querier, userID int64, start, end time.Time, excludeID int64, holdSince time.Time) (bool, error) {
	count, err := q.CountUserConflicts(ctx, dbgen.CountUserConflictsParams{
		UserID:     userID,
		ExcludeID:  excludeID,
		RangeEnd:   end.UTC(),
		RangeStart: start.UTC(),
		HoldSince:  holdSince.UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("check user conflicts: %w", err)
	}
	return count > 0, nil
}

// courtOccupied counts CONFIRMED bookings and PENDING holds created at or
// after holdSince overlapping [start, end).
func courtOccupied(ctx context.Context, q dbgen.Querier, courtID int64, start, end time.Time, excludeID int64, holdSince time.Time) (bool, error) {
	count, err := q.CountCourtOccupancy(ctx, dbgen.CountCourtOccupancyParams{
		CourtID:    courtID,
		ExcludeID:  excludeID,
		RangeEnd:   end.UTC(),
		RangeStart: start.UTC(),
		HoldSince:  holdSince.UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("check court occupancy: %w", err)
	}
	return count > 0, nil
}
