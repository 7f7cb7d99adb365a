// Package pricing resolves the hourly price of a court slot from the court's
// base price and its ordered time-of-day multiplier rules.
package pricing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const clockLayout = "15:04"

// Rule applies Multiplier to slots whose start time of day falls in
// [Start, End). End at or before Start wraps past midnight.
type Rule struct {
	Start      string
	End        string
	Multiplier decimal.Decimal
}

// Price returns the per-hour price for a slot starting at slotStart,
// evaluated in loc. The first matching rule wins; no match yields base.
func Price(base decimal.Decimal, rules []Rule, slotStart time.Time, loc *time.Location) decimal.Decimal {
	if loc == nil {
		loc = time.UTC
	}
	local := slotStart.In(loc)
	minute := local.Hour()*60 + local.Minute()

	for _, rule := range rules {
		start, err := ParseClock(rule.Start)
		if err != nil {
			continue
		}
		end, err := ParseClock(rule.End)
		if err != nil {
			continue
		}
		if inWindow(minute, start, end) {
			return base.Mul(rule.Multiplier)
		}
	}
	return base
}

// Total is pricePerHour scaled by the booked duration, rounded to two places.
func Total(pricePerHour decimal.Decimal, start, end time.Time) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(end.Sub(start) / time.Minute))
	return pricePerHour.Mul(minutes).Div(decimal.NewFromInt(60)).Round(2)
}

func inWindow(minute, start, end int) bool {
	if end > start {
		return minute >= start && minute < end
	}
	return minute >= start || minute < end
}

// ParseClock parses "HH:mm" into minutes after midnight.
func ParseClock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("time is required")
	}
	parsed, err := time.Parse(clockLayout, raw)
	if err != nil {
		return 0, fmt.Errorf("time %q must be in HH:MM format", raw)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// ValidateRule rejects rules that Price would silently skip.
func ValidateRule(rule Rule) error {
	if _, err := ParseClock(rule.Start); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if _, err := ParseClock(rule.End); err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if !rule.Multiplier.IsPositive() {
		return errors.New("multiplier must be greater than 0")
	}
	return nil
}
