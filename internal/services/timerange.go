package services

import (
	"fmt"
	"time"

	"stagepass/internal/domain"
)

// rangePolicy selects the default window when from/to are absent.
// Each endpoint declares its policy explicitly.
type rangePolicy int

const (
	// rangeAllTime floors the window at 2000-01-01.
	rangeAllTime rangePolicy = iota
	// rangeLast30Days covers the 30 days ending today.
	rangeLast30Days
	// rangeNext30Days covers today through 30 days out.
	rangeNext30Days
	// rangeMonthToDate covers the first of the current month through today.
	rangeMonthToDate
)

const dateLayout = "2006-01-02"

// allTimeFloor is the fixed epoch floor for the all-time policy.
var allTimeFloor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// startOfDay returns t at 00:00:00.000 in t's location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns t at 23:59:59.999999999 in t's location.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// resolveRange normalizes optional from/to date strings into a concrete
// [start, end] window. Unparseable input fails with domain.ErrInvalidDate
// rather than propagating a zero time. Pure function of its inputs; now is
// injected by the caller.
func resolveRange(from, to string, policy rangePolicy, now time.Time) (time.Time, time.Time, error) {
	var start, end time.Time

	switch policy {
	case rangeAllTime:
		start, end = allTimeFloor, endOfDay(now)
	case rangeLast30Days:
		start, end = startOfDay(now.AddDate(0, 0, -30)), endOfDay(now)
	case rangeNext30Days:
		start, end = startOfDay(now), endOfDay(now.AddDate(0, 0, 30))
	case rangeMonthToDate:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = endOfDay(now)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown range policy %d", policy)
	}

	if from != "" {
		t, err := time.ParseInLocation(dateLayout, from, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from %q", domain.ErrInvalidDate, from)
		}
		start = startOfDay(t)
	}
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to %q", domain.ErrInvalidDate, to)
		}
		end = endOfDay(t)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range end before start", domain.ErrInvalidDate)
	}
	return start, end, nil
}

// parseDay parses a single YYYY-MM-DD value, defaulting to today when empty.
func parseDay(date string, now time.Time) (time.Time, error) {
	if date == "" {
		return startOfDay(now), nil
	}
	t, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, date)
	}
	return startOfDay(t), nil
}
