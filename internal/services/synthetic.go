package services

import (
	"math"
	"time"

	"stagepass/internal/domain"
)

// Value bounds for the synthetic backfills. Occupancy applies to events with
// zero booked seats or future dates; the two utilization ranges correspond to
// the persisted-record and derived-record variants.
const (
	syntheticOccupancyMin = 10.0
	syntheticOccupancyMax = 85.0

	syntheticUtilizationMin = 30.0
	syntheticUtilizationMax = 79.0

	syntheticDerivedUtilMin = 20.0
	syntheticDerivedUtilMax = 75.0
)

// Bias constants applied on top of the hashed base value, then clamped.
const (
	weekendBias       = 8.0
	monthProgressBias = 5.0
	futureBias        = 10.0
	nearFutureBias    = 5.0
)

// hash32 computes a rolling polynomial hash of s with explicit 32-bit signed
// wraparound at every step (h = h*31 + r). The wraparound is part of the
// contract: repeated report requests for the same seed must see the same
// value across processes and runs.
func hash32(s string) int32 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return h
}

// syntheticSeed builds the canonical seed string label-YYYY-MM-DD.
func syntheticSeed(label string, day time.Time) string {
	return label + "-" + day.Format(dateLayout)
}

// syntheticValue maps a seed deterministically into [min, max], adjusted by
// calendar features of day relative to now: weekends and later days of the
// month bias upward, as do future dates (with an extra boost inside 30 days
// of now). The result is clamped back into [min, max]. Callers must only use
// this when the real value is exactly zero or the day is in the future; it
// never replaces a genuinely computed non-zero value.
func syntheticValue(label string, day time.Time, min, max float64, now time.Time) float64 {
	h := int64(hash32(syntheticSeed(label, day)))
	if h < 0 {
		h = -h
	}
	norm := float64(h) / float64(math.MaxInt32)
	v := min + norm*(max-min)

	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		v += weekendBias
	}
	v += float64(day.Day()) / 31.0 * monthProgressBias

	today := startOfDay(now)
	if day.After(today) {
		v += futureBias
		if !day.After(today.AddDate(0, 0, 30)) {
			v += nearFutureBias
		}
	}

	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return roundTo(v, 2)
}

// occupancyOrSynthetic returns the event's real occupancy, or a
// deterministic synthetic value in [10, 85] when the real figure is exactly
// zero or the event date is in the future. A genuine non-zero past value is
// returned unchanged.
func occupancyOrSynthetic(e *domain.Event, now time.Time) float64 {
	occ := e.Occupancy()
	if occ == 0 || e.Date.After(endOfDay(now)) {
		return syntheticValue(e.Name, startOfDay(e.Date), syntheticOccupancyMin, syntheticOccupancyMax, now)
	}
	return roundTo(occ, 2)
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
