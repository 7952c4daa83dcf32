package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stagepass/internal/domain"
)

var testNow = time.Date(2025, 5, 15, 14, 30, 0, 0, time.UTC)

func TestResolveRange_Defaults(t *testing.T) {
	tests := []struct {
		name      string
		policy    rangePolicy
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "all time floors at 2000-01-01",
			policy:    rangeAllTime,
			wantStart: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   endOfDay(testNow),
		},
		{
			name:      "last 30 days",
			policy:    rangeLast30Days,
			wantStart: time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   endOfDay(testNow),
		},
		{
			name:      "next 30 days",
			policy:    rangeNext30Days,
			wantStart: time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   endOfDay(time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:      "month to date",
			policy:    rangeMonthToDate,
			wantStart: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   endOfDay(testNow),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := resolveRange("", "", tt.policy, testNow)
			require.NoError(t, err)
			require.Equal(t, tt.wantStart, start)
			require.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestResolveRange_ExplicitBounds(t *testing.T) {
	start, end, err := resolveRange("2025-03-01", "2025-03-10", rangeMonthToDate, testNow)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, endOfDay(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)), end)
}

func TestResolveRange_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{name: "garbage from", from: "not-a-date"},
		{name: "garbage to", to: "15/05/2025"},
		{name: "end before start", from: "2025-05-10", to: "2025-05-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := resolveRange(tt.from, tt.to, rangeAllTime, testNow)
			require.ErrorIs(t, err, domain.ErrInvalidDate)
		})
	}
}

func TestParseDay(t *testing.T) {
	t.Run("empty defaults to today", func(t *testing.T) {
		day, err := parseDay("", testNow)
		require.NoError(t, err)
		require.Equal(t, time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), day)
	})

	t.Run("explicit date", func(t *testing.T) {
		day, err := parseDay("2024-12-31", testNow)
		require.NoError(t, err)
		require.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), day)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := parseDay("31-12-2024", testNow)
		require.ErrorIs(t, err, domain.ErrInvalidDate)
	})
}
