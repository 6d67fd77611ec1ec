package market

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYork(t *testing.T) Session {
	t.Helper()
	s, err := NewYorkSession()
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	s := newYork(t)
	assert.Equal(t, "America/New_York", s.Location.String())
	assert.Equal(t, Clock{9, 30}, s.Open)
	assert.Equal(t, Clock{16, 0}, s.Close)

	_, err := NewSession("Nowhere/City", "09:30", "16:00")
	assert.Error(t, err)

	_, err = NewSession("UTC", "9h30", "16:00")
	assert.Error(t, err)

	_, err = NewSession("UTC", "16:00", "16:00")
	assert.ErrorContains(t, err, "not before close")
}

func TestIsOpen(t *testing.T) {
	s := newYork(t)
	loc := s.Location

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"wednesday at open", time.Date(2025, 10, 22, 9, 30, 0, 0, loc), true},
		{"wednesday one minute before open", time.Date(2025, 10, 22, 9, 29, 0, 0, loc), false},
		{"wednesday midday", time.Date(2025, 10, 22, 12, 15, 0, 0, loc), true},
		{"wednesday last minute", time.Date(2025, 10, 22, 15, 59, 0, 0, loc), true},
		{"wednesday at close", time.Date(2025, 10, 22, 16, 0, 0, 0, loc), false},
		{"wednesday evening", time.Date(2025, 10, 22, 20, 0, 0, 0, loc), false},
		{"saturday midday", time.Date(2025, 10, 25, 12, 0, 0, 0, loc), false},
		{"sunday midday", time.Date(2025, 10, 26, 12, 0, 0, 0, loc), false},
		// 14:00 UTC is 10:00 EDT
		{"utc input converted", time.Date(2025, 10, 22, 14, 0, 0, 0, time.UTC), true},
		// 14:00 UTC is 09:00 EST after the DST change
		{"utc input after dst", time.Date(2025, 11, 5, 14, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsOpen(tt.at))
		})
	}
}

func TestNextWeekday(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{"monday to tuesday", date(2025, 10, 20), date(2025, 10, 21)},
		{"thursday to friday", date(2025, 10, 23), date(2025, 10, 24)},
		{"friday to monday", date(2025, 10, 24), date(2025, 10, 27)},
		{"saturday to monday", date(2025, 10, 25), date(2025, 10, 27)},
		{"sunday to monday", date(2025, 10, 26), date(2025, 10, 27)},
		{"month boundary", date(2025, 10, 31), date(2025, 11, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextWeekday(tt.from))
		})
	}
}

func TestNextOpenDate(t *testing.T) {
	s := newYork(t)
	loc := s.Location
	midnight := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}

	tests := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{"weekday pre-market trades same day", time.Date(2025, 10, 22, 7, 0, 0, 0, loc), midnight(2025, 10, 22)},
		{"weekday just after midnight", time.Date(2025, 10, 22, 0, 5, 0, 0, loc), midnight(2025, 10, 22)},
		{"weekday after close rolls", time.Date(2025, 10, 22, 18, 0, 0, 0, loc), midnight(2025, 10, 23)},
		{"friday after close rolls to monday", time.Date(2025, 10, 24, 17, 0, 0, 0, loc), midnight(2025, 10, 27)},
		{"saturday morning rolls to monday", time.Date(2025, 10, 25, 8, 0, 0, 0, loc), midnight(2025, 10, 27)},
		{"sunday evening rolls to monday", time.Date(2025, 10, 26, 21, 0, 0, 0, loc), midnight(2025, 10, 27)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.NextOpenDate(tt.at)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseDateTime(t *testing.T) {
	s := newYork(t)

	at, err := s.ParseDateTime("2025-10-22", "09:45")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 22, 13, 45, 0, 0, time.UTC), at.UTC())

	d, err := s.ParseDate("2026-01-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 29, 5, 0, 0, 0, time.UTC), d.UTC())

	_, err = s.ParseDateTime("2025-10-22", "9:45am")
	assert.Error(t, err)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
