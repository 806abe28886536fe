package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxbquant/orb/market"
)

func dubai(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Dubai")
	require.NoError(t, err)
	return loc
}

func TestWindow_Contains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		w      Window
		minute int
		want   bool
	}{
		{"inside plain", Window{720, 1230}, 900, true},
		{"open boundary", Window{720, 1230}, 720, true},
		{"close boundary", Window{720, 1230}, 1230, true},
		{"before open", Window{720, 1230}, 719, false},
		{"after close", Window{720, 1230}, 1231, false},
		{"wrap evening side", Window{1110, 60}, 1200, true},
		{"wrap midnight", Window{1110, 60}, 0, true},
		{"wrap morning side", Window{1110, 60}, 59, true},
		{"wrap closed gap", Window{1110, 60}, 600, false},
		{"wrap just after close", Window{1110, 60}, 61, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.w.Contains(tt.minute))
		})
	}
}

func TestParseWindow(t *testing.T) {
	t.Parallel()

	w, err := ParseWindow("12:00-20:30")
	require.NoError(t, err)
	assert.Equal(t, Window{720, 1230}, w)

	w, err = ParseWindow("18:30-01:00")
	require.NoError(t, err)
	assert.Equal(t, Window{1110, 60}, w)
	assert.True(t, w.Wraps())

	_, err = ParseWindow("garbage")
	assert.Error(t, err)
}

func TestScheduler_Eligibility(t *testing.T) {
	t.Parallel()

	s := Default()
	loc := dubai(t)

	at := func(h, m int) time.Time {
		return time.Date(2025, 6, 2, h, m, 0, 0, loc)
	}

	tests := []struct {
		name string
		sess market.Session
		t    time.Time
		want bool
	}{
		{"uk open", market.SessionUK, at(12, 0), true},
		{"uk mid", market.SessionUK, at(15, 0), true},
		{"uk close", market.SessionUK, at(20, 30), true},
		{"uk after close", market.SessionUK, at(20, 31), false},
		{"uk before open", market.SessionUK, at(11, 59), false},
		{"us before open", market.SessionUS, at(18, 0), false},
		{"us open", market.SessionUS, at(18, 30), true},
		{"us evening", market.SessionUS, at(23, 0), true},
		{"us past midnight", market.SessionUS, at(0, 30), true},
		{"us close", market.SessionUS, at(1, 0), true},
		{"us after close", market.SessionUS, at(1, 1), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, s.Eligible(tt.sess, tt.t))
		})
	}
}

func TestScheduler_Overlap(t *testing.T) {
	t.Parallel()

	s := Default()
	loc := dubai(t)

	// 18:30-20:30 Dubai both sessions accept entries.
	both := time.Date(2025, 6, 2, 19, 0, 0, 0, loc)
	assert.True(t, s.Eligible(market.SessionUK, both))
	assert.True(t, s.Eligible(market.SessionUS, both))

	// 03:00 Dubai nothing is open.
	dead := time.Date(2025, 6, 2, 3, 0, 0, 0, loc)
	assert.False(t, s.Eligible(market.SessionUK, dead))
	assert.False(t, s.Eligible(market.SessionUS, dead))
	assert.False(t, s.AnyOpen(dead))
	assert.True(t, s.AnyOpen(both))
}

func TestScheduler_FormationPeriods(t *testing.T) {
	t.Parallel()

	s := Default()
	loc := dubai(t)

	assert.True(t, s.InFormation(market.SessionUK, time.Date(2025, 6, 2, 12, 15, 0, 0, loc)))
	assert.False(t, s.InFormation(market.SessionUK, time.Date(2025, 6, 2, 12, 45, 0, 0, loc)))
	assert.True(t, s.InFormation(market.SessionUS, time.Date(2025, 6, 2, 18, 45, 0, 0, loc)))
	assert.False(t, s.InFormation(market.SessionUS, time.Date(2025, 6, 2, 19, 30, 0, 0, loc)))
}

func TestScheduler_SessionDateAcrossMidnight(t *testing.T) {
	t.Parallel()

	s := Default()
	loc := dubai(t)

	evening := time.Date(2025, 6, 2, 23, 0, 0, 0, loc)
	pastMidnight := time.Date(2025, 6, 3, 0, 45, 0, 0, loc)

	// Both belong to the June 2 US session.
	assert.Equal(t, s.SessionDate(market.SessionUS, evening),
		s.SessionDate(market.SessionUS, pastMidnight))

	// The UK session never wraps: date is the calendar date.
	ukDate := s.SessionDate(market.SessionUK, time.Date(2025, 6, 3, 13, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), ukDate)
}
