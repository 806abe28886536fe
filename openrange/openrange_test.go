package openrange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxbquant/orb/market"
)

var sessionDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func bar(h, l, c float64) market.Bar {
	return market.Bar{Symbol: "AAPL", High: h, Low: l, Close: c, Open: c, Volume: 1000}
}

func formedTracker(t *testing.T) *Tracker {
	t.Helper()

	tr := NewTracker(3)
	tr.StartSession("AAPL", sessionDate)
	tr.Update(bar(101, 99, 100))
	tr.Update(bar(102, 100, 101))
	tr.Update(bar(101.5, 99.5, 100.5))
	require.True(t, tr.Formed())
	return tr
}

func TestTracker_FormsAfterWindow(t *testing.T) {
	t.Parallel()

	tr := NewTracker(3)
	tr.StartSession("AAPL", sessionDate)

	tr.Update(bar(101, 99, 100))
	assert.False(t, tr.Formed())
	_, err := tr.Range()
	assert.ErrorIs(t, err, ErrNotFormed)

	tr.Update(bar(102, 100, 101))
	tr.Update(bar(101.5, 99.5, 100.5))
	require.True(t, tr.Formed())

	rng, err := tr.Range()
	require.NoError(t, err)
	assert.InDelta(t, 102.0, rng.High, 1e-9)
	assert.InDelta(t, 99.0, rng.Low, 1e-9)
	assert.InDelta(t, 3.0, rng.Size(), 1e-9)
}

func TestTracker_RangeImmutableAfterFormation(t *testing.T) {
	t.Parallel()

	tr := formedTracker(t)

	// A later spike must not widen the finalized range.
	tr.Update(bar(110, 95, 108))

	rng, err := tr.Range()
	require.NoError(t, err)
	assert.InDelta(t, 102.0, rng.High, 1e-9)
	assert.InDelta(t, 99.0, rng.Low, 1e-9)
}

func TestTracker_NoCandidateBeforeFormation(t *testing.T) {
	t.Parallel()

	tr := NewTracker(3)
	tr.StartSession("AAPL", sessionDate)
	tr.Update(bar(101, 99, 100))

	_, ok := tr.Candidate(150)
	assert.False(t, ok)
}

func TestTracker_BullishAndBearishCandidates(t *testing.T) {
	t.Parallel()

	tr := formedTracker(t)

	dir, ok := tr.Candidate(102.5)
	require.True(t, ok)
	assert.Equal(t, market.Long, dir)

	// Resolve back inside, then break down.
	_, ok = tr.Candidate(100.0)
	assert.False(t, ok)

	dir, ok = tr.Candidate(98.5)
	require.True(t, ok)
	assert.Equal(t, market.Short, dir)
}

func TestTracker_SuppressesDuplicateCandidates(t *testing.T) {
	t.Parallel()

	tr := formedTracker(t)

	_, ok := tr.Candidate(102.5)
	require.True(t, ok)

	// Price keeps pushing above the range: no re-fire.
	_, ok = tr.Candidate(103.0)
	assert.False(t, ok)
	_, ok = tr.Candidate(104.0)
	assert.False(t, ok)

	// Resolves inside, then breaks out again: fires once more.
	_, ok = tr.Candidate(101.0)
	assert.False(t, ok)
	dir, ok := tr.Candidate(103.0)
	require.True(t, ok)
	assert.Equal(t, market.Long, dir)
}

func TestTracker_StartSessionResets(t *testing.T) {
	t.Parallel()

	tr := formedTracker(t)
	_, ok := tr.Candidate(102.5)
	require.True(t, ok)

	tr.StartSession("AAPL", sessionDate.AddDate(0, 0, 1))
	assert.False(t, tr.Formed())
	_, ok = tr.Candidate(102.5)
	assert.False(t, ok)
}

func TestTracker_InsideRangeNoCandidate(t *testing.T) {
	t.Parallel()

	tr := formedTracker(t)
	_, ok := tr.Candidate(100.5)
	assert.False(t, ok)
}
