//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"drivebook/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end time.Time) schedule.TimeWindow {
	t.Helper()
	w, err := schedule.NewTimeWindow(start, end)
	require.NoError(t, err)
	return w
}

func TestNewTimeWindow(t *testing.T) {
	base := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)

	t.Run("valid window", func(t *testing.T) {
		w, err := schedule.NewTimeWindow(base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, base, w.Start())
		assert.Equal(t, base.Add(time.Hour), w.End())
		assert.Equal(t, time.Hour, w.Duration())
	})

	t.Run("zero duration rejected", func(t *testing.T) {
		_, err := schedule.NewTimeWindow(base, base)
		assert.ErrorIs(t, err, schedule.ErrInvalidTimeWindow)
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		_, err := schedule.NewTimeWindow(base.Add(time.Hour), base)
		assert.ErrorIs(t, err, schedule.ErrInvalidTimeWindow)
	})

	t.Run("stores instants in UTC", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)

		local := base.In(tokyo)
		w, err := schedule.NewTimeWindow(local, local.Add(time.Hour))
		require.NoError(t, err)

		assert.Equal(t, time.UTC, w.Start().Location())
		assert.True(t, w.Start().Equal(base))
	})
}

func TestTimeWindowOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	window := mustWindow(t, base, base.Add(2*time.Hour)) // [09:00, 11:00)

	cases := []struct {
		name     string
		other    schedule.TimeWindow
		overlaps bool
	}{
		{
			name:     "identical windows",
			other:    mustWindow(t, base, base.Add(2*time.Hour)),
			overlaps: true,
		},
		{
			name:     "partial overlap at tail",
			other:    mustWindow(t, base.Add(time.Hour), base.Add(3*time.Hour)),
			overlaps: true,
		},
		{
			name:     "contained window",
			other:    mustWindow(t, base.Add(30*time.Minute), base.Add(time.Hour)),
			overlaps: true,
		},
		{
			name:     "containing window",
			other:    mustWindow(t, base.Add(-time.Hour), base.Add(3*time.Hour)),
			overlaps: true,
		},
		{
			name:     "back to back after",
			other:    mustWindow(t, base.Add(2*time.Hour), base.Add(4*time.Hour)),
			overlaps: false,
		},
		{
			name:     "back to back before",
			other:    mustWindow(t, base.Add(-2*time.Hour), base),
			overlaps: false,
		},
		{
			name:     "disjoint",
			other:    mustWindow(t, base.Add(5*time.Hour), base.Add(6*time.Hour)),
			overlaps: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, window.Overlaps(tc.other))
			// Overlap is symmetric
			assert.Equal(t, tc.overlaps, tc.other.Overlaps(window))
		})
	}
}

func TestTimeWindowContains(t *testing.T) {
	base := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	window := mustWindow(t, base, base.Add(2*time.Hour))

	assert.True(t, window.Contains(base), "start is inside the closed-open window")
	assert.True(t, window.Contains(base.Add(time.Hour)))
	assert.False(t, window.Contains(base.Add(2*time.Hour)), "end is outside the closed-open window")
	assert.False(t, window.Contains(base.Add(-time.Second)))
}
