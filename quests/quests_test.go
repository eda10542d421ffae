package quests

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookquest/prefs"
)

func newStore(t *testing.T) *prefs.Store {
	t.Helper()
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)
	return store
}

func TestToggleTwiceRestoresInitialState(t *testing.T) {
	c := NewCheckins(newStore(t), zap.NewNop())

	initial := c.Load(1)
	assert.False(t, initial["2024-01-15"])

	state, err := c.Toggle(1, "2024-01-15")
	require.NoError(t, err)
	assert.True(t, state["2024-01-15"])

	state, err = c.Toggle(1, "2024-01-15")
	require.NoError(t, err)
	assert.False(t, state["2024-01-15"])
}

func TestCheckinsScopedPerUser(t *testing.T) {
	c := NewCheckins(newStore(t), zap.NewNop())

	_, err := c.Toggle(1, "2024-01-15")
	require.NoError(t, err)

	other := c.Load(2)
	assert.False(t, other["2024-01-15"])
}

func TestWeekDatesStartMonday(t *testing.T) {
	// 2024-01-17 is a Wednesday
	wed := time.Date(2024, time.January, 17, 12, 0, 0, 0, time.UTC)
	dates := WeekDates(wed)
	require.Len(t, dates, 7)
	assert.Equal(t, "2024-01-15", dates[0])
	assert.Equal(t, "2024-01-21", dates[6])

	// a Monday is its own week start
	mon := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-15", WeekDates(mon)[0])

	// a Sunday belongs to the week that began the previous Monday
	sun := time.Date(2024, time.January, 21, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-15", WeekDates(sun)[0])
}

func TestYearlyTargetDefaults(t *testing.T) {
	targets := NewTargets(newStore(t), zap.NewNop())
	assert.Equal(t, DefaultYearlyTarget, targets.Yearly())
}

func TestYearlyTargetClampedToOne(t *testing.T) {
	targets := NewTargets(newStore(t), zap.NewNop())

	assert.Equal(t, 1, targets.SetYearly(0))
	assert.Equal(t, 1, targets.Yearly())

	assert.Equal(t, 1, targets.SetYearly(-3))
	assert.Equal(t, 25, targets.SetYearly(25))
	assert.Equal(t, 25, targets.Yearly())
}

func TestYearlyTargetSurvivesReopen(t *testing.T) {
	store := newStore(t)
	NewTargets(store, zap.NewNop()).SetYearly(12)

	again := NewTargets(store, zap.NewNop())
	assert.Equal(t, 12, again.Yearly())
}
