package quests

import (
	"strconv"

	"go.uber.org/zap"

	"bookquest/prefs"
)

const (
	// MonthlyTarget is fixed; only the yearly goal is editable.
	MonthlyTarget       = 5
	DefaultYearlyTarget = 50

	// Not scoped by user id: one yearly target is shared by every
	// account on a device. See DESIGN.md.
	yearlyTargetKey = "yearlyTarget"
)

// Targets reads and writes the yearly reading goal.
type Targets struct {
	store *prefs.Store
	log   *zap.Logger
}

func NewTargets(store *prefs.Store, log *zap.Logger) *Targets {
	return &Targets{store: store, log: log}
}

// Yearly returns the stored yearly target, or the default.
func (t *Targets) Yearly() int {
	raw, ok := t.store.Get(yearlyTargetKey)
	if !ok {
		return DefaultYearlyTarget
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return DefaultYearlyTarget
	}
	return n
}

// SetYearly clamps the target to a minimum of 1, persists it, and returns
// the value actually stored.
func (t *Targets) SetYearly(target int) int {
	if target < 1 {
		target = 1
	}
	if err := t.store.Set(yearlyTargetKey, strconv.Itoa(target)); err != nil {
		t.log.Error("persist yearly target failed", zap.Error(err))
	}
	return target
}
