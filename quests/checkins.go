package quests

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"bookquest/prefs"
)

// Checkins stores the per-user daily check-in map (ISO date → checked).
// Any past date may be toggled, so the map is never pruned.
type Checkins struct {
	store *prefs.Store
	log   *zap.Logger
}

func NewCheckins(store *prefs.Store, log *zap.Logger) *Checkins {
	return &Checkins{store: store, log: log}
}

func checkinsKey(userID int64) string {
	return fmt.Sprintf("checkins.%d", userID)
}

// Load returns the user's check-in map. Any read failure degrades to an
// empty map.
func (c *Checkins) Load(userID int64) map[string]bool {
	checkins := make(map[string]bool)
	if _, err := c.store.GetJSON(checkinsKey(userID), &checkins); err != nil {
		c.log.Warn("load checkins failed", zap.Int64("user", userID), zap.Error(err))
		return make(map[string]bool)
	}
	return checkins
}

// Toggle flips the marker for date and persists the whole map, returning the
// new state.
func (c *Checkins) Toggle(userID int64, date string) (map[string]bool, error) {
	checkins := c.Load(userID)
	checkins[date] = !checkins[date]
	if err := c.store.SetJSON(checkinsKey(userID), checkins); err != nil {
		return checkins, err
	}
	return checkins, nil
}

// WeekDates returns the ISO dates of the week containing now, Monday first.
func WeekDates(now time.Time) []string {
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -offset)
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format("2006-01-02")
	}
	return dates
}

// WeekdayLabels matches WeekDates positionally.
var WeekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
