package theme

import (
	"sync"

	"go.uber.org/zap"

	"bookquest/prefs"
)

const (
	DefaultBackground = "#FBF5E9"
	DefaultButton     = "#AECFA4"

	backgroundKey = "theme.background"
	buttonKey     = "theme.button"
)

// Swatches offered by the color pickers.
var (
	BackgroundPalette = []string{
		"#FAF9F6", "#F5F2EC", "#EAF5F1", "#E8F1FA",
		"#F7EEF8", "#F9F7EC", "#FFF9E8", "#F0EFFF",
		DefaultBackground,
	}
	ButtonPalette = []string{
		"#B1D27B", "#A6C875", "#F5F2EC", "#D1DCC6",
		"#EAF3E4", "#EAF5F1", "#E8F1FA", "#4F4F4F",
		DefaultButton,
	}
)

// Theme holds the two customizable colors. The in-memory value is the
// authority for the running session; persistence happens off the update path
// and a failed write is only logged.
type Theme struct {
	mu         sync.Mutex
	store      *prefs.Store
	log        *zap.Logger
	background string
	button     string
}

// Load builds a Theme from whatever the store has, keeping defaults for
// missing values.
func Load(store *prefs.Store, log *zap.Logger) *Theme {
	t := &Theme{
		store:      store,
		log:        log,
		background: DefaultBackground,
		button:     DefaultButton,
	}
	if v, ok := store.Get(backgroundKey); ok {
		t.background = v
	}
	if v, ok := store.Get(buttonKey); ok {
		t.button = v
	}
	return t
}

func (t *Theme) Background() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.background
}

func (t *Theme) Button() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.button
}

func (t *Theme) SetBackground(color string) {
	t.mu.Lock()
	t.background = color
	t.mu.Unlock()
	t.persist(backgroundKey, color)
}

func (t *Theme) SetButton(color string) {
	t.mu.Lock()
	t.button = color
	t.mu.Unlock()
	t.persist(buttonKey, color)
}

func (t *Theme) persist(key, color string) {
	go func() {
		if err := t.store.Set(key, color); err != nil {
			t.log.Error("persist theme color failed",
				zap.String("key", key), zap.Error(err))
		}
	}()
}
