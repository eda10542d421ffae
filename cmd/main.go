package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"bookquest/api"
	"bookquest/config"
	"bookquest/epub"
	"bookquest/logger"
	"bookquest/notify"
	"bookquest/openlibrary"
	"bookquest/prefs"
	"bookquest/quests"
	"bookquest/session"
	"bookquest/theme"
	"bookquest/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	dir, err := config.Dir()
	if err != nil {
		fmt.Println("Error resolving config dir:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, filepath.Join(dir, "bookquest.log"))
	if err != nil {
		fmt.Println("Error opening log file:", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := prefs.Open(filepath.Join(dir, "prefs.json"))
	if err != nil {
		fmt.Println("Error opening preferences:", err)
		os.Exit(1)
	}

	// The registrar fires from cron goroutines; the program pointer is set
	// before Run starts processing messages.
	var program *tea.Program
	registrar := notify.NewCronRegistrar(func(e notify.Entry) {
		if program != nil {
			program.Send(ui.ReminderMsg{Time: e.Time})
		}
	}, log)
	defer registrar.Stop()

	deps := &ui.Deps{
		Cfg:      cfg,
		Log:      log,
		Store:    store,
		Theme:    theme.Load(store, log),
		Session:  session.New(),
		API:      api.NewClient(cfg.API.BaseURL, log),
		Search:   openlibrary.NewClient(log),
		Checkins: quests.NewCheckins(store, log),
		Targets:  quests.NewTargets(store, log),
		Shelf:    epub.NewShelf(store, filepath.Join(dir, "epubs"), log),
		Notify:   notify.NewService(store, registrar, log),
	}

	log.Info("starting", zap.String("api", cfg.API.BaseURL))

	program = tea.NewProgram(ui.NewAppModel(deps), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}
