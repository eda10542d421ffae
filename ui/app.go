package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"bookquest/api"
	"bookquest/config"
	"bookquest/epub"
	"bookquest/notify"
	"bookquest/openlibrary"
	"bookquest/prefs"
	"bookquest/quests"
	"bookquest/session"
	"bookquest/theme"
)

type AppState int

const (
	StateAuth AppState = iota
	StateMain
	StateReader
	StateTOC
)

// Deps bundles everything the screens share.
type Deps struct {
	Cfg      config.Config
	Log      *zap.Logger
	Store    *prefs.Store
	Theme    *theme.Theme
	Session  *session.Session
	API      *api.Client
	Search   *openlibrary.Client
	Checkins *quests.Checkins
	Targets  *quests.Targets
	Shelf    *epub.Shelf
	Notify   *notify.Service
}

type AppModel struct {
	deps     *Deps
	state    AppState
	authUI   AuthModel
	mainUI   MainModel
	readerUI ReaderModel
	tocUI    TOCModel
	width    int
	height   int
}

// ReminderMsg is injected from outside the program loop when a scheduled
// reading reminder fires.
type ReminderMsg struct {
	Time string
}

type errMsg struct{ error }

// bookOpenedMsg carries a parsed EPUB from the corner tab to the reader.
type bookOpenedMsg struct {
	Book *epub.Book
}

type logoutMsg struct{}

func NewAppModel(deps *Deps) AppModel {
	ApplyTheme(deps.Theme.Button())
	return AppModel{
		deps:   deps,
		state:  StateAuth,
		authUI: NewAuthModel(deps),
	}
}

func (m AppModel) Init() tea.Cmd { return m.authUI.Init() }

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
	}

	switch tm := msg.(type) {
	case authResultMsg:
		if tm.Err == nil {
			m.deps.Session.Login(tm.UserID)
			m.mainUI = NewMainModel(m.deps)
			m.state = StateMain
			if err := m.deps.Notify.Restore(); err != nil {
				m.deps.Log.Warn("restore reminders failed", zap.Error(err))
			}
			return m, tea.Batch(m.mainUI.activate(), m.syncWindowSizeCmd())
		}

	case logoutMsg:
		if err := m.deps.Notify.Reset(); err != nil {
			m.deps.Log.Warn("clear reminders on logout failed", zap.Error(err))
		}
		m.deps.Session.Logout()
		m.authUI = NewAuthModel(m.deps)
		m.state = StateAuth
		return m, m.syncWindowSizeCmd()

	case bookOpenedMsg:
		m.readerUI = NewReaderModel(tm.Book, m.deps.Cfg.Reader, m.deps.Store, m.deps.Log)
		m.state = StateReader
		return m, m.syncWindowSizeCmd()
	}

	switch m.state {
	case StateAuth:
		var cmd tea.Cmd
		m.authUI, cmd = m.authUI.Update(msg)
		return m, cmd
	case StateMain:
		var cmd tea.Cmd
		m.mainUI, cmd = m.mainUI.Update(msg)
		return m, cmd
	case StateReader:
		return m.handleStateReader(msg)
	case StateTOC:
		return m.handleStateTOC(msg)
	default:
		return m, nil
	}
}

func (m AppModel) handleStateReader(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.readerUI, cmd = m.readerUI.Update(msg)

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			m.state = StateMain
			return m, tea.Batch(cmd, m.mainUI.activate(), m.syncWindowSizeCmd())
		case "tab", "t":
			m.tocUI = NewTOCModel(m.readerUI.Book, m.width, m.height-2, m.readerUI.ChapterIndex())
			m.state = StateTOC
		case "+", "=":
			return m.adjustLineSpacing(1, cmd)
		case "-", "_":
			return m.adjustLineSpacing(-1, cmd)
		}
	}

	return m, cmd
}

const maxLineSpacing = 4

// adjustLineSpacing changes the blank rows between reader lines and writes
// the new value back to the settings file.
func (m AppModel) adjustLineSpacing(delta int, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	prev := m.deps.Cfg.Reader.LineSpacing
	next := prev + delta
	if next < 0 {
		next = 0
	}
	if next > maxLineSpacing {
		next = maxLineSpacing
	}
	if next == prev {
		return m, cmd
	}
	m.deps.Cfg.Reader.LineSpacing = next
	m.readerUI.cfg.LineSpacing = next
	if err := config.Save(m.deps.Cfg); err != nil {
		m.deps.Log.Warn("save line spacing failed", zap.Error(err))
	}
	return m, cmd
}

func (m AppModel) handleStateTOC(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.tocUI, cmd = m.tocUI.Update(msg)

	switch tm := msg.(type) {
	case tea.WindowSizeMsg:
		m.tocUI.list.SetSize(tm.Width-4, tm.Height-2)
	case TOCSelectMsg:
		m.readerUI.JumpToChapter(int(tm))
		m.state = StateReader
		cmd = tea.Batch(cmd, m.syncWindowSizeCmd())
	case TOCCancelMsg:
		m.state = StateReader
	}

	return m, cmd
}

func (m AppModel) syncWindowSizeCmd() tea.Cmd {
	width, height := m.width, m.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: width, Height: height}
	}
}

func (m AppModel) View() string {
	switch m.state {
	case StateAuth:
		return m.authUI.View()
	case StateMain:
		return m.mainUI.View()
	case StateReader:
		return m.readerUI.View()
	case StateTOC:
		return m.tocUI.View()
	default:
		return "unknown state"
	}
}
