package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
)

// MainModel owns the tab bar and the four logged-in screens.
type MainModel struct {
	deps      *Deps
	tabs      []string
	activeTab int
	shelvesUI ShelvesModel
	questsUI  QuestsModel
	cornerUI  CornerModel
	profileUI ProfileModel
	reminder  string
	width     int
	height    int
}

func NewMainModel(deps *Deps) MainModel {
	return MainModel{
		deps:      deps,
		tabs:      []string{"Shelves", "Quests", "Reading Corner", "Profile"},
		shelvesUI: NewShelvesModel(deps),
		questsUI:  NewQuestsModel(deps),
		cornerUI:  NewCornerModel(deps),
		profileUI: NewProfileModel(deps),
	}
}

func (m MainModel) Init() tea.Cmd { return nil }

// activate refreshes whichever tab is showing.
func (m MainModel) activate() tea.Cmd {
	switch m.activeTab {
	case 0:
		return m.shelvesUI.activate()
	case 1:
		return m.questsUI.activate()
	case 2:
		return m.cornerUI.activate()
	case 3:
		return m.profileUI.activate()
	}
	return nil
}

func (m *MainModel) nextTab() {
	m.activeTab++
	if m.activeTab >= len(m.tabs) {
		m.activeTab = 0
	}
}

func (m *MainModel) prevTab() {
	m.activeTab--
	if m.activeTab < 0 {
		m.activeTab = len(m.tabs) - 1
	}
}

func (m MainModel) Update(msg tea.Msg) (MainModel, tea.Cmd) {
	switch tm := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = tm.Width
		m.height = tm.Height

	case ReminderMsg:
		m.reminder = "Time to read! Pick up where you left off. (" + tm.Time + ")"
		return m, nil

	case tea.KeyMsg:
		// tab switching is global unless a screen is capturing text input
		if !m.activeCapturesInput() {
			switch tm.String() {
			case "tab":
				m.nextTab()
				return m, m.activate()
			case "shift+tab":
				m.prevTab()
				return m, m.activate()
			}
		}
		if m.reminder != "" {
			m.reminder = ""
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case 0:
		m.shelvesUI, cmd = m.shelvesUI.Update(msg)
	case 1:
		m.questsUI, cmd = m.questsUI.Update(msg)
	case 2:
		m.cornerUI, cmd = m.cornerUI.Update(msg)
	case 3:
		m.profileUI, cmd = m.profileUI.Update(msg)
	}
	return m, cmd
}

// activeCapturesInput reports whether the showing screen has a focused text
// field, in which case tab must reach it instead of switching screens.
func (m MainModel) activeCapturesInput() bool {
	switch m.activeTab {
	case 0:
		return m.shelvesUI.capturesInput()
	case 1:
		return m.questsUI.capturesInput()
	case 3:
		return m.profileUI.capturesInput()
	}
	return false
}

func (m MainModel) View() string {
	var renderedTabs []string
	for i, name := range m.tabs {
		if i == m.activeTab {
			renderedTabs = append(renderedTabs, ActiveTabStyle.Render(name))
		} else {
			renderedTabs = append(renderedTabs, InactiveTabStyle.Render(name))
		}
	}
	tabsRow := TabsRow.Width(m.width).Render(gloss.JoinHorizontal(gloss.Top, renderedTabs...))

	lineWidth := m.width
	if lineWidth > 64 {
		lineWidth = 64
	}
	if lineWidth < 0 {
		lineWidth = 0
	}
	underlineRow := UnderlineRow.Width(m.width).Render(strings.Repeat("─", lineWidth))

	result := tabsRow + "\n" + underlineRow
	if m.reminder != "" {
		result += "\n" + StatusStyle.Width(m.width).Render(m.reminder)
	}

	var body string
	switch m.activeTab {
	case 0:
		body = m.shelvesUI.View()
	case 1:
		body = m.questsUI.View()
	case 2:
		body = m.cornerUI.View()
	case 3:
		body = m.profileUI.View()
	}
	return result + "\n" + body
}
