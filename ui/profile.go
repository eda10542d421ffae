package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"

	"bookquest/notify"
	"bookquest/theme"
)

type profileMode int

const (
	profileView profileMode = iota
	profileEditName
	profilePassword
	profileTheme
	profileReminders
	profileConfirmLogout
)

// ProfileModel covers account settings: username, password, theme colors,
// reading reminders, and logout.
type ProfileModel struct {
	deps    *Deps
	mode    profileMode
	width   int
	height  int
	errText string
	status  string

	username  string
	nameInput textinput.Model

	pwInputs [3]textinput.Model
	pwFocus  int

	themeRow  int // 0 background, 1 button
	bgCursor  int
	btnCursor int

	reminders      []notify.Entry
	reminderCursor int
	timeInput      textinput.Model
	addingTime     bool
}

type usernameMsg struct {
	Name string
	Err  error
}

type usernameSavedMsg struct {
	Name string
	Err  error
}

type passwordChangedMsg struct {
	Err error
}

type remindersMsg struct {
	Entries []notify.Entry
	Err     error
}

func NewProfileModel(deps *Deps) ProfileModel {
	nameInput := textinput.New()
	nameInput.Prompt = "New username: "
	nameInput.PromptStyle = PromptStyle
	nameInput.TextStyle = PromptTextStyle
	nameInput.Cursor.Style = PromptCursorStyle
	nameInput.CharLimit = 64

	var pwInputs [3]textinput.Model
	for i, prompt := range []string{"Current  ", "New      ", "Confirm  "} {
		in := textinput.New()
		in.Prompt = prompt
		in.PromptStyle = PromptStyle
		in.TextStyle = PromptTextStyle
		in.Cursor.Style = PromptCursorStyle
		in.EchoMode = textinput.EchoPassword
		in.CharLimit = 64
		pwInputs[i] = in
	}

	timeInput := textinput.New()
	timeInput.Prompt = "Time (HH:MM): "
	timeInput.PromptStyle = PromptStyle
	timeInput.TextStyle = PromptTextStyle
	timeInput.Cursor.Style = PromptCursorStyle
	timeInput.CharLimit = 5

	m := ProfileModel{
		deps:      deps,
		nameInput: nameInput,
		pwInputs:  pwInputs,
		timeInput: timeInput,
	}
	m.syncThemeCursors()
	return m
}

func (m *ProfileModel) syncThemeCursors() {
	bg := m.deps.Theme.Background()
	btn := m.deps.Theme.Button()
	for i, c := range theme.BackgroundPalette {
		if c == bg {
			m.bgCursor = i
		}
	}
	for i, c := range theme.ButtonPalette {
		if c == btn {
			m.btnCursor = i
		}
	}
}

func (m ProfileModel) capturesInput() bool {
	switch m.mode {
	case profileEditName, profilePassword:
		return true
	case profileReminders:
		return m.addingTime
	}
	return false
}

func (m ProfileModel) activate() tea.Cmd {
	deps := m.deps
	userID := deps.Session.UserID()
	return func() tea.Msg {
		name, err := deps.API.Username(context.Background(), userID)
		return usernameMsg{Name: name, Err: err}
	}
}

func (m ProfileModel) saveUsernameCmd(name string) tea.Cmd {
	deps := m.deps
	userID := deps.Session.UserID()
	return func() tea.Msg {
		saved, err := deps.API.SetUsername(context.Background(), userID, name)
		return usernameSavedMsg{Name: saved, Err: err}
	}
}

func (m ProfileModel) changePasswordCmd(current, next string) tea.Cmd {
	deps := m.deps
	userID := deps.Session.UserID()
	return func() tea.Msg {
		err := deps.API.ChangePassword(context.Background(), userID, current, next)
		return passwordChangedMsg{Err: err}
	}
}

func (m ProfileModel) addReminderCmd(hhmm string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		entries, err := deps.Notify.Add(hhmm)
		return remindersMsg{Entries: entries, Err: err}
	}
}

func (m ProfileModel) removeReminderCmd(id string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		entries, err := deps.Notify.Remove(id)
		return remindersMsg{Entries: entries, Err: err}
	}
}

func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	switch tm := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = tm.Width
		m.height = tm.Height
		return m, nil

	case usernameMsg:
		if tm.Err != nil {
			m.errText = tm.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.username = tm.Name
		return m, nil

	case usernameSavedMsg:
		if tm.Err != nil {
			m.errText = tm.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.username = tm.Name
		m.status = "Username updated."
		m.mode = profileView
		return m, nil

	case passwordChangedMsg:
		if tm.Err != nil {
			m.errText = tm.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.status = "Password changed."
		m.mode = profileView
		for i := range m.pwInputs {
			m.pwInputs[i].SetValue("")
		}
		return m, nil

	case remindersMsg:
		if tm.Err != nil {
			m.errText = tm.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.reminders = tm.Entries
		if m.reminderCursor >= len(m.reminders) {
			m.reminderCursor = len(m.reminders) - 1
		}
		if m.reminderCursor < 0 {
			m.reminderCursor = 0
		}
		m.addingTime = false
		m.timeInput.SetValue("")
		m.timeInput.Blur()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(tm)
	}

	return m, nil
}

func (m ProfileModel) handleKey(key tea.KeyMsg) (ProfileModel, tea.Cmd) {
	switch m.mode {
	case profileView:
		switch key.String() {
		case "u":
			m.mode = profileEditName
			m.status = ""
			m.errText = ""
			m.nameInput.SetValue(m.username)
			m.nameInput.Focus()
			return m, textinput.Blink
		case "p":
			m.mode = profilePassword
			m.status = ""
			m.errText = ""
			m.pwFocus = 0
			m.setPwFocus(0)
			return m, textinput.Blink
		case "c":
			m.mode = profileTheme
			m.status = ""
			m.errText = ""
			m.syncThemeCursors()
			return m, nil
		case "n":
			m.mode = profileReminders
			m.status = ""
			m.errText = ""
			m.reminders = m.deps.Notify.List()
			m.reminderCursor = 0
			return m, nil
		case "x":
			m.mode = profileConfirmLogout
			return m, nil
		}

	case profileEditName:
		switch key.String() {
		case "esc":
			m.mode = profileView
			m.nameInput.Blur()
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				m.errText = "Username cannot be empty."
				return m, nil
			}
			m.nameInput.Blur()
			return m, m.saveUsernameCmd(name)
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(key)
		return m, cmd

	case profilePassword:
		switch key.String() {
		case "esc":
			m.mode = profileView
			for i := range m.pwInputs {
				m.pwInputs[i].SetValue("")
				m.pwInputs[i].Blur()
			}
			return m, nil
		case "tab", "down":
			m.setPwFocus((m.pwFocus + 1) % 3)
			return m, nil
		case "shift+tab", "up":
			m.setPwFocus((m.pwFocus + 2) % 3)
			return m, nil
		case "enter":
			if m.pwFocus < 2 {
				m.setPwFocus(m.pwFocus + 1)
				return m, nil
			}
			current := m.pwInputs[0].Value()
			next := m.pwInputs[1].Value()
			confirm := m.pwInputs[2].Value()
			if current == "" || next == "" || confirm == "" {
				m.errText = "Please fill in all fields."
				return m, nil
			}
			if next != confirm {
				m.errText = "New passwords do not match."
				return m, nil
			}
			return m, m.changePasswordCmd(current, next)
		}
		var cmd tea.Cmd
		m.pwInputs[m.pwFocus], cmd = m.pwInputs[m.pwFocus].Update(key)
		return m, cmd

	case profileTheme:
		switch key.String() {
		case "esc":
			m.mode = profileView
			return m, nil
		case "up", "k", "down", "j":
			m.themeRow = 1 - m.themeRow
			return m, nil
		case "left", "h":
			m.moveSwatch(-1)
			return m, nil
		case "right", "l":
			m.moveSwatch(1)
			return m, nil
		case "enter":
			if m.themeRow == 0 {
				m.deps.Theme.SetBackground(theme.BackgroundPalette[m.bgCursor])
			} else {
				m.deps.Theme.SetButton(theme.ButtonPalette[m.btnCursor])
				ApplyTheme(theme.ButtonPalette[m.btnCursor])
			}
			m.status = "Theme updated."
			return m, nil
		}

	case profileReminders:
		if m.addingTime {
			switch key.String() {
			case "esc":
				m.addingTime = false
				m.timeInput.SetValue("")
				m.timeInput.Blur()
				return m, nil
			case "enter":
				hhmm := strings.TrimSpace(m.timeInput.Value())
				if hhmm == "" {
					return m, nil
				}
				return m, m.addReminderCmd(hhmm)
			}
			var cmd tea.Cmd
			m.timeInput, cmd = m.timeInput.Update(key)
			return m, cmd
		}
		switch key.String() {
		case "esc":
			m.mode = profileView
			return m, nil
		case "up", "k":
			if m.reminderCursor > 0 {
				m.reminderCursor--
			}
			return m, nil
		case "down", "j":
			if m.reminderCursor < len(m.reminders)-1 {
				m.reminderCursor++
			}
			return m, nil
		case "a":
			m.addingTime = true
			m.errText = ""
			m.timeInput.Focus()
			return m, textinput.Blink
		case "d", "backspace":
			if m.reminderCursor < len(m.reminders) {
				return m, m.removeReminderCmd(m.reminders[m.reminderCursor].ID)
			}
			return m, nil
		}

	case profileConfirmLogout:
		switch key.String() {
		case "y", "enter":
			return m, func() tea.Msg { return logoutMsg{} }
		case "n", "esc":
			m.mode = profileView
		}
		return m, nil
	}

	return m, nil
}

func (m *ProfileModel) setPwFocus(idx int) {
	m.pwFocus = idx
	for i := range m.pwInputs {
		if i == idx {
			m.pwInputs[i].Focus()
		} else {
			m.pwInputs[i].Blur()
		}
	}
}

func (m *ProfileModel) moveSwatch(delta int) {
	if m.themeRow == 0 {
		m.bgCursor = clampIndex(m.bgCursor+delta, len(theme.BackgroundPalette))
	} else {
		m.btnCursor = clampIndex(m.btnCursor+delta, len(theme.ButtonPalette))
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (m ProfileModel) View() string {
	switch m.mode {
	case profileEditName:
		return m.screen(
			BannerStyle.Render("Change username"),
			LabelStyle.Render(m.nameInput.View()),
			StatusMutedStyle.Render("enter: save  esc: cancel"),
		)
	case profilePassword:
		return m.screen(
			BannerStyle.Render("Change password"),
			LabelStyle.Render(m.pwInputs[0].View()),
			LabelStyle.Render(m.pwInputs[1].View()),
			LabelStyle.Render(m.pwInputs[2].View()),
			StatusMutedStyle.Render("enter: next / save  esc: cancel"),
		)
	case profileTheme:
		return m.themeView()
	case profileReminders:
		return m.remindersView()
	case profileConfirmLogout:
		body := strings.Join([]string{
			ConfirmPromptStyle.Render("Log out of your account?"),
			"",
			StatusMutedStyle.Render("y: log out   n: stay"),
		}, "\n")
		return gloss.Place(m.width, m.height-3, gloss.Center, gloss.Center, ConfirmBoxStyle.Render(body))
	default:
		return m.screen(
			BannerStyle.Render("Profile"),
			LabelStyle.Render("Signed in as: "+ValueStyle.Render(m.username)),
			"",
			LabelStyle.Render("u: change username"),
			LabelStyle.Render("p: change password"),
			LabelStyle.Render("c: theme colors"),
			LabelStyle.Render("n: reading reminders"),
			LabelStyle.Render("x: log out"),
		)
	}
}

func (m ProfileModel) screen(rows ...string) string {
	all := make([]string, 0, len(rows)+2)
	all = append(all, rows...)
	if m.errText != "" {
		all = append(all, "", ErrorStyle.Render(m.errText))
	}
	if m.status != "" {
		all = append(all, "", StatusStyle.Render(m.status))
	}
	return gloss.JoinVertical(gloss.Left, all...)
}

func (m ProfileModel) themeView() string {
	renderRow := func(palette []string, cursor int, active bool) string {
		var cells []string
		for i, c := range palette {
			cell := "■ " + c
			switch {
			case active && i == cursor:
				cell = SwatchSelectedStyle.Render("[" + cell + "]")
			default:
				cell = SwatchStyle.Render(" " + gloss.NewStyle().Foreground(gloss.Color(c)).Render("■") + " " + c + " ")
			}
			cells = append(cells, cell)
		}
		return strings.Join(cells, "")
	}

	return m.screen(
		BannerStyle.Render("Theme"),
		LabelStyle.Render("Background  "+renderRow(theme.BackgroundPalette, m.bgCursor, m.themeRow == 0)),
		LabelStyle.Render("Buttons     "+renderRow(theme.ButtonPalette, m.btnCursor, m.themeRow == 1)),
		"",
		StatusMutedStyle.Render("↑/↓: row  ←/→: pick  enter: apply  esc: back"),
	)
}

func (m ProfileModel) remindersView() string {
	rows := []string{BannerStyle.Render("Reading reminders")}
	if len(m.reminders) == 0 {
		rows = append(rows, StatusMutedStyle.Render("No reminders set."))
	}
	for i, e := range m.reminders {
		line := "  " + e.Time
		if i == m.reminderCursor && !m.addingTime {
			line = SwatchSelectedStyle.Render("▸ " + e.Time)
		}
		rows = append(rows, LabelStyle.Render(line))
	}
	if m.addingTime {
		rows = append(rows, "", LabelStyle.Render(m.timeInput.View()))
		rows = append(rows, StatusMutedStyle.Render("enter: add  esc: cancel"))
	} else {
		rows = append(rows, "", StatusMutedStyle.Render(fmt.Sprintf("a: add  d: remove  esc: back  (%d set)", len(m.reminders))))
	}
	return m.screen(rows...)
}
