package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
)

type authMode int

const (
	authLogin authMode = iota
	authRegister
)

// AuthModel is the login/register screen shown before anything else.
type AuthModel struct {
	deps     *Deps
	mode     authMode
	username textinput.Model
	password textinput.Model
	confirm  textinput.Model
	focus    int
	busy     bool
	errText  string
	infoText string
	width    int
	height   int
}

type authResultMsg struct {
	UserID int64
	Err    error
}

type registerDoneMsg struct {
	Err error
}

func NewAuthModel(deps *Deps) AuthModel {
	username := textinput.New()
	username.Prompt = "Username  "
	username.PromptStyle = PromptStyle
	username.TextStyle = PromptTextStyle
	username.Cursor.Style = PromptCursorStyle
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Prompt = "Password  "
	password.PromptStyle = PromptStyle
	password.TextStyle = PromptTextStyle
	password.Cursor.Style = PromptCursorStyle
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 64

	confirm := textinput.New()
	confirm.Prompt = "Confirm   "
	confirm.PromptStyle = PromptStyle
	confirm.TextStyle = PromptTextStyle
	confirm.Cursor.Style = PromptCursorStyle
	confirm.EchoMode = textinput.EchoPassword
	confirm.CharLimit = 64

	return AuthModel{
		deps:     deps,
		username: username,
		password: password,
		confirm:  confirm,
	}
}

func (m AuthModel) Init() tea.Cmd { return textinput.Blink }

func (m AuthModel) inputCount() int {
	if m.mode == authRegister {
		return 3
	}
	return 2
}

func (m *AuthModel) setFocus(idx int) {
	m.focus = idx
	inputs := []*textinput.Model{&m.username, &m.password, &m.confirm}
	for i, in := range inputs {
		if i == idx {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m AuthModel) Update(msg tea.Msg) (AuthModel, tea.Cmd) {
	switch tm := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = tm.Width
		m.height = tm.Height
		return m, nil

	case authResultMsg:
		m.busy = false
		if tm.Err != nil {
			m.errText = tm.Err.Error()
		}
		return m, nil

	case registerDoneMsg:
		m.busy = false
		if tm.Err != nil {
			m.errText = tm.Err.Error()
			return m, nil
		}
		m.mode = authLogin
		m.infoText = "Account created, please log in."
		m.errText = ""
		m.password.SetValue("")
		m.confirm.SetValue("")
		m.setFocus(0)
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch tm.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % m.inputCount())
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus - 1 + m.inputCount()) % m.inputCount())
			return m, nil
		case "ctrl+r":
			if m.mode == authLogin {
				m.mode = authRegister
			} else {
				m.mode = authLogin
			}
			m.errText = ""
			m.infoText = ""
			m.setFocus(0)
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.username, cmd = m.username.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	m.confirm, cmd = m.confirm.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m AuthModel) submit() (AuthModel, tea.Cmd) {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()

	if username == "" || password == "" {
		m.errText = "Please fill in all fields."
		return m, nil
	}
	if m.mode == authRegister && password != m.confirm.Value() {
		m.errText = "Passwords do not match."
		return m, nil
	}

	m.busy = true
	m.errText = ""
	m.infoText = ""
	deps := m.deps

	if m.mode == authRegister {
		return m, func() tea.Msg {
			_, err := deps.API.Register(context.Background(), username, password)
			return registerDoneMsg{Err: err}
		}
	}
	return m, func() tea.Msg {
		userID, err := deps.API.Login(context.Background(), username, password)
		return authResultMsg{UserID: userID, Err: err}
	}
}

func (m AuthModel) View() string {
	title := "MyBookQuest"
	subtitle := "log in"
	hint := "enter: log in  ·  ctrl+r: create an account"
	if m.mode == authRegister {
		subtitle = "create account"
		hint = "enter: register  ·  ctrl+r: back to log in"
	}

	rows := []string{
		BannerStyle.Render(title),
		StatusMutedStyle.Render(subtitle),
		"",
		m.username.View(),
		m.password.View(),
	}
	if m.mode == authRegister {
		rows = append(rows, m.confirm.View())
	}
	if m.busy {
		rows = append(rows, "", StatusMutedStyle.Render("Signing in..."))
	}
	if m.errText != "" {
		rows = append(rows, "", ErrorStyle.Render(m.errText))
	}
	if m.infoText != "" {
		rows = append(rows, "", StatusStyle.Render(m.infoText))
	}
	rows = append(rows, "", StatusMutedStyle.Render(hint))

	body := gloss.JoinVertical(gloss.Left, rows...)
	if m.width > 0 && m.height > 0 {
		return gloss.Place(m.width, m.height, gloss.Center, gloss.Center, body)
	}
	return body
}
