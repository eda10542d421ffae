package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"

	"github.com/charmbracelet/bubbles/textinput"

	"bookquest/api"
)

const (
	formFieldTitle = iota
	formFieldAuthor
	formFieldYear
	formFieldRating
	formFieldStatus
	formFieldImageURL
	formFieldFinished
	formFieldCount
)

var statusCycle = []string{api.StatusNotRead, api.StatusRead, api.StatusCurrentlyReading}

// bookFormModel is the add/edit form. The status row is not a text input,
// left/right cycles it instead.
type bookFormModel struct {
	inputs    map[int]textinput.Model
	statusIdx int
	focus     int
	errText   string
	submitted bool
}

func newFormInput(prompt, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.PromptStyle = PromptStyle
	in.TextStyle = PromptTextStyle
	in.Cursor.Style = PromptCursorStyle
	in.CharLimit = limit
	in.SetValue(value)
	return in
}

func newBookFormModel(form api.BookForm) bookFormModel {
	inputs := map[int]textinput.Model{
		formFieldTitle:    newFormInput("Title      ", form.Title, 200),
		formFieldAuthor:   newFormInput("Author     ", form.Author, 200),
		formFieldYear:     newFormInput("Year       ", form.Year, 6),
		formFieldRating:   newFormInput("Rating 1-5 ", form.Rating, 1),
		formFieldImageURL: newFormInput("Cover URL  ", form.ImageURL, 500),
		formFieldFinished: newFormInput("Finished   ", form.FinishedReading, 10),
	}
	if in, ok := inputs[formFieldFinished]; ok {
		in.Placeholder = "2006-01-02"
		inputs[formFieldFinished] = in
	}

	statusIdx := 0
	for i, s := range statusCycle {
		if s == form.Read {
			statusIdx = i
		}
	}

	m := bookFormModel{inputs: inputs, statusIdx: statusIdx}
	m.setFocus(formFieldTitle)
	return m
}

func (m *bookFormModel) setFocus(field int) {
	m.focus = field
	for i, in := range m.inputs {
		if i == field {
			in.Focus()
		} else {
			in.Blur()
		}
		m.inputs[i] = in
	}
}

func (m bookFormModel) Update(msg tea.Msg) (bookFormModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % formFieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus - 1 + formFieldCount) % formFieldCount)
			return m, nil
		case "enter":
			if m.focus == formFieldCount-1 {
				m.submitted = true
				return m, nil
			}
			m.setFocus(m.focus + 1)
			return m, nil
		case "left", "right":
			if m.focus == formFieldStatus {
				delta := 1
				if key.String() == "left" {
					delta = len(statusCycle) - 1
				}
				m.statusIdx = (m.statusIdx + delta) % len(statusCycle)
				return m, nil
			}
		}
	}

	if in, ok := m.inputs[m.focus]; ok {
		var cmd tea.Cmd
		in, cmd = in.Update(msg)
		m.inputs[m.focus] = in
		return m, cmd
	}
	return m, nil
}

func (m bookFormModel) toForm() api.BookForm {
	return api.BookForm{
		Title:           m.inputs[formFieldTitle].Value(),
		Author:          m.inputs[formFieldAuthor].Value(),
		Year:            m.inputs[formFieldYear].Value(),
		Rating:          m.inputs[formFieldRating].Value(),
		Read:            statusCycle[m.statusIdx],
		ImageURL:        m.inputs[formFieldImageURL].Value(),
		FinishedReading: m.inputs[formFieldFinished].Value(),
	}
}

func (m bookFormModel) View(width int) string {
	statusRow := "Status     " + statusCycle[m.statusIdx]
	if m.focus == formFieldStatus {
		statusRow = SelectedTitleStyle.Render("Status     ◂ " + statusCycle[m.statusIdx] + " ▸")
	} else {
		statusRow = LabelStyle.Render(statusRow)
	}

	rows := []string{
		BannerStyle.Render("Book details"),
		"",
		LabelStyle.Render(m.inputs[formFieldTitle].View()),
		LabelStyle.Render(m.inputs[formFieldAuthor].View()),
		LabelStyle.Render(m.inputs[formFieldYear].View()),
		LabelStyle.Render(m.inputs[formFieldRating].View()),
		statusRow,
		LabelStyle.Render(m.inputs[formFieldImageURL].View()),
		LabelStyle.Render(m.inputs[formFieldFinished].View()),
	}
	if m.errText != "" {
		rows = append(rows, "", ErrorStyle.Render(m.errText))
	}
	rows = append(rows, "", StatusMutedStyle.Render("enter on last field or ctrl+s: save  ·  esc: cancel"))
	return gloss.JoinVertical(gloss.Left, rows...)
}
