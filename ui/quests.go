package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"

	"bookquest/api"
	"bookquest/quests"
)

// QuestsModel shows reading stats, the weekly check-in row, and the
// monthly/yearly goals.
type QuestsModel struct {
	deps    *Deps
	width   int
	height  int
	loading bool
	errText string

	summary    api.RatingSummary
	monthCount int
	yearCount  int

	checkins  map[string]bool
	weekDates []string
	dayCursor int

	editingTarget bool
	targetInput   textinput.Model
	yearlyTarget  int

	editingDate bool
	dateInput   textinput.Model
}

type questStatsMsg struct {
	Summary    api.RatingSummary
	MonthCount int
	YearCount  int
	Err        error
}

type checkinToggledMsg struct {
	State map[string]bool
	Err   error
}

func NewQuestsModel(deps *Deps) QuestsModel {
	input := textinput.New()
	input.Prompt = "Yearly goal: "
	input.PromptStyle = PromptStyle
	input.TextStyle = PromptTextStyle
	input.Cursor.Style = PromptCursorStyle
	input.CharLimit = 4

	dateInput := textinput.New()
	dateInput.Prompt = "Check in date: "
	dateInput.Placeholder = "2006-01-02"
	dateInput.PromptStyle = PromptStyle
	dateInput.TextStyle = PromptTextStyle
	dateInput.Cursor.Style = PromptCursorStyle
	dateInput.CharLimit = 10

	now := time.Now()
	week := quests.WeekDates(now)
	cursor := 0
	today := now.Format("2006-01-02")
	for i, d := range week {
		if d == today {
			cursor = i
		}
	}

	return QuestsModel{
		deps:         deps,
		targetInput:  input,
		dateInput:    dateInput,
		weekDates:    week,
		dayCursor:    cursor,
		checkins:     map[string]bool{},
		yearlyTarget: deps.Targets.Yearly(),
	}
}

func (m QuestsModel) capturesInput() bool { return m.editingTarget || m.editingDate }

// activate refreshes stats from the backend and check-ins from disk.
// Stats failures degrade to zeroes rather than blocking the screen.
func (m QuestsModel) activate() tea.Cmd {
	deps := m.deps
	userID := deps.Session.UserID()
	return func() tea.Msg {
		ctx := context.Background()
		summary, err := deps.API.RatingSummary(ctx, userID)
		if err != nil {
			return questStatsMsg{Err: err}
		}
		month, err := deps.API.FinishedThisMonth(ctx, userID)
		if err != nil {
			return questStatsMsg{Summary: summary, Err: err}
		}
		year, err := deps.API.FinishedThisYear(ctx, userID)
		if err != nil {
			return questStatsMsg{Summary: summary, MonthCount: month, Err: err}
		}
		return questStatsMsg{Summary: summary, MonthCount: month, YearCount: year}
	}
}

func (m QuestsModel) toggleCmd(date string) tea.Cmd {
	deps := m.deps
	userID := deps.Session.UserID()
	return func() tea.Msg {
		state, err := deps.Checkins.Toggle(userID, date)
		return checkinToggledMsg{State: state, Err: err}
	}
}

func (m QuestsModel) Update(msg tea.Msg) (QuestsModel, tea.Cmd) {
	switch tm := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = tm.Width
		m.height = tm.Height
		return m, nil

	case questStatsMsg:
		m.loading = false
		m.checkins = m.deps.Checkins.Load(m.deps.Session.UserID())
		m.yearlyTarget = m.deps.Targets.Yearly()
		if tm.Err != nil {
			m.errText = tm.Err.Error()
		} else {
			m.errText = ""
		}
		m.summary = tm.Summary
		m.monthCount = tm.MonthCount
		m.yearCount = tm.YearCount
		return m, nil

	case checkinToggledMsg:
		if tm.Err != nil {
			m.errText = tm.Err.Error()
			return m, nil
		}
		m.checkins = tm.State
		return m, nil

	case tea.KeyMsg:
		if m.editingDate {
			switch tm.String() {
			case "esc":
				m.editingDate = false
				m.dateInput.Blur()
				return m, nil
			case "enter":
				raw := strings.TrimSpace(m.dateInput.Value())
				if _, err := time.Parse("2006-01-02", raw); err != nil {
					m.errText = "Date must look like 2006-01-02."
					return m, nil
				}
				m.editingDate = false
				m.dateInput.SetValue("")
				m.dateInput.Blur()
				m.errText = ""
				return m, m.toggleCmd(raw)
			}
			var cmd tea.Cmd
			m.dateInput, cmd = m.dateInput.Update(msg)
			return m, cmd
		}
		if m.editingTarget {
			switch tm.String() {
			case "esc":
				m.editingTarget = false
				m.targetInput.Blur()
				return m, nil
			case "enter":
				n, err := strconv.Atoi(strings.TrimSpace(m.targetInput.Value()))
				if err != nil {
					m.errText = "Yearly goal must be a number."
					return m, nil
				}
				m.yearlyTarget = m.deps.Targets.SetYearly(n)
				m.editingTarget = false
				m.targetInput.Blur()
				m.errText = ""
				return m, nil
			}
			var cmd tea.Cmd
			m.targetInput, cmd = m.targetInput.Update(msg)
			return m, cmd
		}

		switch tm.String() {
		case "left", "h":
			if m.dayCursor > 0 {
				m.dayCursor--
			}
			return m, nil
		case "right", "l":
			if m.dayCursor < len(m.weekDates)-1 {
				m.dayCursor++
			}
			return m, nil
		case "enter", " ":
			return m, m.toggleCmd(m.weekDates[m.dayCursor])
		case "d":
			m.editingDate = true
			m.dateInput.Focus()
			return m, textinput.Blink
		case "g":
			m.editingTarget = true
			m.targetInput.SetValue(strconv.Itoa(m.yearlyTarget))
			m.targetInput.Focus()
			return m, textinput.Blink
		case "r":
			m.loading = true
			return m, m.activate()
		}
	}

	return m, nil
}

func (m QuestsModel) View() string {
	rows := []string{BannerStyle.Render("Reading Quests")}

	if m.loading {
		rows = append(rows, StatusMutedStyle.Render("Loading..."))
	}
	if m.errText != "" {
		rows = append(rows, ErrorStyle.Render(m.errText))
	}

	avg := "–"
	if m.summary.AverageRating != nil {
		avg = fmt.Sprintf("%.1f", *m.summary.AverageRating)
	}
	rows = append(rows,
		"",
		LabelStyle.Render(fmt.Sprintf("Books rated: %d   Average rating: %s", m.summary.TotalBooks, avg)),
		LabelStyle.Render(m.ratingBreakdown()),
	)

	rows = append(rows, "", BannerStyle.Render("This week"), LabelStyle.Render(m.weekRow()))
	if m.editingDate {
		rows = append(rows, LabelStyle.Render(m.dateInput.View()))
	}

	rows = append(rows,
		"",
		BannerStyle.Render("Goals"),
		LabelStyle.Render(fmt.Sprintf("Monthly shelf   %s  %d/%d", progressBar(m.monthCount, quests.MonthlyTarget, 10), m.monthCount, quests.MonthlyTarget)),
	)
	if m.editingTarget {
		rows = append(rows, LabelStyle.Render(m.targetInput.View()))
	} else {
		rows = append(rows, LabelStyle.Render(fmt.Sprintf("Yearly quest    %s  %d/%d", progressBar(m.yearCount, m.yearlyTarget, 10), m.yearCount, m.yearlyTarget)))
	}

	rows = append(rows, "", StatusMutedStyle.Render("←/→: pick day  enter: check in  d: other date  g: yearly goal  r: refresh"))
	return gloss.JoinVertical(gloss.Left, rows...)
}

func (m QuestsModel) ratingBreakdown() string {
	parts := make([]string, 0, 5)
	for star := 1; star <= 5; star++ {
		count := m.summary.RatingCounts[strconv.Itoa(star)]
		parts = append(parts, fmt.Sprintf("%d★ %d", star, count))
	}
	return strings.Join(parts, "   ")
}

func (m QuestsModel) weekRow() string {
	var cells []string
	for i, date := range m.weekDates {
		mark := "○"
		if m.checkins[date] {
			mark = "●"
		}
		cell := fmt.Sprintf("%s %s", quests.WeekdayLabels[i], mark)
		if i == m.dayCursor {
			cell = SwatchSelectedStyle.Render("[" + cell + "]")
		} else {
			cell = SwatchStyle.Render(" " + cell + " ")
		}
		cells = append(cells, cell)
	}
	return strings.Join(cells, " ")
}

func progressBar(have, want, width int) string {
	if want < 1 {
		want = 1
	}
	filled := have * width / want
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
