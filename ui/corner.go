package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"bookquest/epub"
)

// CornerModel is the reading corner: the saved EPUB shelf plus the entry
// point into the reader.
type CornerModel struct {
	deps      *Deps
	shelfList list.Model
	width     int
	height    int
	importing bool
	opening   bool
	errText   string
	status    string
}

type epubItem struct {
	entry epub.Entry
}

func (e epubItem) Title() string       { return e.entry.Name }
func (e epubItem) Description() string { return e.entry.Path }
func (e epubItem) FilterValue() string { return e.entry.Name }

type epubImportedMsg struct {
	Entry   epub.Entry
	Entries []epub.Entry
	Err     error
}

type epubRemovedMsg struct {
	Entries []epub.Entry
	Err     error
}

func NewCornerModel(deps *Deps) CornerModel {
	l := list.New(nil, &shelfDelegate{}, ListMaxWidth, 20)
	listSettings(&l)
	filterStyle(&l)
	return CornerModel{deps: deps, shelfList: l}
}

func (m CornerModel) activate() tea.Cmd {
	deps := m.deps
	userID := deps.Session.UserID()
	return func() tea.Msg {
		return epubImportedMsg{Entries: deps.Shelf.List(userID)}
	}
}

func (m CornerModel) importCmd() tea.Cmd {
	deps := m.deps
	userID := deps.Session.UserID()
	return func() tea.Msg {
		path, err := epub.SelectFileDialog("")
		if err != nil {
			return epubImportedMsg{Entries: deps.Shelf.List(userID), Err: err}
		}
		entry, entries, err := deps.Shelf.Import(userID, path)
		return epubImportedMsg{Entry: entry, Entries: entries, Err: err}
	}
}

func (m CornerModel) openCmd(entry epub.Entry) tea.Cmd {
	return func() tea.Msg {
		book, err := epub.Open(entry.Path)
		if err != nil {
			return errMsg{err}
		}
		return bookOpenedMsg{Book: book}
	}
}

func (m CornerModel) removeCmd(entry epub.Entry) tea.Cmd {
	deps := m.deps
	userID := deps.Session.UserID()
	return func() tea.Msg {
		// the cached copy goes too; a failure there is not fatal
		if err := os.Remove(entry.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			deps.Log.Warn("remove cached epub failed", zap.Error(err))
		}
		entries, err := deps.Shelf.Remove(userID, entry.ID)
		return epubRemovedMsg{Entries: entries, Err: err}
	}
}

func (m *CornerModel) setEntries(entries []epub.Entry) {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = epubItem{entry: e}
	}
	idx := m.shelfList.Index()
	m.shelfList.SetItems(items)
	if idx >= 0 && idx < len(items) {
		m.shelfList.Select(idx)
	} else if len(items) > 0 {
		m.shelfList.Select(0)
	}
}

func (m CornerModel) Update(msg tea.Msg) (CornerModel, tea.Cmd) {
	switch tm := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = tm.Width
		m.height = tm.Height
		availWidth := tm.Width - 8
		if availWidth > ListMaxWidth || availWidth < 0 {
			availWidth = ListMaxWidth
		}
		availHeight := tm.Height - 8
		if availHeight < 3 {
			availHeight = 3
		}
		m.shelfList.SetSize(availWidth, availHeight)
		return m, nil

	case epubImportedMsg:
		m.importing = false
		m.setEntries(tm.Entries)
		switch {
		case tm.Err == nil:
			if tm.Entry.ID != "" {
				m.status = "Imported " + tm.Entry.Name
			}
			m.errText = ""
		case errors.Is(tm.Err, epub.ErrDialogCancelled):
			m.errText = ""
		case errors.Is(tm.Err, epub.ErrDialogUnavailable):
			m.errText = "No file picker available on this system."
		default:
			m.errText = tm.Err.Error()
		}
		return m, nil

	case epubRemovedMsg:
		if tm.Err != nil {
			m.errText = tm.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.status = "Removed."
		m.setEntries(tm.Entries)
		return m, nil

	case errMsg:
		m.opening = false
		m.errText = tm.Error()
		return m, nil

	case tea.KeyMsg:
		switch tm.String() {
		case "a", "i":
			if m.importing {
				return m, nil
			}
			m.importing = true
			m.status = ""
			m.errText = ""
			return m, m.importCmd()
		case "enter":
			if item, ok := m.shelfList.SelectedItem().(epubItem); ok {
				m.opening = true
				m.errText = ""
				return m, m.openCmd(item.entry)
			}
		case "d", "backspace":
			if item, ok := m.shelfList.SelectedItem().(epubItem); ok {
				return m, m.removeCmd(item.entry)
			}
		}
		var cmd tea.Cmd
		m.shelfList, cmd = m.shelfList.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m CornerModel) View() string {
	containerWidth := ListMaxWidth
	if m.width > 0 && m.width < containerWidth {
		containerWidth = m.width - 8
	}
	if containerWidth < 0 {
		containerWidth = ListMaxWidth
	}

	rows := []string{BannerStyle.Render(fmt.Sprintf("Reading Corner · %d books", len(m.shelfList.Items())))}
	switch {
	case m.importing:
		rows = append(rows, StatusMutedStyle.Render("Waiting for the file picker..."))
	case m.opening:
		rows = append(rows, ReaderLoadingStyle.Width(m.width).Render("Opening..."))
	case m.errText != "":
		rows = append(rows, ErrorStyle.Render(m.errText))
	case m.status != "":
		rows = append(rows, StatusStyle.Render(m.status))
	}

	if len(m.shelfList.Items()) == 0 {
		rows = append(rows, StatusMutedStyle.Render("No EPUBs yet. Press a to import one."))
	} else {
		rows = append(rows, Centered.Width(m.width).Render(ListStyle.Width(containerWidth).Render(m.shelfList.View())))
	}
	rows = append(rows, StatusMutedStyle.Width(m.width).Render("enter: read  a: import  d: remove"))
	return gloss.JoinVertical(gloss.Left, rows...)
}
