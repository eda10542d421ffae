package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"bookquest/api"
	"bookquest/openlibrary"
)

type shelvesMode int

const (
	shelvesSections shelvesMode = iota
	shelvesBooks
	shelvesForm
	shelvesConfirm
	shelvesSearch
)

// ShelvesModel is the personal library screen: section counts, per-section
// book lists, the add/edit form, and title search.
type ShelvesModel struct {
	deps    *Deps
	mode    shelvesMode
	width   int
	height  int
	loading bool
	errText string
	status  string

	counts      api.Counts
	sectionList list.Model

	section  api.Section
	bookList list.Model

	form      bookFormModel
	confirm   *api.Book
	editingID int64

	searchInput   textinput.Model
	searchList    list.Model
	searchQuery   string
	searchPage    int
	searchResults []api.Book
	searchLoading bool
}

type countsMsg struct {
	Counts api.Counts
	Err    error
}

type booksMsg struct {
	Section api.Section
	Books   []api.Book
	Err     error
}

type bookSavedMsg struct {
	Err error
}

type bookDeletedMsg struct {
	Err error
}

type searchResultsMsg struct {
	Query string
	Page  int
	Books []api.Book
	Err   error
}

// ---------------- list items ----------------

type sectionItem struct {
	section api.Section
	count   int
}

func (s sectionItem) Title() string { return s.section.Label() }
func (s sectionItem) Description() string {
	if s.count == 1 {
		return "1 book"
	}
	return fmt.Sprintf("%d books", s.count)
}
func (s sectionItem) FilterValue() string { return s.section.Label() }

type bookItem struct {
	book api.Book
}

func (b bookItem) Title() string { return b.book.Title }
func (b bookItem) Description() string {
	desc := fmt.Sprintf("%s · %d · %s · %s", b.book.Author, b.book.Year, stars(b.book.Rating), b.book.Read)
	if b.book.FinishedReading != "" {
		desc += " · finished " + b.book.FinishedReading
	}
	return desc
}
func (b bookItem) FilterValue() string { return b.book.Title + " " + b.book.Author }

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

type searchItem struct {
	book api.Book
}

func (s searchItem) Title() string { return s.book.Title }
func (s searchItem) Description() string {
	year := ""
	if s.book.Year > 0 {
		year = fmt.Sprintf(" · %d", s.book.Year)
	}
	return s.book.Author + year
}
func (s searchItem) FilterValue() string { return s.book.Title + " " + s.book.Author }

// ---------------- delegate ----------------

type shelfDelegate struct {
	list.DefaultDelegate
}

func (d *shelfDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	var title, desc string
	switch v := item.(type) {
	case sectionItem:
		title, desc = v.Title(), v.Description()
	case bookItem:
		title, desc = v.Title(), v.Description()
	case searchItem:
		title, desc = v.Title(), v.Description()
	case epubItem:
		title, desc = v.Title(), v.Description()
	default:
		title, desc = "?", ""
	}
	desc = runewidth.Truncate(desc, m.Width()-10, "…")
	title = runewidth.Truncate(title, m.Width()-10, "…")
	if index == m.Index() {
		title = SelectedTitleStyle.Render(title)
		desc = SelectedDescStyle.Render(desc)
	} else {
		title = NormalTitleStyle.Render(title)
		desc = NormalDescStyle.Render(desc)
	}
	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func (d *shelfDelegate) Height() int  { return 2 }
func (d *shelfDelegate) Spacing() int { return 1 }
func (d *shelfDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func listSettings(l *list.Model) {
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
}

func filterStyle(l *list.Model) {
	l.FilterInput.Prompt = "/ "
	l.FilterInput.PromptStyle = PromptStyle
	l.FilterInput.TextStyle = PromptTextStyle
	l.FilterInput.Cursor.Style = PromptCursorStyle
}

// ---------------- model ----------------

func NewShelvesModel(deps *Deps) ShelvesModel {
	sections := list.New(nil, &shelfDelegate{}, ListMaxWidth, 20)
	listSettings(&sections)
	filterStyle(&sections)

	books := list.New(nil, &shelfDelegate{}, ListMaxWidth, 20)
	listSettings(&books)
	filterStyle(&books)

	results := list.New(nil, &shelfDelegate{}, ListMaxWidth, 20)
	listSettings(&results)
	filterStyle(&results)

	searchInput := textinput.New()
	searchInput.Prompt = "Search title: "
	searchInput.PromptStyle = PromptStyle
	searchInput.TextStyle = PromptTextStyle
	searchInput.Cursor.Style = PromptCursorStyle

	m := ShelvesModel{
		deps:        deps,
		sectionList: sections,
		bookList:    books,
		searchList:  results,
		searchInput: searchInput,
		section:     api.SectionAll,
	}
	m.rebuildSections()
	return m
}

func (m *ShelvesModel) rebuildSections() {
	items := make([]list.Item, len(api.Sections))
	for i, s := range api.Sections {
		items[i] = sectionItem{section: s, count: m.counts.BySection(s)}
	}
	idx := m.sectionList.Index()
	m.sectionList.SetItems(items)
	if idx >= 0 && idx < len(items) {
		m.sectionList.Select(idx)
	}
}

func (m ShelvesModel) capturesInput() bool {
	if m.mode == shelvesForm {
		return true
	}
	if m.mode == shelvesSearch && m.searchInput.Focused() {
		return true
	}
	return false
}

// activate refreshes the section counts.
func (m ShelvesModel) activate() tea.Cmd {
	deps := m.deps
	userID := deps.Session.UserID()
	return func() tea.Msg {
		counts, err := deps.API.Counts(context.Background(), userID)
		return countsMsg{Counts: counts, Err: err}
	}
}

func (m ShelvesModel) fetchBooksCmd(section api.Section) tea.Cmd {
	deps := m.deps
	userID := deps.Session.UserID()
	return func() tea.Msg {
		books, err := deps.API.ListBooks(context.Background(), userID, section)
		return booksMsg{Section: section, Books: books, Err: err}
	}
}

func (m ShelvesModel) saveBookCmd(book api.Book, isNew bool) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		var err error
		if isNew {
			err = deps.API.AddBook(context.Background(), book)
		} else {
			err = deps.API.EditBook(context.Background(), book)
		}
		return bookSavedMsg{Err: err}
	}
}

func (m ShelvesModel) deleteBookCmd(book api.Book) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		err := deps.API.DeleteBook(context.Background(), book.ID, book.UserID)
		return bookDeletedMsg{Err: err}
	}
}

func (m ShelvesModel) searchCmd(query string, page int) tea.Cmd {
	deps := m.deps
	userID := deps.Session.UserID()
	return func() tea.Msg {
		books, err := deps.Search.Search(context.Background(), userID, query, page)
		return searchResultsMsg{Query: query, Page: page, Books: books, Err: err}
	}
}

func (m *ShelvesModel) resize(width, height int) {
	m.width = width
	m.height = height

	availWidth := width - 8
	if availWidth > ListMaxWidth || availWidth < 0 {
		availWidth = ListMaxWidth
	}
	availHeight := height - 7
	if availHeight < 3 {
		availHeight = 3
	}
	m.sectionList.SetSize(availWidth, availHeight)
	m.bookList.SetSize(availWidth, availHeight)
	m.searchList.SetSize(availWidth, availHeight-2)
}

func (m ShelvesModel) Update(msg tea.Msg) (ShelvesModel, tea.Cmd) {
	switch tm := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(tm.Width, tm.Height)
		return m, nil

	case countsMsg:
		m.loading = false
		if tm.Err != nil {
			// fail soft: keep whatever counts we had
			m.errText = tm.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.counts = tm.Counts
		m.rebuildSections()
		return m, nil

	case booksMsg:
		m.loading = false
		if tm.Err != nil {
			m.errText = tm.Err.Error()
			return m, nil
		}
		m.errText = ""
		items := make([]list.Item, len(tm.Books))
		for i, b := range tm.Books {
			items[i] = bookItem{book: b}
		}
		m.bookList.SetItems(items)
		if len(items) > 0 {
			m.bookList.Select(0)
		}
		m.section = tm.Section
		m.mode = shelvesBooks
		return m, nil

	case bookSavedMsg:
		m.loading = false
		if tm.Err != nil {
			if m.mode == shelvesForm {
				m.form.errText = tm.Err.Error()
			} else {
				m.errText = tm.Err.Error()
			}
			return m, nil
		}
		if m.mode == shelvesForm {
			m.mode = shelvesBooks
		}
		m.status = "Saved."
		return m, tea.Batch(m.fetchBooksCmd(m.section), m.activate())

	case bookDeletedMsg:
		m.loading = false
		m.confirm = nil
		if tm.Err != nil {
			m.errText = tm.Err.Error()
			m.mode = shelvesBooks
			return m, nil
		}
		m.status = "Book deleted."
		m.mode = shelvesBooks
		return m, tea.Batch(m.fetchBooksCmd(m.section), m.activate())

	case searchResultsMsg:
		m.searchLoading = false
		if tm.Query != m.searchQuery {
			return m, nil
		}
		if tm.Err != nil {
			m.errText = tm.Err.Error()
			return m, nil
		}
		m.errText = ""
		if tm.Page == 1 {
			m.searchResults = tm.Books
		} else {
			// load more appends; duplicates from a shifting upstream page
			// window are accepted as-is
			m.searchResults = append(m.searchResults, tm.Books...)
		}
		m.searchPage = tm.Page
		items := make([]list.Item, len(m.searchResults))
		for i, b := range m.searchResults {
			items[i] = searchItem{book: b}
		}
		m.searchList.SetItems(items)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(tm)
	}

	return m, nil
}

func (m ShelvesModel) handleKey(key tea.KeyMsg) (ShelvesModel, tea.Cmd) {
	switch m.mode {
	case shelvesSections:
		switch key.String() {
		case "enter":
			if item, ok := m.sectionList.SelectedItem().(sectionItem); ok {
				m.loading = true
				m.status = ""
				return m, m.fetchBooksCmd(item.section)
			}
		case "a":
			m.form = newBookFormModel(api.BookForm{Read: api.StatusNotRead, Rating: "5"})
			m.editingID = 0
			m.mode = shelvesForm
			return m, textinput.Blink
		case "s":
			m.enterSearch()
			return m, textinput.Blink
		}
		var cmd tea.Cmd
		m.sectionList, cmd = m.sectionList.Update(key)
		return m, cmd

	case shelvesBooks:
		switch key.String() {
		case "esc":
			if m.bookList.FilterState() == list.Filtering || m.bookList.IsFiltered() {
				var cmd tea.Cmd
				m.bookList, cmd = m.bookList.Update(key)
				return m, cmd
			}
			m.mode = shelvesSections
			m.status = ""
			return m, m.activate()
		case "a":
			m.form = newBookFormModel(api.BookForm{Read: api.StatusNotRead, Rating: "5"})
			m.editingID = 0
			m.mode = shelvesForm
			return m, textinput.Blink
		case "e", "enter":
			if item, ok := m.bookList.SelectedItem().(bookItem); ok {
				m.form = newBookFormModel(api.FormFromBook(item.book))
				m.editingID = item.book.ID
				m.mode = shelvesForm
				return m, textinput.Blink
			}
		case "d", "backspace":
			if item, ok := m.bookList.SelectedItem().(bookItem); ok {
				book := item.book
				m.confirm = &book
				m.mode = shelvesConfirm
			}
			return m, nil
		case "s":
			m.enterSearch()
			return m, textinput.Blink
		}
		var cmd tea.Cmd
		m.bookList, cmd = m.bookList.Update(key)
		return m, cmd

	case shelvesForm:
		switch key.String() {
		case "esc":
			m.mode = shelvesBooks
			if len(m.bookList.Items()) == 0 {
				m.mode = shelvesSections
			}
			return m, nil
		case "ctrl+s":
			return m.submitForm()
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(key)
		if m.form.submitted {
			m.form.submitted = false
			return m.submitForm()
		}
		return m, cmd

	case shelvesConfirm:
		switch key.String() {
		case "y", "enter":
			if m.confirm != nil {
				m.loading = true
				return m, m.deleteBookCmd(*m.confirm)
			}
		case "n", "esc":
			m.confirm = nil
			m.mode = shelvesBooks
		}
		return m, nil

	case shelvesSearch:
		switch key.String() {
		case "esc":
			m.searchInput.SetValue("")
			m.searchQuery = ""
			m.searchResults = nil
			m.searchList.SetItems(nil)
			m.mode = shelvesSections
			return m, m.activate()
		case "enter":
			if m.searchInput.Focused() {
				query := strings.TrimSpace(m.searchInput.Value())
				if query == "" || m.searchLoading {
					return m, nil
				}
				m.searchQuery = query
				m.searchLoading = true
				m.searchResults = nil
				m.searchList.SetItems(nil)
				m.searchInput.Blur()
				return m, m.searchCmd(query, 1)
			}
			if item, ok := m.searchList.SelectedItem().(searchItem); ok {
				m.loading = true
				m.status = ""
				return m, m.saveBookCmd(item.book, true)
			}
		case "m":
			if !m.searchInput.Focused() && m.searchQuery != "" && !m.searchLoading &&
				len(m.searchResults) >= openlibrary.PageSize {
				m.searchLoading = true
				return m, m.searchCmd(m.searchQuery, m.searchPage+1)
			}
		case "/":
			if !m.searchInput.Focused() {
				m.searchInput.Focus()
				return m, textinput.Blink
			}
		}
		if m.searchInput.Focused() {
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(key)
			return m, cmd
		}
		var cmd tea.Cmd
		m.searchList, cmd = m.searchList.Update(key)
		return m, cmd
	}

	return m, nil
}

func (m *ShelvesModel) enterSearch() {
	m.mode = shelvesSearch
	m.status = ""
	m.errText = ""
	m.searchInput.SetValue("")
	m.searchInput.Focus()
}

func (m ShelvesModel) submitForm() (ShelvesModel, tea.Cmd) {
	form := m.form.toForm()
	book, err := form.Book(m.editingID, m.deps.Session.UserID())
	if err != nil {
		m.form.errText = err.Error()
		return m, nil
	}
	m.form.errText = ""
	m.loading = true
	return m, m.saveBookCmd(book, m.editingID == 0)
}

// ---------------- view ----------------

func (m ShelvesModel) View() string {
	switch m.mode {
	case shelvesForm:
		return m.form.View(m.width)
	case shelvesConfirm:
		return m.confirmView()
	case shelvesSearch:
		return m.searchView()
	case shelvesBooks:
		header := BannerStyle.Render(fmt.Sprintf("%s (%d)", m.section.Label(), m.counts.BySection(m.section)))
		return m.listScreen(header, m.bookList, "a: add  e: edit  d: delete  s: search  esc: back")
	default:
		header := BannerStyle.Render(fmt.Sprintf("My Library · %d books", m.counts.Total))
		return m.listScreen(header, m.sectionList, "enter: open  a: add  s: search  tab: next screen")
	}
}

func (m ShelvesModel) listScreen(header string, l list.Model, hint string) string {
	containerWidth := ListMaxWidth
	if m.width > 0 && m.width < containerWidth {
		containerWidth = m.width - 8
	}
	if containerWidth < 0 {
		containerWidth = ListMaxWidth
	}

	rows := []string{header}
	if m.loading {
		rows = append(rows, StatusMutedStyle.Render("Loading..."))
	}
	if m.errText != "" {
		rows = append(rows, ErrorStyle.Render(m.errText))
	}
	if m.status != "" {
		rows = append(rows, StatusStyle.Render(m.status))
	}
	rows = append(rows, Centered.Width(m.width).Render(ListStyle.Width(containerWidth).Render(l.View())))
	rows = append(rows, StatusMutedStyle.Width(m.width).Render(hint))
	return gloss.JoinVertical(gloss.Left, rows...)
}

func (m ShelvesModel) confirmView() string {
	title := ""
	if m.confirm != nil {
		title = m.confirm.Title
	}
	prompt := wordwrap.String(fmt.Sprintf("Delete %q from your library?", title), 40)
	body := strings.Join([]string{
		ConfirmPromptStyle.Render(prompt),
		"",
		StatusMutedStyle.Render("y: delete   n: keep"),
	}, "\n")
	dialog := ConfirmBoxStyle.Render(body)
	return gloss.Place(m.width, m.height-3, gloss.Center, gloss.Center, dialog)
}

func (m ShelvesModel) searchView() string {
	containerWidth := ListMaxWidth
	if m.width > 0 && m.width < containerWidth {
		containerWidth = m.width - 8
	}
	if containerWidth < 0 {
		containerWidth = ListMaxWidth
	}

	rows := []string{
		BannerStyle.Render("Find a book"),
		LabelStyle.Render(m.searchInput.View()),
	}
	switch {
	case m.searchLoading:
		rows = append(rows, StatusMutedStyle.Render("Searching..."))
	case m.errText != "":
		rows = append(rows, ErrorStyle.Render(m.errText))
	case m.searchQuery != "" && len(m.searchResults) == 0:
		rows = append(rows, StatusMutedStyle.Render("No results for "+m.searchQuery))
	}
	if len(m.searchResults) > 0 {
		rows = append(rows, Centered.Width(m.width).Render(ListStyle.Width(containerWidth).Render(m.searchList.View())))
		rows = append(rows, StatusMutedStyle.Width(m.width).Render("enter: add to shelf  m: more results  esc: back"))
	} else {
		rows = append(rows, StatusMutedStyle.Width(m.width).Render("enter: search  esc: back"))
	}
	return gloss.JoinVertical(gloss.Left, rows...)
}
