package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"bookquest/config"
	"bookquest/epub"
	"bookquest/prefs"
)

// readerProgress is the saved position inside one EPUB.
type readerProgress struct {
	Chapter int `json:"chapter"`
	Page    int `json:"page"`
}

func progressKey(bookPath string) string {
	return "progress." + bookPath
}

type ReaderModel struct {
	Book    *epub.Book
	cfg     config.ReaderConfig
	store   *prefs.Store
	log     *zap.Logger
	chapter int
	Page    int
	Width   int
	Height  int
	Style   gloss.Style
}

func NewReaderModel(book *epub.Book, cfg config.ReaderConfig, store *prefs.Store, log *zap.Logger) ReaderModel {
	m := ReaderModel{Book: book, cfg: cfg, store: store, log: log}

	var p readerProgress
	if ok, err := store.GetJSON(progressKey(book.Path), &p); err == nil && ok {
		if p.Chapter >= 0 && p.Chapter < len(book.Chapters) {
			m.chapter = p.Chapter
		}
		if p.Page > 0 {
			m.Page = p.Page
		}
	}
	return m
}

func (m ReaderModel) Init() tea.Cmd { return nil }

func (m ReaderModel) ChapterIndex() int { return m.chapter }

func (m *ReaderModel) JumpToChapter(index int) {
	if index >= 0 && index < len(m.Book.Chapters) {
		m.chapter = index
		m.Page = 0
		m.saveProgress()
	}
}

func (m ReaderModel) Update(msg tea.Msg) (ReaderModel, tea.Cmd) {
	switch tm := msg.(type) {
	case tea.KeyMsg:
		switch tm.String() {
		case "right", "l", "j", " ":
			_, lastIndex, _ := m.displayedContent()
			if lastIndex < len(m.lines())-1 {
				m.Page++
			} else if m.chapter < len(m.Book.Chapters)-1 {
				m.chapter++
				m.Page = 0
			}
			m.saveProgress()

		case "left", "h", "k":
			if m.Page > 0 {
				m.Page--
			} else if m.chapter > 0 {
				m.chapter--
				m.Page = m.totalPagesInChapter(m.chapter) - 1
			}
			m.saveProgress()

		case "ctrl+d": // jump to next chapter
			if m.chapter < len(m.Book.Chapters)-1 {
				m.chapter++
				m.Page = 0
				m.saveProgress()
			}

		case "ctrl+u": // jump to previous chapter
			if m.chapter > 0 {
				m.chapter--
				m.Page = 0
				m.saveProgress()
			}
		}

	case tea.WindowSizeMsg:
		m.Width = tm.Width
		m.Height = tm.Height
		m.Style = ReaderStyle(m.Width)
	}

	return m, nil
}

func (m ReaderModel) saveProgress() {
	p := readerProgress{Chapter: m.chapter, Page: m.Page}
	if err := m.store.SetJSON(progressKey(m.Book.Path), p); err != nil {
		m.log.Warn("save reading progress failed", zap.Error(err))
	}
}

func (m ReaderModel) lines() []string {
	if m.chapter < 0 || m.chapter >= len(m.Book.Chapters) {
		return nil
	}
	return m.Book.Chapters[m.chapter].Lines
}

// usableHeight leaves room for the header and footer rows.
func (m ReaderModel) usableHeight() int {
	h := m.Height - (m.cfg.VerticalPadding * 2) - 4
	if h < 1 {
		h = 1
	}
	return h
}

// countWrapped returns how many terminal rows a line takes when wrapped.
func (m ReaderModel) countWrapped(line string) int {
	usableWidth := m.Width - (2 * m.cfg.HorizontalPadding)
	if usableWidth < 1 {
		usableWidth = 1
	}
	lineWidth := runewidth.StringWidth(line)
	if lineWidth == 0 {
		// Empty line still takes one row
		return 1
	}
	return (lineWidth + usableWidth - 1) / usableWidth
}

func (m ReaderModel) displayedContentFrom(start, end int) ([]string, int, int) {
	lines := m.lines()
	var result []string
	lastIndex := start
	avail := m.usableHeight()

	for i := start; i <= end && i < len(lines); i++ {
		rows := m.countWrapped(lines[i])
		if avail-rows < 0 {
			break
		}
		avail -= rows
		if i < end {
			avail -= m.cfg.LineSpacing
		}
		result = append(result, lines[i])
		lastIndex = i
	}

	return result, lastIndex, avail
}

// displayedContent computes which lines of the current chapter fit on the
// current page.
func (m ReaderModel) displayedContent() ([]string, int, int) {
	lines := m.lines()
	if len(lines) == 0 {
		return nil, 0, 0
	}
	end := len(lines) - 1

	usableHeight := m.usableHeight()
	pageStart := 0

	// Skip pages before m.Page
	for p := 0; p < m.Page; p++ {
		avail := usableHeight
		for i := pageStart; i <= end; i++ {
			rows := m.countWrapped(lines[i])
			if avail-rows < 0 {
				break
			}
			avail -= rows
			if i < end {
				avail -= m.cfg.LineSpacing
			}
			pageStart = i + 1
		}
	}

	return m.displayedContentFrom(pageStart, end)
}

func (m ReaderModel) totalPagesInChapter(chapIndex int) int {
	if chapIndex < 0 || chapIndex >= len(m.Book.Chapters) {
		return 1
	}
	lines := m.Book.Chapters[chapIndex].Lines
	if len(lines) == 0 {
		return 1
	}
	end := len(lines) - 1

	usableHeight := m.usableHeight()
	pages := 0
	pageStart := 0

	for pageStart <= end {
		avail := usableHeight
		for i := pageStart; i <= end; i++ {
			rows := m.countWrapped(lines[i])
			if avail-rows < 0 {
				break
			}
			avail -= rows
			if i < end {
				avail -= m.cfg.LineSpacing
			}
			pageStart = i + 1
		}
		pages++
	}
	return pages
}

// percentComplete is line-based across the whole book.
func (m ReaderModel) percentComplete() int {
	total := m.Book.TotalLines()
	if total == 0 {
		return 0
	}
	_, lastIndex, _ := m.displayedContent()
	read := lastIndex + 1
	for i := 0; i < m.chapter; i++ {
		read += len(m.Book.Chapters[i].Lines)
	}
	pct := read * 100 / total
	if pct > 100 {
		pct = 100
	}
	return pct
}

func (m ReaderModel) View() string {
	chapterTitle := ""
	if m.chapter < len(m.Book.Chapters) {
		chapterTitle = m.Book.Chapters[m.chapter].Title
	}
	header := ReaderHeaderStyle.Render(
		runewidth.Truncate(fmt.Sprintf("%s — %s", m.Book.Title, chapterTitle), m.Width-4, "…"))

	lines, _, _ := m.displayedContent()
	visible := strings.Join(lines, strings.Repeat("\n", m.cfg.LineSpacing+1))
	body := m.Style.Render(visible)

	footer := ReaderFooterStyle.Render(fmt.Sprintf(
		"chapter %d/%d · %d%% · ←/→ page · ctrl+u/ctrl+d chapter · +/- spacing · t contents · esc back",
		m.chapter+1, len(m.Book.Chapters), m.percentComplete()))

	gap := m.Height - gloss.Height(header) - gloss.Height(body) - gloss.Height(footer)
	if gap < 0 {
		gap = 0
	}
	return header + "\n" + body + strings.Repeat("\n", gap) + footer
}
