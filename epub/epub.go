package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Chapter is one spine document reduced to plain text lines.
type Chapter struct {
	Title string
	Lines []string
}

// Book is a fully extracted EPUB ready for the reader.
type Book struct {
	Title    string
	Path     string
	Chapters []Chapter
}

type container struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type opfPackage struct {
	Title    string `xml:"metadata>title"`
	Manifest []struct {
		ID        string `xml:"id,attr"`
		Href      string `xml:"href,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

// Open reads an EPUB container: locate the OPF through
// META-INF/container.xml, walk the spine in order, and strip each XHTML
// document down to text lines.
func Open(epubPath string) (*Book, error) {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var cont container
	if err := readXML(files, "META-INF/container.xml", &cont); err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	if len(cont.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfile in container")
	}
	opfPath := cont.Rootfiles[0].FullPath

	var pkg opfPackage
	if err := readXML(files, opfPath, &pkg); err != nil {
		return nil, fmt.Errorf("read opf: %w", err)
	}

	hrefByID := make(map[string]string, len(pkg.Manifest))
	typeByID := make(map[string]string, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		hrefByID[item.ID] = item.Href
		typeByID[item.ID] = item.MediaType
	}

	book := &Book{Title: strings.TrimSpace(pkg.Title), Path: epubPath}
	opfDir := path.Dir(opfPath)

	for _, ref := range pkg.Spine {
		href, ok := hrefByID[ref.IDRef]
		if !ok {
			continue
		}
		if mt := typeByID[ref.IDRef]; mt != "" && mt != "application/xhtml+xml" && mt != "text/html" {
			continue
		}

		chapterPath := resolveHref(opfDir, href)
		f, ok := files[chapterPath]
		if !ok {
			continue
		}
		chapter, err := extractChapter(f)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", chapterPath, err)
		}
		if chapter.Title == "" {
			chapter.Title = fmt.Sprintf("Chapter %d", len(book.Chapters)+1)
		}
		book.Chapters = append(book.Chapters, chapter)
	}

	if len(book.Chapters) == 0 {
		return nil, fmt.Errorf("no readable chapters")
	}
	if book.Title == "" {
		book.Title = strings.TrimSuffix(path.Base(epubPath), ".epub")
	}
	return book, nil
}

// TotalLines counts lines across all chapters, used for percent-complete.
func (b *Book) TotalLines() int {
	total := 0
	for _, ch := range b.Chapters {
		total += len(ch.Lines)
	}
	return total
}

func resolveHref(opfDir, href string) string {
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	if opfDir == "." {
		return href
	}
	return path.Join(opfDir, href)
}

func extractChapter(f *zip.File) (Chapter, error) {
	rc, err := f.Open()
	if err != nil {
		return Chapter{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Chapter{}, err
	}
	decoded, err := decodeToUTF8(data)
	if err != nil {
		return Chapter{}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(decoded))
	if err != nil {
		return Chapter{}, err
	}

	title := strings.TrimSpace(doc.Find("h1, h2, h3").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	var lines []string
	doc.Find("body").Find("h1, h2, h3, h4, h5, h6, p, li, blockquote").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		lines = append(lines, collapseWhitespace(text), "")
	})

	if len(lines) == 0 {
		// documents with bare text nodes and no block markup
		if text := strings.TrimSpace(doc.Find("body").Text()); text != "" {
			for _, line := range strings.Split(text, "\n") {
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					lines = append(lines, collapseWhitespace(trimmed))
				}
			}
		}
	}

	return Chapter{Title: title, Lines: lines}, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func readXML(files map[string]*zip.File, name string, out any) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("missing %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return decodeXML(rc, out)
}
