package epub

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const containerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const contentOPF = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>The Test Voyage</dc:title>
  </metadata>
  <manifest>
    <item id="ch1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="chapter2.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
    <itemref idref="css"/>
  </spine>
</package>`

const chapter1 = `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml">
  <head><title>fallback</title></head>
  <body>
    <h1>Departure</h1>
    <p>The ship left   at dawn.</p>
    <p>Nobody looked back.</p>
  </body>
</html>`

const chapter2 = `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml">
  <head><title>Landfall</title></head>
  <body>
    <p>Three weeks later they saw land.</p>
  </body>
</html>`

func writeEPUB(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.epub")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func standardFiles() map[string]string {
	return map[string]string{
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      contentOPF,
		"OEBPS/chapter1.xhtml":   chapter1,
		"OEBPS/chapter2.xhtml":   chapter2,
		"OEBPS/style.css":        "body { margin: 0 }",
	}
}

func TestOpenExtractsSpineInOrder(t *testing.T) {
	book, err := Open(writeEPUB(t, standardFiles()))
	require.NoError(t, err)

	assert.Equal(t, "The Test Voyage", book.Title)
	require.Len(t, book.Chapters, 2)
	assert.Equal(t, "Departure", book.Chapters[0].Title)
	assert.Equal(t, "Landfall", book.Chapters[1].Title)
}

func TestOpenCollapsesWhitespaceAndSeparatesBlocks(t *testing.T) {
	book, err := Open(writeEPUB(t, standardFiles()))
	require.NoError(t, err)

	lines := book.Chapters[0].Lines
	assert.Contains(t, lines, "The ship left at dawn.")
	assert.Contains(t, lines, "Nobody looked back.")
	// block elements are separated by blank lines
	assert.Contains(t, lines, "")
}

func TestOpenSkipsNonDocumentSpineItems(t *testing.T) {
	book, err := Open(writeEPUB(t, standardFiles()))
	require.NoError(t, err)
	// css itemref dropped
	assert.Len(t, book.Chapters, 2)
}

func TestTotalLines(t *testing.T) {
	book, err := Open(writeEPUB(t, standardFiles()))
	require.NoError(t, err)

	want := len(book.Chapters[0].Lines) + len(book.Chapters[1].Lines)
	assert.Equal(t, want, book.TotalLines())
}

func TestOpenMissingContainer(t *testing.T) {
	files := standardFiles()
	delete(files, "META-INF/container.xml")

	_, err := Open(writeEPUB(t, files))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container")
}

func TestOpenNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.epub")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

	_, err := Open(path)
	require.Error(t, err)
}

func TestOpenNoReadableChapters(t *testing.T) {
	files := standardFiles()
	delete(files, "OEBPS/chapter1.xhtml")
	delete(files, "OEBPS/chapter2.xhtml")

	_, err := Open(writeEPUB(t, files))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no readable chapters")
}

func TestChapterTitleFallsBackToHeadTitle(t *testing.T) {
	files := standardFiles()
	files["OEBPS/chapter1.xhtml"] = `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml">
  <head><title>Untagged Opening</title></head>
  <body><p>No heading here.</p></body>
</html>`

	book, err := Open(writeEPUB(t, files))
	require.NoError(t, err)
	assert.Equal(t, "Untagged Opening", book.Chapters[0].Title)
}
