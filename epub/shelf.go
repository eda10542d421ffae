package epub

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookquest/prefs"
)

// Entry is one saved EPUB on a user's shelf.
type Entry struct {
	ID   string `json:"id"`
	Path string `json:"uri"`
	Name string `json:"name"`
}

// Shelf is the per-user list of imported EPUBs. Imported files are copied
// into the cache dir first so the original can move or disappear without
// breaking the shelf.
type Shelf struct {
	store    *prefs.Store
	log      *zap.Logger
	cacheDir string
	now      func() time.Time
}

func NewShelf(store *prefs.Store, cacheDir string, log *zap.Logger) *Shelf {
	return &Shelf{store: store, log: log, cacheDir: cacheDir, now: time.Now}
}

func shelfKey(userID int64) string {
	return fmt.Sprintf("epubs.%d", userID)
}

// List returns the user's saved EPUBs; read failures degrade to empty.
func (s *Shelf) List(userID int64) []Entry {
	var entries []Entry
	if _, err := s.store.GetJSON(shelfKey(userID), &entries); err != nil {
		s.log.Warn("load epub shelf failed", zap.Int64("user", userID), zap.Error(err))
		return nil
	}
	return entries
}

// Add appends entry and persists the list.
func (s *Shelf) Add(userID int64, entry Entry) ([]Entry, error) {
	entries := append(s.List(userID), entry)
	if err := s.store.SetJSON(shelfKey(userID), entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Remove deletes the entry with id and persists the list.
func (s *Shelf) Remove(userID int64, id string) ([]Entry, error) {
	entries := s.List(userID)
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if err := s.store.SetJSON(shelfKey(userID), kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Import validates the extension, copies the file into the cache dir, and
// adds a shelf entry with a capture-time id.
func (s *Shelf) Import(userID int64, srcPath string) (Entry, []Entry, error) {
	name := filepath.Base(srcPath)
	if !strings.HasSuffix(strings.ToLower(name), ".epub") {
		return Entry{}, nil, fmt.Errorf("please select an EPUB file")
	}

	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return Entry{}, nil, err
	}

	id := s.freshID(userID)
	dst := filepath.Join(s.cacheDir, id+"-"+name)
	if err := copyFile(srcPath, dst); err != nil {
		return Entry{}, nil, fmt.Errorf("copy epub: %w", err)
	}

	entry := Entry{ID: id, Path: dst, Name: name}
	entries, err := s.Add(userID, entry)
	if err != nil {
		return Entry{}, nil, err
	}
	return entry, entries, nil
}

// freshID derives an id from capture time, bumping on the unlikely
// collision with an existing entry.
func (s *Shelf) freshID(userID int64) string {
	existing := make(map[string]bool)
	for _, e := range s.List(userID) {
		existing[e.ID] = true
	}
	id := s.now().UnixMilli()
	for existing[strconv.FormatInt(id, 10)] {
		id++
	}
	return strconv.FormatInt(id, 10)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
