package notify

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"bookquest/prefs"
)

const timesKey = "notification.times"

var (
	ErrDuplicateTime     = errors.New("a reminder already exists at this time")
	ErrPermissionDenied  = errors.New("notification permission denied")
	ErrInvalidTimeFormat = errors.New("time must be HH:MM")
)

// Entry is one daily reminder.
type Entry struct {
	ID   string `json:"id"`
	Time string `json:"time"`
}

// Registrar abstracts the platform scheduler so tests can observe
// registrations without waiting for wall-clock time.
type Registrar interface {
	Register(entry Entry) error
	Cancel(id string) error
	CancelAll() error
	Granted() bool
}

// Service keeps the persisted reminder list and the registrar in lockstep.
// Every mutation cancels all registrations and re-registers the full new
// list, so the scheduler never holds a reminder the list does not show.
type Service struct {
	mu        sync.Mutex
	store     *prefs.Store
	registrar Registrar
	log       *zap.Logger
}

func NewService(store *prefs.Store, registrar Registrar, log *zap.Logger) *Service {
	return &Service{store: store, registrar: registrar, log: log}
}

// List returns the persisted reminders sorted by time of day; read
// failures degrade to an empty list.
func (s *Service) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add parses hhmm, rejects duplicates on the same hour and minute, and
// swaps in the extended list. On scheduler failure the previous list is
// restored and the error is returned.
func (s *Service) Add(hhmm string) ([]Entry, error) {
	hour, minute, err := ParseTime(hhmm)
	if err != nil {
		return nil, err
	}
	if !s.registrar.Granted() {
		return nil, ErrPermissionDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	canonical := fmt.Sprintf("%02d:%02d", hour, minute)
	for _, e := range current {
		if e.Time == canonical {
			return nil, ErrDuplicateTime
		}
	}

	next := append(append([]Entry(nil), current...), Entry{ID: canonical, Time: canonical})
	sortEntries(next)
	return s.swap(current, next)
}

// Remove drops the reminder with id and swaps in the shrunken list.
func (s *Service) Remove(id string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	next := make([]Entry, 0, len(current))
	for _, e := range current {
		if e.ID != id {
			next = append(next, e)
		}
	}
	return s.swap(current, next)
}

// Restore re-registers the persisted list, used at startup after a
// process restart wiped the in-memory scheduler.
func (s *Service) Restore() error {
	if !s.registrar.Granted() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registrar.CancelAll(); err != nil {
		return err
	}
	return s.registerAll(s.load())
}

// CancelAll clears every scheduled reminder but leaves the persisted
// list alone, used on shutdown.
func (s *Service) CancelAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registrar.CancelAll()
}

// Reset cancels everything and deletes the persisted list, used on
// logout.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.registrar.CancelAll(); err != nil {
		return err
	}
	return s.store.Delete(timesKey)
}

// swap atomically replaces the registered set with next. If registering
// next fails partway, or the new list cannot be persisted, the old set
// is re-registered and the persisted list keeps its previous value.
func (s *Service) swap(current, next []Entry) ([]Entry, error) {
	if err := s.registrar.CancelAll(); err != nil {
		return nil, err
	}
	if err := s.registerAll(next); err != nil {
		s.log.Error("register reminders failed, restoring previous set", zap.Error(err))
		s.restore(current)
		return nil, err
	}
	if err := s.store.SetJSON(timesKey, next); err != nil {
		s.log.Error("persist reminders failed, restoring previous set", zap.Error(err))
		s.restore(current)
		return nil, err
	}
	return next, nil
}

func (s *Service) restore(entries []Entry) {
	if cerr := s.registrar.CancelAll(); cerr != nil {
		s.log.Error("cancel during restore failed", zap.Error(cerr))
	}
	if rerr := s.registerAll(entries); rerr != nil {
		s.log.Error("restore previous reminders failed", zap.Error(rerr))
	}
}

func (s *Service) registerAll(entries []Entry) error {
	for _, e := range entries {
		if err := s.registrar.Register(e); err != nil {
			return fmt.Errorf("register %s: %w", e.Time, err)
		}
	}
	return nil
}

func (s *Service) load() []Entry {
	var entries []Entry
	if _, err := s.store.GetJSON(timesKey, &entries); err != nil {
		s.log.Warn("load reminder times failed", zap.Error(err))
		return nil
	}
	sortEntries(entries)
	return entries
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Time < entries[j].Time })
}

// ParseTime validates an HH:MM string on a 24-hour clock.
func ParseTime(hhmm string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(hhmm), ":", 2)
	if len(parts) != 2 {
		return 0, 0, ErrInvalidTimeFormat
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidTimeFormat
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrInvalidTimeFormat
	}
	return hour, minute, nil
}
