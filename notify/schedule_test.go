package notify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookquest/prefs"
)

type fakeRegistrar struct {
	registered map[string]Entry
	granted    bool
	failOn     string
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{registered: make(map[string]Entry), granted: true}
}

func (f *fakeRegistrar) Register(entry Entry) error {
	if f.failOn != "" && entry.Time == f.failOn {
		return errors.New("scheduler refused")
	}
	f.registered[entry.ID] = entry
	return nil
}

func (f *fakeRegistrar) Cancel(id string) error {
	delete(f.registered, id)
	return nil
}

func (f *fakeRegistrar) CancelAll() error {
	f.registered = make(map[string]Entry)
	return nil
}

func (f *fakeRegistrar) Granted() bool { return f.granted }

func newService(t *testing.T, reg Registrar) *Service {
	t.Helper()
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)
	return NewService(store, reg, zap.NewNop())
}

func times(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Time
	}
	return out
}

func TestAddKeepsListSorted(t *testing.T) {
	svc := newService(t, newFakeRegistrar())

	_, err := svc.Add("21:30")
	require.NoError(t, err)
	_, err = svc.Add("08:00")
	require.NoError(t, err)
	entries, err := svc.Add("12:15")
	require.NoError(t, err)

	assert.Equal(t, []string{"08:00", "12:15", "21:30"}, times(entries))
}

func TestAddRejectsDuplicateHourMinute(t *testing.T) {
	svc := newService(t, newFakeRegistrar())

	_, err := svc.Add("08:00")
	require.NoError(t, err)
	_, err = svc.Add("8:0")
	assert.ErrorIs(t, err, ErrDuplicateTime)

	assert.Len(t, svc.List(), 1)
}

func TestRegisteredMatchesPersisted(t *testing.T) {
	reg := newFakeRegistrar()
	svc := newService(t, reg)

	_, err := svc.Add("08:00")
	require.NoError(t, err)
	_, err = svc.Add("20:00")
	require.NoError(t, err)

	assert.Len(t, reg.registered, len(svc.List()))

	entries, err := svc.Remove("08:00")
	require.NoError(t, err)
	assert.Len(t, reg.registered, len(entries))
	assert.Equal(t, []string{"20:00"}, times(entries))
}

func TestAddWithoutPermission(t *testing.T) {
	reg := newFakeRegistrar()
	reg.granted = false
	svc := newService(t, reg)

	_, err := svc.Add("08:00")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Empty(t, svc.List())
	assert.Empty(t, reg.registered)
}

func TestRegisterFailureRestoresPreviousSet(t *testing.T) {
	reg := newFakeRegistrar()
	svc := newService(t, reg)

	_, err := svc.Add("08:00")
	require.NoError(t, err)

	reg.failOn = "12:00"
	_, err = svc.Add("12:00")
	require.Error(t, err)

	// persisted list and live registrations both show only the old reminder
	assert.Equal(t, []string{"08:00"}, times(svc.List()))
	require.Len(t, reg.registered, 1)
	assert.Equal(t, "08:00", reg.registered["08:00"].Time)
}

func TestPersistFailureRollsBackRegistrations(t *testing.T) {
	reg := newFakeRegistrar()
	path := filepath.Join(t.TempDir(), "prefs.json")
	store, err := prefs.Open(path)
	require.NoError(t, err)
	svc := NewService(store, reg, zap.NewNop())

	_, err = svc.Add("08:00")
	require.NoError(t, err)

	// writes fail once a directory takes over the store path
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))

	_, err = svc.Add("12:00")
	require.Error(t, err)

	// neither the scheduler nor the list picked up the failed reminder
	assert.Equal(t, []string{"08:00"}, times(svc.List()))
	require.Len(t, reg.registered, 1)
	assert.Equal(t, "08:00", reg.registered["08:00"].Time)
}

func TestCancelAllLeavesPersistedList(t *testing.T) {
	reg := newFakeRegistrar()
	svc := newService(t, reg)

	_, err := svc.Add("08:00")
	require.NoError(t, err)

	require.NoError(t, svc.CancelAll())
	assert.Empty(t, reg.registered)
	assert.Len(t, svc.List(), 1)
}

func TestResetClearsPersistedList(t *testing.T) {
	reg := newFakeRegistrar()
	svc := newService(t, reg)

	_, err := svc.Add("08:00")
	require.NoError(t, err)

	require.NoError(t, svc.Reset())
	assert.Empty(t, reg.registered)
	assert.Empty(t, svc.List())
}

func TestRestoreReregistersPersisted(t *testing.T) {
	reg := newFakeRegistrar()
	svc := newService(t, reg)

	_, err := svc.Add("08:00")
	require.NoError(t, err)
	require.NoError(t, svc.CancelAll())

	require.NoError(t, svc.Restore())
	assert.Len(t, reg.registered, 1)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{in: "08:30", hour: 8, minute: 30},
		{in: "0:0", hour: 0, minute: 0},
		{in: "23:59", hour: 23, minute: 59},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "12", wantErr: true},
		{in: "-1:30", wantErr: true},
	}
	for _, tt := range tests {
		h, m, err := ParseTime(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidTimeFormat, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.hour, h, tt.in)
		assert.Equal(t, tt.minute, m, tt.in)
	}
}
