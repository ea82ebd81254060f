package seed

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/roster"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/scheduler"
)

type memoryStore struct {
	employees []*domain.Employee
	schedules []*domain.ScheduleResult
	importErr error
}

func (m *memoryStore) GetAllEmployees() ([]*domain.Employee, error) {
	return m.employees, nil
}

func (m *memoryStore) ImportEmployees(employees []*domain.Employee) error {
	if m.importErr != nil {
		return m.importErr
	}
	m.employees = append(m.employees, employees...)
	return nil
}

func (m *memoryStore) InsertSchedule(result *domain.ScheduleResult) error {
	result.ID = int64(len(m.schedules) + 1)
	m.schedules = append(m.schedules, result)
	return nil
}

func TestSeedRosterFile(t *testing.T) {
	store := &memoryStore{}

	n, err := SeedRosterFile(store, "data/employee_data.json", scheduler.DefaultParameters())
	require.NoError(t, err)
	assert.Equal(t, 14, n)
	assert.Len(t, store.employees, 14)
}

func TestSeedRosterFileRejectsUnknownShift(t *testing.T) {
	store := &memoryStore{}

	params := scheduler.DefaultParameters()
	params.Shifts = []domain.Shift{domain.ShiftMorning}

	_, err := SeedRosterFile(store, "data/employee_data.json", params)
	assert.Error(t, err)
	assert.Empty(t, store.employees)
}

func TestSeedRosterFileMissing(t *testing.T) {
	_, err := SeedRosterFile(&memoryStore{}, "data/does_not_exist.json", scheduler.DefaultParameters())
	assert.Error(t, err)
}

func TestSeedRandomEmployees(t *testing.T) {
	store := &memoryStore{}
	params := scheduler.DefaultParameters()

	n, err := SeedRandomEmployees(store, 8, params, "example.com")
	require.NoError(t, err)
	assert.Equal(t, n, len(store.employees))
	assert.Positive(t, n)

	names := make(map[string]bool)
	for _, e := range store.employees {
		assert.False(t, names[e.Name], "重复的姓名 %s", e.Name)
		names[e.Name] = true
		assert.Contains(t, e.Email, "@example.com")
	}

	_, err = SeedRandomEmployees(store, 0, params, "example.com")
	assert.Error(t, err)
}

func TestSeedRandomEmployeesPropagatesStoreError(t *testing.T) {
	store := &memoryStore{importErr: errors.New("boom")}

	_, err := SeedRandomEmployees(store, 3, scheduler.DefaultParameters(), "example.com")
	assert.EqualError(t, err, "boom")
}

func TestSeedSchedule(t *testing.T) {
	store := &memoryStore{}
	_, err := SeedRosterFile(store, "data/employee_data.json", scheduler.DefaultParameters())
	require.NoError(t, err)

	result, err := SeedSchedule(store, scheduler.DefaultParameters())
	require.NoError(t, err)
	require.Len(t, store.schedules, 1)
	assert.Equal(t, int64(1), result.ID)
	assert.NotEmpty(t, result.RunID)
	assert.Len(t, result.Cells, 21)
}

func TestSeedScheduleNeedsEmployees(t *testing.T) {
	_, err := SeedSchedule(&memoryStore{}, scheduler.DefaultParameters())
	assert.ErrorIs(t, err, scheduler.ErrNotEnoughEmployees)
}

func TestExportRoster(t *testing.T) {
	store := &memoryStore{}
	_, err := SeedRosterFile(store, "data/employee_data.json", scheduler.DefaultParameters())
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := ExportRoster(store, &buf)
	require.NoError(t, err)
	assert.Equal(t, 14, n)

	decoded, err := roster.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, 14)
	for i, e := range decoded {
		assert.Equal(t, store.employees[i].Name, e.Name)
		assert.Equal(t, store.employees[i].Preferences, e.Preferences)
	}
}
