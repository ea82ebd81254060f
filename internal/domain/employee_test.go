package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPreferenceOverwritesInPlace(t *testing.T) {
	e := NewEmployee("alice")
	e.AddPreference(Tuesday, ShiftEvening)
	e.AddPreference(Monday, ShiftMorning)
	e.AddPreference(Tuesday, ShiftAfternoon)

	require.Len(t, e.Preferences, 2)
	assert.Equal(t, Preference{Day: Tuesday, Shift: ShiftAfternoon}, e.Preferences[0])
	assert.Equal(t, Preference{Day: Monday, Shift: ShiftMorning}, e.Preferences[1])

	shift, ok := e.PreferredShift(Tuesday)
	assert.True(t, ok)
	assert.Equal(t, ShiftAfternoon, shift)

	_, ok = e.PreferredShift(Sunday)
	assert.False(t, ok)
}

func TestAssignOncePerDay(t *testing.T) {
	e := NewEmployee("bob")

	assert.True(t, e.IsAvailable(Monday))
	assert.True(t, e.Assign(Monday, ShiftMorning))
	assert.False(t, e.IsAvailable(Monday))

	// 同一天再次分配不会生效
	assert.False(t, e.Assign(Monday, ShiftEvening))
	assert.Equal(t, ShiftMorning, e.AssignedShifts[Monday])
	assert.Equal(t, 1, e.WorkingDays)
}

func TestUnassign(t *testing.T) {
	e := NewEmployee("carol")
	e.Assign(Friday, ShiftEvening)

	e.Unassign(Saturday)
	assert.Equal(t, 1, e.WorkingDays)

	e.Unassign(Friday)
	assert.Equal(t, 0, e.WorkingDays)
	assert.True(t, e.IsAvailable(Friday))
	assert.Empty(t, e.AssignedShifts)
}

func TestCanWorkMore(t *testing.T) {
	e := NewEmployee("dave")
	for _, day := range Weekdays()[:4] {
		require.True(t, e.Assign(day, ShiftMorning))
	}

	assert.True(t, e.CanWorkMore(5))
	e.Assign(Friday, ShiftMorning)
	assert.False(t, e.CanWorkMore(5))
	assert.Equal(t, len(e.AssignedShifts), e.WorkingDays)
}

func TestResetAssignments(t *testing.T) {
	e := NewEmployee("erin")
	e.AddPreference(Monday, ShiftMorning)
	e.Assign(Monday, ShiftMorning)

	e.ResetAssignments()
	assert.Equal(t, 0, e.WorkingDays)
	assert.Empty(t, e.AssignedShifts)
	assert.Len(t, e.Preferences, 1)
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("Sunday")
	require.NoError(t, err)
	assert.Equal(t, Sunday, day)

	_, err = ParseDay("Funday")
	assert.Error(t, err)

	assert.Equal(t, []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}, Weekdays())
}
