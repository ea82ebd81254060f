package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func TestValidateEmptyGrid(t *testing.T) {
	params := DefaultParameters()
	grid := newGrid(params.Days, params.Shifts)

	violations := Validate(grid, nil, params)

	require.Len(t, violations, 21)
	assert.Equal(t, domain.ViolationStaffing, violations[0].Kind)
	assert.Equal(t, domain.Monday, violations[0].Day)
	assert.Equal(t, domain.ShiftMorning, violations[0].Shift)
	assert.Equal(t, 0, violations[0].Count)
}

func TestValidateDetectsCorruptedState(t *testing.T) {
	params := DefaultParameters()
	grid := newGrid(params.Days, params.Shifts)

	a := domain.NewEmployee("a")
	// 直接修改排班表，模拟分配逻辑出错的情况
	grid.append(domain.Monday, domain.ShiftMorning, a)
	grid.append(domain.Monday, domain.ShiftEvening, a)
	a.WorkingDays = 6

	violations := Validate(grid, []*domain.Employee{a}, params)

	require.GreaterOrEqual(t, len(violations), 2)
	assert.Equal(t, domain.Violation{
		Kind:     domain.ViolationDoubleShift,
		Employee: "a",
		Day:      domain.Monday,
		Count:    2,
		Message:  "a 在 Monday 被安排了 2 个班次",
	}, violations[0])
	assert.Equal(t, domain.ViolationMaxDays, violations[1].Kind)
	assert.Equal(t, 6, violations[1].Count)
	assert.Equal(t, 21, countKind(violations, domain.ViolationStaffing))
}

func TestValidateDoesNotMutate(t *testing.T) {
	employees := perfectRoster()
	s, err := New(nil, employees)
	require.NoError(t, err)
	grid, err := s.Schedule()
	require.NoError(t, err)

	before := grid.Cells()
	Validate(grid, employees, s.Parameters())
	assert.Equal(t, before, grid.Cells())
}

func TestValidateOverstaffedCell(t *testing.T) {
	params := DefaultParameters()
	params.Days = []domain.Day{domain.Monday}
	params.Shifts = []domain.Shift{domain.ShiftMorning}
	grid := newGrid(params.Days, params.Shifts)

	for _, name := range []string{"a", "b", "c"} {
		grid.append(domain.Monday, domain.ShiftMorning, domain.NewEmployee(name))
	}

	violations := Validate(grid, nil, params)
	require.Len(t, violations, 1)
	assert.Equal(t, 3, violations[0].Count)
	assert.Equal(t, "Monday Morning 有 3 名员工，应为 2 名", violations[0].Message)
}
