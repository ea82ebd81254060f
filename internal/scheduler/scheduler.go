package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// 少于两名员工时无法排班
const MinEmployees = 2

var ErrNotEnoughEmployees = errors.New("员工人数不足，至少需要 2 名员工才能排班")

type Scheduler struct {
	parameters *Parameters
	employees  []*domain.Employee // 名单顺序会影响分配结果
}

func New(parameters *Parameters, employees []*domain.Employee) (*Scheduler, error) {
	if parameters == nil {
		parameters = DefaultParameters()
	}
	if err := parameters.Validate(); err != nil {
		return nil, err
	}

	return &Scheduler{
		parameters: parameters.clone(),
		employees:  employees,
	}, nil
}

func (s *Scheduler) Parameters() *Parameters {
	return s.parameters.clone()
}

func (s *Scheduler) Employees() []*domain.Employee {
	return s.employees
}

// Schedule 从空表开始依次执行各个阶段，返回最终的排班表
// 迭代次数用完后仍可能有格子缺人，这种情况不算错误，由 Validate 报告
func (s *Scheduler) Schedule() (*Grid, error) {
	if len(s.employees) < MinEmployees {
		return nil, fmt.Errorf("%w（当前 %d 名）", ErrNotEnoughEmployees, len(s.employees))
	}

	st := &state{
		params:    s.parameters,
		grid:      newGrid(s.parameters.Days, s.parameters.Shifts),
		employees: s.employees,
	}

	for _, p := range pipeline {
		p.run(st)
		slog.Debug("排班阶段已完成", "phase", p.name, "understaffed", st.understaffedCount())
	}

	return st.grid, nil
}

// Run 执行一次排班并生成带有校验结果的排班结果
func (s *Scheduler) Run() (*domain.ScheduleResult, error) {
	grid, err := s.Schedule()
	if err != nil {
		return nil, err
	}

	return s.Result(grid), nil
}

func (s *Scheduler) Result(grid *Grid) *domain.ScheduleResult {
	result := &domain.ScheduleResult{
		RunID:          uuid.NewString(),
		TargetStaffing: s.parameters.TargetStaffing,
		MaxDaysPerWeek: s.parameters.MaxDaysPerWeek,
		Cells:          grid.Cells(),
		Summary:        make([]domain.EmployeeSummary, 0, len(s.employees)),
		Violations:     Validate(grid, s.employees, s.parameters),
		CreatedAt:      time.Now(),
	}

	for _, e := range s.employees {
		shifts := make(map[domain.Day]domain.Shift, len(e.AssignedShifts))
		for day, shift := range e.AssignedShifts {
			shifts[day] = shift
		}
		result.Summary = append(result.Summary, domain.EmployeeSummary{
			Name:        e.Name,
			WorkingDays: e.WorkingDays,
			Shifts:      shifts,
		})
	}

	return result
}
