package scheduler

import (
	"errors"
	"slices"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// 排班参数
type Parameters struct {
	TargetStaffing       int            // 每个 (day, shift) 需要的人数
	MaxDaysPerWeek       int            // 每人每周最多工作天数
	Days                 []domain.Day   // 遍历顺序即为排班顺序
	Shifts               []domain.Shift // 同上
	MaxFillSweeps        int            // 补齐阶段的最大轮数
	MaxFinalFillAttempts int            // 最终补齐阶段的最大尝试次数
}

func DefaultParameters() *Parameters {
	return &Parameters{
		TargetStaffing:       2,
		MaxDaysPerWeek:       5,
		Days:                 domain.Weekdays(),
		Shifts:               domain.DefaultShifts(),
		MaxFillSweeps:        20,
		MaxFinalFillAttempts: 50,
	}
}

func (p *Parameters) Validate() error {
	if p.TargetStaffing <= 0 {
		return errors.New("每个班次的目标人数必须大于 0")
	}
	if p.MaxDaysPerWeek <= 0 {
		return errors.New("每周最多工作天数必须大于 0")
	}
	if p.MaxFillSweeps < 0 || p.MaxFinalFillAttempts < 0 {
		return errors.New("迭代次数不能为负数")
	}
	if len(p.Days) == 0 {
		return errors.New("排班天数不能为空")
	}
	if len(p.Shifts) == 0 {
		return errors.New("班次不能为空")
	}
	if len(slices.Compact(slices.Sorted(slices.Values(p.Days)))) != len(p.Days) {
		return errors.New("排班天数中存在重复")
	}
	if len(slices.Compact(slices.Sorted(slices.Values(p.Shifts)))) != len(p.Shifts) {
		return errors.New("班次中存在重复")
	}
	return nil
}

func (p *Parameters) clone() *Parameters {
	c := *p
	c.Days = slices.Clone(p.Days)
	c.Shifts = slices.Clone(p.Shifts)
	return &c
}

// Grid 是 day × shift 的排班表，每个格子按插入顺序保存员工
// 顺序本身有意义：人数过多时保留最早插入的 TargetStaffing 个人
type Grid struct {
	days   []domain.Day
	shifts []domain.Shift
	cells  map[domain.Day]map[domain.Shift][]*domain.Employee
}

func newGrid(days []domain.Day, shifts []domain.Shift) *Grid {
	g := &Grid{
		days:   days,
		shifts: shifts,
		cells:  make(map[domain.Day]map[domain.Shift][]*domain.Employee, len(days)),
	}
	g.reset()
	return g
}

func (g *Grid) reset() {
	for _, day := range g.days {
		g.cells[day] = make(map[domain.Shift][]*domain.Employee, len(g.shifts))
		for _, shift := range g.shifts {
			g.cells[day][shift] = make([]*domain.Employee, 0)
		}
	}
}

func (g *Grid) has(day domain.Day, shift domain.Shift) bool {
	if _, exists := g.cells[day]; !exists {
		return false
	}
	_, exists := g.cells[day][shift]
	return exists
}

func (g *Grid) append(day domain.Day, shift domain.Shift, e *domain.Employee) {
	g.cells[day][shift] = append(g.cells[day][shift], e)
}

// truncate 把格子缩减到前 n 个人，返回被移除的员工
func (g *Grid) truncate(day domain.Day, shift domain.Shift, n int) []*domain.Employee {
	cell := g.cells[day][shift]
	if len(cell) <= n {
		return nil
	}
	evicted := slices.Clone(cell[n:])
	g.cells[day][shift] = cell[:n:n]
	return evicted
}

func (g *Grid) contains(day domain.Day, shift domain.Shift, e *domain.Employee) bool {
	return slices.Contains(g.cells[day][shift], e)
}

func (g *Grid) Days() []domain.Day {
	return slices.Clone(g.days)
}

func (g *Grid) Shifts() []domain.Shift {
	return slices.Clone(g.shifts)
}

func (g *Grid) Count(day domain.Day, shift domain.Shift) int {
	return len(g.cells[day][shift])
}

// Cell 返回格子中员工的名字，顺序与插入顺序一致
func (g *Grid) Cell(day domain.Day, shift domain.Shift) []string {
	cell := g.cells[day][shift]
	names := make([]string, len(cell))
	for i, e := range cell {
		names[i] = e.Name
	}
	return names
}

func (g *Grid) Contains(day domain.Day, shift domain.Shift, name string) bool {
	return slices.Contains(g.Cell(day, shift), name)
}

// Cells 按 day、shift 的固定顺序展开所有格子
func (g *Grid) Cells() []domain.ScheduleCell {
	cells := make([]domain.ScheduleCell, 0, len(g.days)*len(g.shifts))
	for _, day := range g.days {
		for _, shift := range g.shifts {
			cells = append(cells, domain.ScheduleCell{
				Day:       day,
				Shift:     shift,
				Employees: g.Cell(day, shift),
			})
		}
	}
	return cells
}

// state 是一次排班过程中所有阶段共享的状态，只属于当前这一次运行
type state struct {
	params    *Parameters
	grid      *Grid
	employees []*domain.Employee
}

type cellKey struct {
	day   domain.Day
	shift domain.Shift
}
