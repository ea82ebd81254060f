package scheduler

import (
	"cmp"
	"slices"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// 一次排班依次经过的阶段
type phase struct {
	name string
	run  func(st *state)
}

var pipeline = []phase{
	{name: "reset", run: resetPhase},
	{name: "initial_assignment", run: initialAssignment},
	{name: "fill_understaffed", run: fillUnderstaffed},
	{name: "resolve_conflicts", run: resolveConflicts},
	{name: "final_fill", run: finalFill},
}

// 清空排班表以及所有员工的分配记录，保证多次运行之间不会残留状态
func resetPhase(st *state) {
	st.grid.reset()
	for _, e := range st.employees {
		e.ResetAssignments()
	}
}

// 按员工顺序、偏好录入顺序把每个人放到自己偏好的班次
// 这一阶段可能让热门班次人数过多，冷门班次无人，后续阶段负责修正
func initialAssignment(st *state) {
	for _, e := range st.employees {
		for _, p := range e.Preferences {
			if e.CanWorkMore(st.params.MaxDaysPerWeek) && e.IsAvailable(p.Day) {
				st.assign(p.Day, p.Shift, e)
			}
		}
	}
}

// 多轮扫描所有格子，移除多余的人并补齐缺人的格子
// 每个缺人的格子每轮只补一个人，剩余缺口留给下一轮在状态更新后再处理
func fillUnderstaffed(st *state) {
	for sweep := 0; sweep < st.params.MaxFillSweeps; sweep++ {
		understaffedFound := false

		for _, day := range st.grid.days {
			for _, shift := range st.grid.shifts {
				count := st.grid.Count(day, shift)
				switch {
				case count < st.params.TargetStaffing:
					understaffedFound = true
					if candidates := st.candidates(day); len(candidates) > 0 {
						st.assign(day, shift, candidates[0])
					}
				case count > st.params.TargetStaffing:
					st.evictExcess(day, shift)
				}
			}
		}

		if !understaffedFound {
			return
		}
	}
}

func resolveConflicts(st *state) {
	// 先一次性补齐所有缺口
	for _, day := range st.grid.days {
		for _, shift := range st.grid.shifts {
			count := st.grid.Count(day, shift)
			switch {
			case count < st.params.TargetStaffing:
				candidates := st.candidates(day)
				needed := min(st.params.TargetStaffing-count, len(candidates))
				for _, e := range candidates[:needed] {
					st.assign(day, shift, e)
				}
			case count > st.params.TargetStaffing:
				st.evictExcess(day, shift)
			}
		}
	}

	// 再把还能上班的员工塞进第一个缺人的班次，不考虑偏好
	for _, e := range st.employees {
		if !e.CanWorkMore(st.params.MaxDaysPerWeek) {
			continue
		}

		for _, day := range st.grid.days {
			if !e.IsAvailable(day) {
				continue
			}
			for _, shift := range st.grid.shifts {
				if st.grid.Count(day, shift) < st.params.TargetStaffing {
					st.assign(day, shift, e)
					break
				}
			}
			if !e.IsAvailable(day) {
				break
			}
		}
	}
}

func finalFill(st *state) {
	for attempt := 0; attempt < st.params.MaxFinalFillAttempts; attempt++ {
		understaffed, overstaffed := st.unbalancedCells()

		for _, c := range overstaffed {
			st.evictExcess(c.day, c.shift)
		}

		if len(understaffed) == 0 {
			return
		}

		// 与 fillUnderstaffed 一样，每次尝试每个格子只补一个人
		for _, c := range understaffed {
			if st.grid.Count(c.day, c.shift) >= st.params.TargetStaffing {
				continue
			}
			if candidates := st.candidates(c.day); len(candidates) > 0 {
				st.assign(c.day, c.shift, candidates[0])
			}
		}
	}
}

func (st *state) assign(day domain.Day, shift domain.Shift, e *domain.Employee) {
	// 不在排班表中的天或班次直接忽略，名单校验由加载方负责
	if !st.grid.has(day, shift) {
		return
	}
	if e.Assign(day, shift) {
		st.grid.append(day, shift, e)
	}
}

// evictExcess 保留最早进入格子的 TargetStaffing 个人，其余的人撤销当天的分配
func (st *state) evictExcess(day domain.Day, shift domain.Shift) {
	for _, e := range st.grid.truncate(day, shift, st.params.TargetStaffing) {
		e.Unassign(day)
	}
}

// candidates 返回当天还能上班的员工，按已工作天数升序排列，天数相同时保持名单顺序
func (st *state) candidates(day domain.Day) []*domain.Employee {
	candidates := make([]*domain.Employee, 0, len(st.employees))
	for _, e := range st.employees {
		if e.CanWorkMore(st.params.MaxDaysPerWeek) && e.IsAvailable(day) {
			candidates = append(candidates, e)
		}
	}

	slices.SortStableFunc(candidates, func(a, b *domain.Employee) int {
		return cmp.Compare(a.WorkingDays, b.WorkingDays)
	})

	return candidates
}

func (st *state) unbalancedCells() (understaffed []cellKey, overstaffed []cellKey) {
	for _, day := range st.grid.days {
		for _, shift := range st.grid.shifts {
			count := st.grid.Count(day, shift)
			switch {
			case count < st.params.TargetStaffing:
				understaffed = append(understaffed, cellKey{day: day, shift: shift})
			case count > st.params.TargetStaffing:
				overstaffed = append(overstaffed, cellKey{day: day, shift: shift})
			}
		}
	}
	return understaffed, overstaffed
}

func (st *state) understaffedCount() int {
	understaffed, _ := st.unbalancedCells()
	return len(understaffed)
}
