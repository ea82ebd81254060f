package scheduler

import (
	"fmt"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// Validate 只读地检查排班结果，返回所有违反约束的记录，为空表示完全合法
func Validate(grid *Grid, employees []*domain.Employee, params *Parameters) []domain.Violation {
	violations := make([]domain.Violation, 0)

	// 同一天不能上多个班次，这里直接检查排班表而不是员工的分配记录
	for _, e := range employees {
		for _, day := range grid.days {
			count := 0
			for _, shift := range grid.shifts {
				if grid.contains(day, shift, e) {
					count++
				}
			}
			if count > 1 {
				violations = append(violations, domain.Violation{
					Kind:     domain.ViolationDoubleShift,
					Employee: e.Name,
					Day:      day,
					Count:    count,
					Message:  fmt.Sprintf("%s 在 %s 被安排了 %d 个班次", e.Name, day, count),
				})
			}
		}
	}

	// 每周最多工作天数
	for _, e := range employees {
		if e.WorkingDays > params.MaxDaysPerWeek {
			violations = append(violations, domain.Violation{
				Kind:     domain.ViolationMaxDays,
				Employee: e.Name,
				Count:    e.WorkingDays,
				Message:  fmt.Sprintf("%s 本周工作 %d 天，超过上限 %d 天", e.Name, e.WorkingDays, params.MaxDaysPerWeek),
			})
		}
	}

	// 每个格子的人数必须恰好等于目标人数
	for _, day := range grid.days {
		for _, shift := range grid.shifts {
			count := grid.Count(day, shift)
			if count != params.TargetStaffing {
				violations = append(violations, domain.Violation{
					Kind:    domain.ViolationStaffing,
					Day:     day,
					Shift:   shift,
					Count:   count,
					Message: fmt.Sprintf("%s %s 有 %d 名员工，应为 %d 名", day, shift, count, params.TargetStaffing),
				})
			}
		}
	}

	return violations
}
