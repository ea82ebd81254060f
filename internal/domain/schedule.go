package domain

import "time"

type ViolationKind string

const (
	ViolationDoubleShift ViolationKind = "double_shift"
	ViolationMaxDays     ViolationKind = "max_days"
	ViolationStaffing    ViolationKind = "staffing"
)

type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Employee string        `json:"employee,omitempty"`
	Day      Day           `json:"day,omitempty"`
	Shift    Shift         `json:"shift,omitempty"`
	Count    int           `json:"count"`
	Message  string        `json:"message"`
}

type ScheduleCell struct {
	Day       Day      `json:"day"`
	Shift     Shift    `json:"shift"`
	Employees []string `json:"employees"`
}

type EmployeeSummary struct {
	Name        string        `json:"name"`
	WorkingDays int           `json:"workingDays"`
	Shifts      map[Day]Shift `json:"shifts"`
}

type ScheduleResult struct {
	ID             int64             `json:"id"`
	RunID          string            `json:"runID"`
	TargetStaffing int               `json:"targetStaffing"`
	MaxDaysPerWeek int               `json:"maxDaysPerWeek"`
	Cells          []ScheduleCell    `json:"cells"`
	Summary        []EmployeeSummary `json:"summary"`
	Violations     []Violation       `json:"violations"`
	CreatedAt      time.Time         `json:"createdAt"`
	Version        int32             `json:"-"`
}

// IsValid 没有任何违反约束的记录时排班才算完全合法
func (r *ScheduleResult) IsValid() bool {
	return len(r.Violations) == 0
}

// Cell 返回某个 (day, shift) 的员工名单，不存在时返回 nil
func (r *ScheduleResult) Cell(day Day, shift Shift) []string {
	for _, cell := range r.Cells {
		if cell.Day == day && cell.Shift == shift {
			return cell.Employees
		}
	}
	return nil
}

// ScheduleMeta 是列表接口返回的排班结果概要
type ScheduleMeta struct {
	ID             int64     `json:"id"`
	RunID          string    `json:"runID"`
	TargetStaffing int       `json:"targetStaffing"`
	MaxDaysPerWeek int       `json:"maxDaysPerWeek"`
	ViolationCount int       `json:"violationCount"`
	CreatedAt      time.Time `json:"createdAt"`
}
