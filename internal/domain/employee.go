package domain

import "time"

// Preference 表示员工在某一天希望上的班次
type Preference struct {
	Day   Day   `json:"day"`
	Shift Shift `json:"shift"`
}

type Employee struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	// 每天至多一个偏好，顺序即录入顺序，初始分配时按此顺序处理
	Preferences []Preference `json:"preferences"`

	// 某一天出现在 AssignedShifts 中即表示这一天已经不可用
	AssignedShifts map[Day]Shift `json:"assignedShifts"`
	WorkingDays    int           `json:"workingDays"`

	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

func NewEmployee(name string) *Employee {
	return &Employee{
		Name:           name,
		Preferences:    make([]Preference, 0),
		AssignedShifts: make(map[Day]Shift),
	}
}

// AddPreference 设置某天的偏好班次，已有偏好时原地覆盖，保留其原来的位置
func (e *Employee) AddPreference(day Day, shift Shift) {
	for i := range e.Preferences {
		if e.Preferences[i].Day == day {
			e.Preferences[i].Shift = shift
			return
		}
	}
	e.Preferences = append(e.Preferences, Preference{Day: day, Shift: shift})
}

func (e *Employee) PreferredShift(day Day) (Shift, bool) {
	for _, p := range e.Preferences {
		if p.Day == day {
			return p.Shift, true
		}
	}
	return "", false
}

// Assign 当天尚未分配班次时才会成功
func (e *Employee) Assign(day Day, shift Shift) bool {
	if e.AssignedShifts == nil {
		e.AssignedShifts = make(map[Day]Shift)
	}
	if _, exists := e.AssignedShifts[day]; exists {
		return false
	}
	e.AssignedShifts[day] = shift
	e.WorkingDays++
	return true
}

func (e *Employee) Unassign(day Day) {
	if _, exists := e.AssignedShifts[day]; !exists {
		return
	}
	delete(e.AssignedShifts, day)
	e.WorkingDays--
}

func (e *Employee) IsAvailable(day Day) bool {
	_, exists := e.AssignedShifts[day]
	return !exists
}

func (e *Employee) CanWorkMore(maxDaysPerWeek int) bool {
	return e.WorkingDays < maxDaysPerWeek
}

func (e *Employee) ResetAssignments() {
	e.AssignedShifts = make(map[Day]Shift)
	e.WorkingDays = 0
}
