package domain

const (
	MailTypeScheduleGenerated = "schedule_generated"
	MailTypeEmployeeSchedule  = "employee_schedule"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ScheduleGeneratedMailData struct {
	FullName       string   `json:"fullName"`
	RunID          string   `json:"runID"`
	EmployeeCount  int      `json:"employeeCount"`
	ViolationCount int      `json:"violationCount"`
	Violations     []string `json:"violations"`
}

type EmployeeScheduleMailShift struct {
	Day   Day   `json:"day"`
	Shift Shift `json:"shift"`
}

type EmployeeScheduleMailData struct {
	Name        string                      `json:"name"`
	RunID       string                      `json:"runID"`
	WorkingDays int                         `json:"workingDays"`
	Shifts      []EmployeeScheduleMailShift `json:"shifts"`
}
