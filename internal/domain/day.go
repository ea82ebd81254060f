package domain

import "fmt"

type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

var weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Weekdays 按固定顺序返回一周七天（周一在前）
func Weekdays() []Day {
	return append([]Day{}, weekdays...)
}

func ParseDay(s string) (Day, error) {
	for _, day := range weekdays {
		if string(day) == s {
			return day, nil
		}
	}
	return "", fmt.Errorf("无效的星期名称 %q", s)
}

type Shift string

const (
	ShiftMorning   Shift = "Morning"
	ShiftAfternoon Shift = "Afternoon"
	ShiftEvening   Shift = "Evening"
)

func DefaultShifts() []Shift {
	return []Shift{ShiftMorning, ShiftAfternoon, ShiftEvening}
}
