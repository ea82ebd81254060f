// Package report 把排班结果渲染成文本表格，只读取排班结果，不做任何修改
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

const none = "None"

var titleStyle = lipgloss.NewStyle().Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

// RenderInput 列出每个员工每天的偏好班次
func RenderInput(employees []*domain.Employee, days []domain.Day) string {
	headers := []string{"Employee"}
	for _, day := range days {
		headers = append(headers, string(day))
	}

	t := newTable(headers...)
	for _, e := range employees {
		row := []string{e.Name}
		for _, day := range days {
			if shift, ok := e.PreferredShift(day); ok {
				row = append(row, string(shift))
			} else {
				row = append(row, none)
			}
		}
		t.Row(row...)
	}

	return titleStyle.Render("员工偏好") + "\n" + t.String() + "\n"
}

func RenderSchedule(result *domain.ScheduleResult, days []domain.Day, shifts []domain.Shift) string {
	headers := []string{"Day"}
	for _, shift := range shifts {
		headers = append(headers, string(shift))
	}

	t := newTable(headers...)
	for _, day := range days {
		row := []string{string(day)}
		for _, shift := range shifts {
			row = append(row, cellText(result.Cell(day, shift)))
		}
		t.Row(row...)
	}

	return titleStyle.Render("每周排班表") + "\n" + t.String() + "\n"
}

func cellText(names []string) string {
	if len(names) == 0 {
		return none
	}
	return strings.Join(names, ", ")
}

func RenderSummary(result *domain.ScheduleResult) string {
	t := newTable("Employee", "Days")
	for _, s := range result.Summary {
		t.Row(s.Name, strconv.Itoa(s.WorkingDays))
	}

	return titleStyle.Render("员工汇总") + "\n" + t.String() + "\n"
}

var violationSections = []struct {
	kind domain.ViolationKind
	ok   string
	bad  string
}{
	{kind: domain.ViolationDoubleShift, ok: "没有员工一天上多个班次", bad: "存在一天上多个班次的员工："},
	{kind: domain.ViolationMaxDays, ok: "没有员工超过每周最多工作天数", bad: "存在超过每周最多工作天数的员工："},
	{kind: domain.ViolationStaffing, ok: "所有班次人数均符合要求", bad: "存在人数不符合要求的班次："},
}

// RenderViolations 按约束类型分组输出校验结果
func RenderViolations(violations []domain.Violation) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("约束校验"))
	b.WriteString("\n")

	for _, section := range violationSections {
		var messages []string
		for _, v := range violations {
			if v.Kind == section.kind {
				messages = append(messages, v.Message)
			}
		}

		if len(messages) == 0 {
			fmt.Fprintf(&b, "[OK] %s\n", section.ok)
			continue
		}

		fmt.Fprintf(&b, "[违反] %s\n", section.bad)
		for _, msg := range messages {
			fmt.Fprintf(&b, "   - %s\n", msg)
		}
	}

	if len(violations) == 0 {
		b.WriteString("\n所有约束均已满足！\n")
	} else {
		fmt.Fprintf(&b, "\n共发现 %d 处违反约束\n", len(violations))
	}

	return b.String()
}
