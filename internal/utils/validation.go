package utils

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// ValidateEmployeePreferences 检查员工的偏好是否都在排班表的天数和班次之内
func ValidateEmployeePreferences(e *domain.Employee, days []domain.Day, shifts []domain.Shift) error {
	if e.Name == "" {
		return errors.New("员工姓名不能为空")
	}

	seen := make(map[domain.Day]bool)
	for _, p := range e.Preferences {
		if !slices.Contains(days, p.Day) {
			return fmt.Errorf("员工 %s 的偏好中存在无效的星期 %q", e.Name, p.Day)
		}
		if !slices.Contains(shifts, p.Shift) {
			return fmt.Errorf("员工 %s 在 %s 的偏好班次 %q 不存在", e.Name, p.Day, p.Shift)
		}
		if seen[p.Day] {
			return fmt.Errorf("员工 %s 在 %s 存在多个偏好", e.Name, p.Day)
		}
		seen[p.Day] = true
	}

	return nil
}

// ValidateRoster 排班前由加载方调用，排班算法本身假设名单已经合法
func ValidateRoster(employees []*domain.Employee, days []domain.Day, shifts []domain.Shift) error {
	names := make(map[string]bool)

	for i, e := range employees {
		if e == nil {
			return fmt.Errorf("第 %d 名员工为空", i+1)
		}
		if names[e.Name] {
			return fmt.Errorf("员工 %s 重复出现", e.Name)
		}
		names[e.Name] = true

		if err := ValidateEmployeePreferences(e, days, shifts); err != nil {
			return err
		}
	}

	return nil
}
