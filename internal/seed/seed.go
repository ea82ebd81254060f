package seed

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/roster"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

// DefaultRosterFile 是仓库自带的示例名单，14 人恰好可以排满一周
const DefaultRosterFile = "./internal/seed/data/employee_data.json"

// Store 是填充数据时用到的 repository 方法
type Store interface {
	GetAllEmployees() ([]*domain.Employee, error)
	ImportEmployees(employees []*domain.Employee) error
	InsertSchedule(result *domain.ScheduleResult) error
}

// SeedRosterFile 导入名单文件，返回导入的员工数量
func SeedRosterFile(store Store, path string, params *scheduler.Parameters) (int, error) {
	employees, err := roster.LoadFile(path)
	if err != nil {
		return 0, err
	}

	if err := utils.ValidateRoster(employees, params.Days, params.Shifts); err != nil {
		return 0, err
	}

	if err := store.ImportEmployees(employees); err != nil {
		return 0, err
	}

	return len(employees), nil
}

// SeedRandomEmployees 生成 n 名姓名互不相同的随机员工
func SeedRandomEmployees(store Store, n int, params *scheduler.Parameters, emailDomain string) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("员工数量必须为正数，当前为 %d", n)
	}

	existing, err := store.GetAllEmployees()
	if err != nil {
		return 0, err
	}

	names := make(map[string]bool, len(existing)+n)
	for _, e := range existing {
		names[e.Name] = true
	}

	employees := make([]*domain.Employee, 0, n)
	for attempts := 0; len(employees) < n && attempts < n*10; attempts++ {
		e := utils.GenerateRandomEmployee(params.Days, params.Shifts, emailDomain)
		if names[e.Name] {
			continue
		}
		names[e.Name] = true
		employees = append(employees, e)
	}

	if len(employees) < n {
		slog.Warn("随机姓名重复过多，只生成了部分员工", slog.Int("want", n), slog.Int("got", len(employees)))
	}

	if err := store.ImportEmployees(employees); err != nil {
		return 0, err
	}

	return len(employees), nil
}

// SeedSchedule 用数据库中的名单排一次班并保存结果
func SeedSchedule(store Store, params *scheduler.Parameters) (*domain.ScheduleResult, error) {
	employees, err := store.GetAllEmployees()
	if err != nil {
		return nil, err
	}

	s, err := scheduler.New(params, employees)
	if err != nil {
		return nil, err
	}

	result, err := s.Run()
	if err != nil {
		return nil, err
	}

	if err := store.InsertSchedule(result); err != nil {
		return nil, err
	}

	return result, nil
}

// ExportRoster 以名单文件格式导出数据库中的员工
func ExportRoster(store Store, w io.Writer) (int, error) {
	employees, err := store.GetAllEmployees()
	if err != nil {
		return 0, err
	}

	if err := roster.Encode(w, employees); err != nil {
		return 0, err
	}

	return len(employees), nil
}
