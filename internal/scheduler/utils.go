package scheduler

import (
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// ParametersFromConfig 把环境变量中的排班配置转换为算法参数
func ParametersFromConfig(cfg *config.SchedulerConfig) (*Parameters, error) {
	days := make([]domain.Day, 0, len(cfg.Days))
	for _, d := range cfg.Days {
		day, err := domain.ParseDay(d)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	shifts := make([]domain.Shift, 0, len(cfg.Shifts))
	for _, s := range cfg.Shifts {
		shifts = append(shifts, domain.Shift(s))
	}

	p := &Parameters{
		TargetStaffing:       cfg.TargetStaffing,
		MaxDaysPerWeek:       cfg.MaxDaysPerWeek,
		Days:                 days,
		Shifts:               shifts,
		MaxFillSweeps:        cfg.MaxFillSweeps,
		MaxFinalFillAttempts: cfg.MaxFinalFillAttempts,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}
