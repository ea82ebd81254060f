package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func TestParametersFromConfig(t *testing.T) {
	cfg := &config.SchedulerConfig{
		TargetStaffing:       3,
		MaxDaysPerWeek:       4,
		Days:                 []string{"Monday", "Friday"},
		Shifts:               []string{"Day", "Night"},
		MaxFillSweeps:        10,
		MaxFinalFillAttempts: 5,
	}

	p, err := ParametersFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, &Parameters{
		TargetStaffing:       3,
		MaxDaysPerWeek:       4,
		Days:                 []domain.Day{domain.Monday, domain.Friday},
		Shifts:               []domain.Shift{"Day", "Night"},
		MaxFillSweeps:        10,
		MaxFinalFillAttempts: 5,
	}, p)

	cfg.Days = []string{"Caturday"}
	_, err = ParametersFromConfig(cfg)
	assert.Error(t, err)
}
