package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/report"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/roster"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

type appContext struct {
	out io.Writer
	cfg *config.SchedulerConfig
}

// 覆盖参数为 0 时使用环境变量中的配置
type Overrides struct {
	TargetStaffing       int `help:"每个班次需要的人数。" name:"target-staffing"`
	MaxDaysPerWeek       int `help:"每人每周最多工作天数。" name:"max-days"`
	MaxFillSweeps        int `help:"补人阶段的最大轮数。" name:"max-fill-sweeps"`
	MaxFinalFillAttempts int `help:"最终补人阶段的最大尝试次数。" name:"max-final-fill-attempts"`
}

func (o Overrides) apply(params *scheduler.Parameters) error {
	if o.TargetStaffing != 0 {
		params.TargetStaffing = o.TargetStaffing
	}
	if o.MaxDaysPerWeek != 0 {
		params.MaxDaysPerWeek = o.MaxDaysPerWeek
	}
	if o.MaxFillSweeps != 0 {
		params.MaxFillSweeps = o.MaxFillSweeps
	}
	if o.MaxFinalFillAttempts != 0 {
		params.MaxFinalFillAttempts = o.MaxFinalFillAttempts
	}
	return params.Validate()
}

type RunCmd struct {
	Roster    string    `arg:"" optional:"" help:"名单文件路径。" type:"path" default:"employee_data.json"`
	Overrides Overrides `embed:""`
}

func (c *RunCmd) Run(app *appContext) error {
	params, employees, err := load(app.cfg, c.Roster, c.Overrides)
	if err != nil {
		return err
	}

	fmt.Fprintln(app.out, report.RenderInput(employees, params.Days))

	s, err := scheduler.New(params, employees)
	if err != nil {
		return err
	}

	fmt.Fprintln(app.out, "正在生成排班...")
	result, err := s.Run()
	if err != nil {
		return err
	}

	fmt.Fprintln(app.out, report.RenderSchedule(result, params.Days, params.Shifts))
	fmt.Fprintln(app.out, report.RenderSummary(result))
	fmt.Fprint(app.out, report.RenderViolations(result.Violations))

	// 违反约束不算失败，只有配置错误才返回非零退出码
	slog.Debug("排班完成", "runID", result.RunID, "violations", len(result.Violations))
	return nil
}

type CheckCmd struct {
	Roster string `arg:"" optional:"" help:"名单文件路径。" type:"path" default:"employee_data.json"`
}

func (c *CheckCmd) Run(app *appContext) error {
	_, employees, err := load(app.cfg, c.Roster, Overrides{})
	if err != nil {
		return err
	}
	if len(employees) < scheduler.MinEmployees {
		return fmt.Errorf("%w（当前 %d 名）", scheduler.ErrNotEnoughEmployees, len(employees))
	}

	fmt.Fprintf(app.out, "名单有效，共 %d 名员工\n", len(employees))
	return nil
}

func load(cfg *config.SchedulerConfig, path string, o Overrides) (*scheduler.Parameters, []*domain.Employee, error) {
	params, err := scheduler.ParametersFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := o.apply(params); err != nil {
		return nil, nil, err
	}

	employees, err := roster.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if err := utils.ValidateRoster(employees, params.Days, params.Shifts); err != nil {
		return nil, nil, err
	}

	return params, employees, nil
}

var CLI struct {
	Debug bool `help:"输出排班各阶段的调试日志。"`

	Run   RunCmd   `cmd:"" help:"读取名单并生成一周排班。" default:"withargs"`
	Check CheckCmd `cmd:"" help:"只检查名单文件是否有效。"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("schedule"),
		kong.Description("每周员工排班工具"),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if CLI.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.LoadSchedulerConfig()
	if err != nil {
		slog.Error("无法加载排班配置", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := ctx.Run(&appContext{out: os.Stdout, cfg: cfg}); err != nil {
		fmt.Fprintf(os.Stderr, "错误：%v\n", err)
		os.Exit(1)
	}
}
