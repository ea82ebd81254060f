package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// SchedulerConfig 是排班算法本身的参数，离线命令行工具只需要这一部分
type SchedulerConfig struct {
	TargetStaffing       int      `env:"TARGET_STAFFING" envDefault:"2"`
	MaxDaysPerWeek       int      `env:"MAX_DAYS_PER_WEEK" envDefault:"5"`
	Days                 []string `env:"DAYS" envSeparator:"," envDefault:"Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday"`
	Shifts               []string `env:"SHIFTS" envSeparator:"," envDefault:"Morning,Afternoon,Evening"`
	MaxFillSweeps        int      `env:"MAX_FILL_SWEEPS" envDefault:"20"`
	MaxFinalFillAttempts int      `env:"MAX_FINAL_FILL_ATTEMPTS" envDefault:"50"`
}

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"admin"`
		Password string `env:"PASSWORD,required"`
		FullName string `env:"FULL_NAME" envDefault:"管理员"`
		Email    string `env:"EMAIL,required"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"336"` // 单位为小时，14 天
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Email struct {
		EmployeeDomain string `env:"EMPLOYEE_DOMAIN" envDefault:"example.com"`
		SMTP           struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                    string `env:"HOST" envDefault:"localhost"`
		Port                    int    `env:"PORT" envDefault:"6379"`
		Password                string `env:"PASSWORD,required"`
		ConnectTimeout          int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationTimeout        int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
		ScheduleCacheExpiration int    `env:"SCHEDULE_CACHE_EXPIRATION" envDefault:"3600"` // 秒
		LockExpiration          int    `env:"LOCK_EXPIRATION" envDefault:"30"`             // 秒
	} `envPrefix:"REDIS_"`
	Scheduler SchedulerConfig `envPrefix:"SCHEDULER_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, firstError(err)
	}

	return cfg, nil
}

func LoadSchedulerConfig() (*SchedulerConfig, error) {
	cfg := &SchedulerConfig{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SCHEDULER_"}); err != nil {
		return nil, firstError(err)
	}

	return cfg, nil
}

// 只返回第一个错误使得日志更清晰
func firstError(err error) error {
	aggErr := env.AggregateError{}
	if ok := errors.As(err, &aggErr); ok && len(aggErr.Errors) > 0 {
		return aggErr.Errors[0]
	}
	return err
}
