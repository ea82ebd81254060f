package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/seed"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var file string
	var username, email string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 导入名单文件, 3: 用数据库中的名单排班, 4: 导出名单到标准输出, 5: 创建管理员账号)")
	flag.IntVar(&n, "n", 5, "要插入的员工数量")
	flag.StringVar(&file, "file", seed.DefaultRosterFile, "要导入的名单文件")
	flag.StringVar(&username, "username", "", "要创建的管理员用户名")
	flag.StringVar(&email, "email", "", "要创建的管理员邮箱")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	params, err := scheduler.ParametersFromConfig(&cfg.Scheduler)
	if err != nil {
		logger.Error("排班参数配置有误", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		cnt, err := seed.SeedRandomEmployees(repo, n, params, cfg.Email.EmployeeDomain)
		if err != nil {
			slog.Error("无法插入随机员工", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入员工成功", slog.Int("count", cnt))
	case 2:
		cnt, err := seed.SeedRosterFile(repo, file, params)
		if err != nil {
			slog.Error("无法导入名单", slog.String("file", file), slog.String("error", err.Error()))
			return
		}
		slog.Info("导入名单成功", slog.Int("count", cnt))
	case 3:
		result, err := seed.SeedSchedule(repo, params)
		if err != nil {
			slog.Error("无法生成排班结果", slog.String("error", err.Error()))
			return
		}
		slog.Info("生成排班结果成功", slog.Int64("id", result.ID), slog.String("runID", result.RunID), slog.Int("violations", len(result.Violations)))
	case 4:
		cnt, err := seed.ExportRoster(repo, os.Stdout)
		if err != nil {
			slog.Error("无法导出名单", slog.String("error", err.Error()))
			return
		}
		slog.Info("导出名单成功", slog.Int("count", cnt))
	case 5:
		if username == "" || email == "" {
			slog.Error("请指定管理员的用户名和邮箱")
			return
		}

		password := utils.GenerateRandomPassword(16)
		passwordHash, err := utils.HashPassword(password)
		if err != nil {
			slog.Error("无法生成密码哈希", slog.String("error", err.Error()))
			return
		}

		manager := &domain.Manager{
			Username:     username,
			PasswordHash: passwordHash,
			FullName:     username,
			Email:        email,
		}
		if err := repo.CreateManager(manager); err != nil {
			slog.Error("无法创建管理员", slog.String("error", err.Error()))
			return
		}

		// 密码只在这里输出一次
		fmt.Printf("用户名: %s\n密码: %s\n", username, password)
		slog.Info("创建管理员成功", slog.Int64("id", manager.ID))
	default:
		slog.Error("指定的操作非法")
	}
}
