package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/scheduler"
)

const (
	latestScheduleCacheKey = "schedule_latest"
	generateLockKey        = "lock_schedule_generate"
)

func (h *Handler) GetAllSchedules(w http.ResponseWriter, r *http.Request) {
	metas, err := h.repository.GetAllScheduleMetas()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班结果列表成功", metas)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	result := r.Context().Value(ScheduleCtx).(*domain.ScheduleResult)
	h.successResponse(w, r, "获取排班结果成功", result)
}

func (h *Handler) GetLatestSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	// 先查缓存
	cached, err := h.redisClient.Get(ctx, latestScheduleCacheKey).Bytes()
	switch {
	case err == nil:
		result := &domain.ScheduleResult{}
		uerr := json.Unmarshal(cached, result)
		if uerr == nil {
			h.successResponse(w, r, "获取最新排班结果成功", result)
			return
		}
		slog.Warn("排班结果缓存已损坏", slog.String("error", uerr.Error()))
	case errors.Is(err, redis.Nil):
	default:
		slog.Warn("读取排班结果缓存失败", slog.String("error", err.Error()))
	}

	// 缓存未命中时回退到数据库
	id, err := h.repository.GetLatestScheduleID()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "暂无排班结果", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	result, err := h.repository.GetScheduleByID(id)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.cacheLatestSchedule(result)
	h.successResponse(w, r, "获取最新排班结果成功", result)
}

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	// 所有参数均可省略，省略时使用配置中的默认值
	var req struct {
		TargetStaffing       *int `json:"targetStaffing" validate:"omitnil,min=1"`
		MaxDaysPerWeek       *int `json:"maxDaysPerWeek" validate:"omitnil,min=1,max=7"`
		MaxFillSweeps        *int `json:"maxFillSweeps" validate:"omitnil,min=1"`
		MaxFinalFillAttempts *int `json:"maxFinalFillAttempts" validate:"omitnil,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	params, err := scheduler.ParametersFromConfig(&h.config.Scheduler)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if req.TargetStaffing != nil {
		params.TargetStaffing = *req.TargetStaffing
	}
	if req.MaxDaysPerWeek != nil {
		params.MaxDaysPerWeek = *req.MaxDaysPerWeek
	}
	if req.MaxFillSweeps != nil {
		params.MaxFillSweeps = *req.MaxFillSweeps
	}
	if req.MaxFinalFillAttempts != nil {
		params.MaxFinalFillAttempts = *req.MaxFinalFillAttempts
	}

	// 同一时间只允许一个排班任务
	token := uuid.NewString()
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	ok, err := h.redisClient.SetNX(ctx, generateLockKey, token, time.Duration(h.config.Redis.LockExpiration)*time.Second).Result()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !ok {
		h.errorResponse(w, r, "已有排班任务正在进行，请稍后再试")
		return
	}
	defer h.releaseGenerateLock(token)

	// 每次排班都使用从数据库中新读取的名单
	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	s, err := scheduler.New(params, employees)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	result, err := s.Run()
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrNotEnoughEmployees):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.InsertSchedule(result); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.cacheLatestSchedule(result)

	// 结果已经保存，通知失败只记录日志
	if err := h.notifySchedule(result, employees, params.Days); err != nil {
		slog.Error("发送排班通知失败", "runID", result.RunID, slog.String("error", err.Error()))
	}

	h.successResponse(w, r, "自动排班成功", result)
}

func (h *Handler) cacheLatestSchedule(result *domain.ScheduleResult) {
	data, err := json.Marshal(result)
	if err != nil {
		slog.Error("序列化排班结果失败", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	expiration := time.Duration(h.config.Redis.ScheduleCacheExpiration) * time.Second
	if err := h.redisClient.Set(ctx, latestScheduleCacheKey, data, expiration).Err(); err != nil {
		slog.Warn("写入排班结果缓存失败", slog.String("error", err.Error()))
	}
}

// 只释放自己持有的锁，锁可能已经过期并被其他请求获取
func (h *Handler) releaseGenerateLock(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	holder, err := h.redisClient.Get(ctx, generateLockKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("读取排班锁失败", slog.String("error", err.Error()))
		}
		return
	}
	if holder != token {
		return
	}

	if err := h.redisClient.Del(ctx, generateLockKey).Err(); err != nil {
		slog.Warn("释放排班锁失败", slog.String("error", err.Error()))
	}
}
