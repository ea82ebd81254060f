package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/roster"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

type preferenceRequest struct {
	Day   string `json:"day" validate:"required"`
	Shift string `json:"shift" validate:"required"`
}

func applyPreferences(e *domain.Employee, prefs []preferenceRequest) {
	e.Preferences = make([]domain.Preference, 0, len(prefs))
	for _, p := range prefs {
		e.AddPreference(domain.Day(p.Day), domain.Shift(p.Shift))
	}
}

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e := r.Context().Value(EmployeeCtx).(*domain.Employee)
	h.successResponse(w, r, "获取员工信息成功", e)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string              `json:"name" validate:"required"`
		Email       string              `json:"email" validate:"omitempty,email"`
		Preferences []preferenceRequest `json:"preferences" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	e := domain.NewEmployee(req.Name)
	e.Email = req.Email
	applyPreferences(e, req.Preferences)

	// 偏好必须落在当前配置的排班表之内
	params, err := scheduler.ParametersFromConfig(&h.config.Scheduler)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateEmployeePreferences(e, params.Days, params.Shifts); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateEmployee(e); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "employees_name_key":
				h.errorResponse(w, r, "员工姓名已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建员工成功", e)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	e := r.Context().Value(EmployeeCtx).(*domain.Employee)

	var req struct {
		Email       *string              `json:"email" validate:"omitempty,email"`
		Preferences *[]preferenceRequest `json:"preferences" validate:"omitempty,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Email != nil {
		e.Email = *req.Email
	}
	if req.Preferences != nil {
		applyPreferences(e, *req.Preferences)
	}

	params, err := scheduler.ParametersFromConfig(&h.config.Scheduler)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateEmployeePreferences(e, params.Days, params.Shifts); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateEmployee(e); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "员工信息已被修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新员工信息成功", e)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	e := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(e.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}

// ImportEmployees 请求体与离线工具使用的名单文件格式相同
func (h *Handler) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := roster.Decode(h.body(r))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	params, err := scheduler.ParametersFromConfig(&h.config.Scheduler)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateRoster(employees, params.Days, params.Shifts); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ImportEmployees(employees); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "导入员工名单成功", employees)
}
