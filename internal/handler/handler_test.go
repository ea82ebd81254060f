package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

const testSecret = "test-secret"

// 这些用例都在访问数据库、redis 和消息队列之前返回
func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.JWT.Expiration = 1
	cfg.Scheduler = config.SchedulerConfig{
		TargetStaffing:       2,
		MaxDaysPerWeek:       5,
		Days:                 []string{"Monday", "Tuesday"},
		Shifts:               []string{"Morning", "Evening"},
		MaxFillSweeps:        20,
		MaxFinalFillAttempts: 50,
	}

	h, err := NewHandler(cfg, nil, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()

	return h
}

func signedToken(t *testing.T, managerID int64) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Subject:   strconv.FormatInt(managerID, 10),
		},
	})
	ss, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	return ss
}

func serve(t *testing.T, h *Handler, req *http.Request) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return rec, resp
}

func authedRequest(t *testing.T, method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "__ecnc_shift_roster_token", Value: signedToken(t, 1)})
	return req
}

func TestLoginRejectsMissingFields(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin"}`))
	rec, resp := serve(t, h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Password")
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":`))
	_, resp := serve(t, h, req)

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestLogoutExpiresCookie(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec, resp := serve(t, h, req)

	assert.True(t, resp.Success)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "__ecnc_shift_roster_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].Expires.Before(time.Now()))
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestHandler(t)

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		_, resp := serve(t, h, req)
		assert.False(t, resp.Success)
		assert.Equal(t, "用户未登录", resp.Message)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		req.AddCookie(&http.Cookie{Name: "__ecnc_shift_roster_token", Value: "garbage"})
		_, resp := serve(t, h, req)
		assert.False(t, resp.Success)
		assert.Equal(t, "无效的令牌", resp.Message)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
		})
		ss, err := token.SignedString([]byte("another-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		req.AddCookie(&http.Cookie{Name: "__ecnc_shift_roster_token", Value: ss})
		_, resp := serve(t, h, req)
		assert.Equal(t, "无效的令牌", resp.Message)
	})
}

func TestResourceIDMustBeNumeric(t *testing.T) {
	h := newTestHandler(t)

	_, resp := serve(t, h, authedRequest(t, http.MethodGet, "/employees/abc", ""))
	assert.False(t, resp.Success)
	assert.Equal(t, "员工ID无效", resp.Message)

	_, resp = serve(t, h, authedRequest(t, http.MethodGet, "/schedules/abc", ""))
	assert.False(t, resp.Success)
	assert.Equal(t, "排班结果ID无效", resp.Message)
}

func TestGenerateScheduleRejectsInvalidOverrides(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"negative target", `{"targetStaffing": -1}`},
		{"too many days", `{"maxDaysPerWeek": 8}`},
		{"zero sweeps", `{"maxFillSweeps": 0}`},
		{"wrong type", `{"maxFinalFillAttempts": "many"}`},
		{"malformed", `{"targetStaffing":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp := serve(t, h, authedRequest(t, http.MethodPost, "/schedules/generate", tt.body))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestCreateEmployeeRejectsInvalidInput(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email": "a@example.com"}`},
		{"bad email", `{"name": "Alice", "email": "not-an-email"}`},
		{"unknown day", `{"name": "Alice", "preferences": [{"day": "Friday", "shift": "Morning"}]}`},
		{"unknown shift", `{"name": "Alice", "preferences": [{"day": "Monday", "shift": "Night"}]}`},
		{"empty shift", `{"name": "Alice", "preferences": [{"day": "Monday", "shift": ""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp := serve(t, h, authedRequest(t, http.MethodPost, "/employees", tt.body))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestImportEmployeesRejectsInvalidRoster(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing employees", `{"staff": {}}`},
		{"unknown day", `{"employees": {"Alice": {"Sunday": "Morning"}}}`},
		{"unknown shift", `{"employees": {"Alice": {"Monday": "Afternoon"}}}`},
		{"malformed", `{"employees": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp := serve(t, h, authedRequest(t, http.MethodPost, "/employees/import", tt.body))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestEmployeeScheduleMailFollowsDayOrder(t *testing.T) {
	e := domain.NewEmployee("Alice")
	e.Email = "alice@example.com"
	e.Assign(domain.Wednesday, domain.ShiftEvening)
	e.Assign(domain.Monday, domain.ShiftMorning)

	result := &domain.ScheduleResult{RunID: "run-1"}
	msg := employeeScheduleMail(e, result, domain.Weekdays())

	assert.Equal(t, domain.MailTypeEmployeeSchedule, msg.Type)
	assert.Equal(t, "alice@example.com", msg.To)

	data := msg.Data.(domain.EmployeeScheduleMailData)
	assert.Equal(t, "run-1", data.RunID)
	assert.Equal(t, 2, data.WorkingDays)
	assert.Equal(t, []domain.EmployeeScheduleMailShift{
		{Day: domain.Monday, Shift: domain.ShiftMorning},
		{Day: domain.Wednesday, Shift: domain.ShiftEvening},
	}, data.Shifts)
}

func TestScheduleGeneratedMail(t *testing.T) {
	result := &domain.ScheduleResult{
		RunID: "run-2",
		Violations: []domain.Violation{
			{Kind: domain.ViolationStaffing, Message: "Monday Morning 有 1 名员工，应为 2 名"},
		},
	}

	msg := scheduleGeneratedMail("管理员", "admin@example.com", result, 3)
	assert.Equal(t, domain.MailTypeScheduleGenerated, msg.Type)

	data := msg.Data.(domain.ScheduleGeneratedMailData)
	assert.Equal(t, "管理员", data.FullName)
	assert.Equal(t, 3, data.EmployeeCount)
	assert.Equal(t, 1, data.ViolationCount)
	assert.Equal(t, []string{"Monday Morning 有 1 名员工，应为 2 名"}, data.Violations)
}
