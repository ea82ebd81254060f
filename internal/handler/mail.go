package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// 邮件统一投递到 email_queue，由 cmd/mail 消费
func (h *Handler) publishMail(msg domain.MailMessage) error {
	mailData, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

func scheduleGeneratedMail(fullName, to string, result *domain.ScheduleResult, employeeCount int) domain.MailMessage {
	violations := make([]string, 0, len(result.Violations))
	for _, v := range result.Violations {
		violations = append(violations, v.Message)
	}

	return domain.MailMessage{
		Type: domain.MailTypeScheduleGenerated,
		To:   to,
		Data: domain.ScheduleGeneratedMailData{
			FullName:       fullName,
			RunID:          result.RunID,
			EmployeeCount:  employeeCount,
			ViolationCount: len(result.Violations),
			Violations:     violations,
		},
	}
}

func employeeScheduleMail(e *domain.Employee, result *domain.ScheduleResult, days []domain.Day) domain.MailMessage {
	shifts := make([]domain.EmployeeScheduleMailShift, 0, len(e.AssignedShifts))
	for _, day := range days {
		if shift, exists := e.AssignedShifts[day]; exists {
			shifts = append(shifts, domain.EmployeeScheduleMailShift{
				Day:   day,
				Shift: shift,
			})
		}
	}

	return domain.MailMessage{
		Type: domain.MailTypeEmployeeSchedule,
		To:   e.Email,
		Data: domain.EmployeeScheduleMailData{
			Name:        e.Name,
			RunID:       result.RunID,
			WorkingDays: e.WorkingDays,
			Shifts:      shifts,
		},
	}
}

func (h *Handler) notifySchedule(result *domain.ScheduleResult, employees []*domain.Employee, days []domain.Day) error {
	admin := h.config.InitialAdmin
	if err := h.publishMail(scheduleGeneratedMail(admin.FullName, admin.Email, result, len(employees))); err != nil {
		return fmt.Errorf("发送排班完成通知失败: %w", err)
	}

	for _, e := range employees {
		if e.Email == "" {
			continue
		}
		if err := h.publishMail(employeeScheduleMail(e, result, days)); err != nil {
			return fmt.Errorf("发送 %s 的排班通知失败: %w", e.Name, err)
		}
	}

	return nil
}
