package main

import (
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

var templateDir = "./templates"

type mailTemplate struct {
	file    string
	subject string
}

var mailTemplates = map[string]mailTemplate{
	domain.MailTypeScheduleGenerated: {
		file:    "schedule_generated_email.html",
		subject: "ECNC 排班系统 - 本周排班已生成",
	},
	domain.MailTypeEmployeeSchedule: {
		file:    "employee_schedule_email.html",
		subject: "ECNC 排班系统 - 您的本周班次",
	},
}

func loadTemplate(mailType string) (*template.Template, string, error) {
	mt, ok := mailTemplates[mailType]
	if !ok {
		return nil, "", fmt.Errorf("不支持的邮件类型 %q", mailType)
	}

	tmpl, err := template.ParseFiles(filepath.Join(templateDir, mt.file))
	if err != nil {
		return nil, "", err
	}

	return tmpl, mt.subject, nil
}

func setBody(m *mail.Msg, mailMessage domain.MailMessage) error {
	tmpl, subject, err := loadTemplate(mailMessage.Type)
	if err != nil {
		return err
	}
	if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
		return err
	}
	m.Subject(subject)

	return nil
}
