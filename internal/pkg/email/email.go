package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/rkmmedclinic/clinic-backend-go/internal/config"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// subjects per template key
var subjects = map[notification.TemplateKey]string{
	notification.TemplateLeaveRequestSubmitted: "New leave request awaiting review",
	notification.TemplateLeaveRequestApproved:  "Your leave request has been approved",
	notification.TemplateLeaveRequestRejected:  "Your leave request has been rejected",
	notification.TemplateLeaveRequestCancelled: "Leave request cancelled",
}

type smtpNotifier struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewSMTPNotifier creates a notification.Notifier that renders embedded HTML
// templates and delivers them over SMTP.
func NewSMTPNotifier(cfg config.SMTPConfig) (notification.Notifier, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &smtpNotifier{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

func (s *smtpNotifier) Send(ctx context.Context, recipients []string, key notification.TemplateKey, data map[string]string) error {
	subject, ok := subjects[key]
	if !ok {
		return fmt.Errorf("unknown notification template %q", key)
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, string(key)+".html", data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", key, err)
	}

	var lastErr error
	for _, to := range recipients {
		if err := s.sendHTML(to, subject, body.String()); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (s *smtpNotifier) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
