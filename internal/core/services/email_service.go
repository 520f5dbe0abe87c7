package services

import (
	"fmt"
	"log"
	"time"

	mail "github.com/go-mail/mail/v2"

	"openshelf/internal/config"
)

// EmailService sends borrower notifications over SMTP. When SMTP is not
// configured the service stays constructible and every send is skipped
// with a warning, so the loan flow never depends on mail settings.
type EmailService struct {
	cfg     config.SMTPConfig
	enabled bool
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.SMTPConfig) *EmailService {
	enabled := cfg.IsConfigured()
	if !enabled {
		log.Println("⚠️ SMTP not configured, email notifications disabled")
	}
	return &EmailService{
		cfg:     cfg,
		enabled: enabled,
	}
}

// IsEnabled checks if mail delivery is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// send delivers one message through the configured SMTP relay
func (s *EmailService) send(to, subject, body string) error {
	if !s.enabled {
		log.Printf("⚠️ Email skipped (SMTP not configured): %q to %s", subject, to)
		return nil
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.Timeout = 10 * time.Second

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	return nil
}

// NotifyBookReturned tells a borrower their return was recorded
func (s *EmailService) NotifyBookReturned(email, username, bookTitle string, returnedAt time.Time) error {
	subject := fmt.Sprintf("Return confirmed: %s", bookTitle)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour return of %q was recorded on %s. Thanks for bringing it back!\n\n— OpenShelf",
		username,
		bookTitle,
		returnedAt.Format("2006-01-02"),
	)

	return s.send(email, subject, body)
}

// NotifyLoanOverdue reminds a borrower about an open loan past its due date
func (s *EmailService) NotifyLoanOverdue(email, username, bookTitle string, dueDate time.Time) error {
	subject := fmt.Sprintf("Overdue reminder: %s", bookTitle)
	body := fmt.Sprintf(
		"Hi %s,\n\n%q was due on %s and is still checked out to you. Please return it at your earliest convenience.\n\n— OpenShelf",
		username,
		bookTitle,
		dueDate.Format("2006-01-02"),
	)

	return s.send(email, subject, body)
}
