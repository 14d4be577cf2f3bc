package email

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/hiloazul/tailor-api/internal/config"
)

type Service interface {
	SendDeadlineReminder(ctx context.Context, to, customerName, ticketNumber string, deadline time.Time) error
	SendOrderReady(ctx context.Context, to, customerName, ticketNumber string) error
	SendCustom(ctx context.Context, to, subject, body string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendDeadlineReminder(ctx context.Context, to, customerName, ticketNumber string, deadline time.Time) error {
	subject := fmt.Sprintf("Your order %s is due %s", ticketNumber, deadline.Format("Monday, 2 January"))
	body := fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder that your order %s is committed for %s. "+
			"We look forward to seeing you.\n",
		customerName, ticketNumber, deadline.Format("Monday, 2 January 15:04"),
	)
	return s.send(to, subject, body)
}

func (s *smtpService) SendOrderReady(ctx context.Context, to, customerName, ticketNumber string) error {
	subject := fmt.Sprintf("Your order %s is ready for pickup", ticketNumber)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour order %s is ready. You can pick it up during our opening hours.\n",
		customerName, ticketNumber,
	)
	return s.send(to, subject, body)
}

func (s *smtpService) SendCustom(ctx context.Context, to, subject, body string) error {
	return s.send(to, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
