package mail

import (
	"context"
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = user
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// Send delivers a plain-text email over SMTP. Without a configured host the
// message is only logged, which is what local development runs use.
func (s *EmailSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.Host == "" {
		log.Printf("[MAIL] (stub) to=%s subject=%q body=%q", to, subject, preview(body))
		return nil
	}

	m := s.buildMessage(to, subject, body)
	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

func (s *EmailSender) buildMessage(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

func preview(body string) string {
	r := []rune(body)
	if len(r) <= 50 {
		return body
	}
	return string(r[:50]) + "..."
}
