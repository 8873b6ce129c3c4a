package utils

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// MailConfig is the SMTP account used for outgoing mail.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Mailer sends a single message. Tests swap DefaultMailer for a recorder.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	cfg MailConfig
}

func NewSMTPMailer(cfg MailConfig) Mailer {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	if m.cfg.Host == "" || m.cfg.User == "" || m.cfg.Password == "" {
		return errors.New("SMTP config not set")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

var DefaultMailer Mailer = NewSMTPMailer(MailConfig{})

func SendOTPEmail(to, otp string) error {
	return DefaultMailer.Send(to, "Your verification code", fmt.Sprintf("Your verification code is: %s", otp))
}
