package services

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/rpupo63/portfolio-blog/errs"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier mails notifications as plain text.
type SMTPNotifier struct {
	from       string
	recipients []string
	dialer     mailSender
}

func NewSMTPNotifier(cfg SMTPConfig, recipients []string) *SMTPNotifier {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPNotifier{
		from:       from,
		recipients: recipients,
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, subject, body string) error {
	if len(n.recipients) == 0 {
		return errs.NewNotificationError("smtp", fmt.Errorf("at least one recipient is required"))
	}
	if err := ctx.Err(); err != nil {
		return errs.NewNotificationError("smtp", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return errs.NewNotificationError("smtp", err)
	}
	return nil
}
