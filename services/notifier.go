package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-blog/config"
)

// Notifier delivers a short message to the site owner.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// NewNotifier picks a notifier backend from configuration. NOTIFIER wins when
// set; otherwise SMTP is used when SMTP_HOST is present, then Resend when
// RESEND_API_KEY is present, then the log-only notifier.
func NewNotifier(c map[string]string) Notifier {
	recipients := config.GetList(c, "OWNER_EMAIL", nil)

	kind := strings.ToLower(config.GetString(c, "NOTIFIER", ""))
	if kind == "" {
		switch {
		case config.GetString(c, "SMTP_HOST", "") != "":
			kind = "smtp"
		case config.GetString(c, "RESEND_API_KEY", "") != "":
			kind = "resend"
		default:
			kind = "log"
		}
	}

	switch kind {
	case "smtp":
		return NewSMTPNotifier(SMTPConfig{
			Host:     config.GetString(c, "SMTP_HOST", "localhost"),
			Port:     config.GetInt(c, "SMTP_PORT", 587),
			Username: config.GetString(c, "SMTP_USER", ""),
			Password: config.GetString(c, "SMTP_PASSWORD", ""),
			From:     config.GetString(c, "DEFAULT_FROM_EMAIL", ""),
		}, recipients)
	case "resend":
		return NewResendNotifier(
			config.GetString(c, "RESEND_API_KEY", ""),
			config.GetString(c, "RESEND_FROM_EMAIL", ""),
			recipients,
		)
	default:
		if kind != "log" {
			log.Warn().Str("notifier", kind).Msg("Unknown notifier, falling back to log")
		}
		return NewLogNotifier()
	}
}

// LogNotifier writes notifications to the log instead of sending them.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier() LogNotifier {
	return LogNotifier{logger: log.With().Str("service", "LogNotifier").Logger()}
}

func (n LogNotifier) Notify(_ context.Context, subject, body string) error {
	n.logger.Info().Str("subject", subject).Str("body", body).Msg("Notification")
	return nil
}

// AsyncNotifier sends through the wrapped notifier in the background so the
// caller never waits on mail delivery. Failures are logged.
type AsyncNotifier struct {
	next    Notifier
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

func NewAsyncNotifier(next Notifier, timeout time.Duration) *AsyncNotifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AsyncNotifier{
		next:    next,
		timeout: timeout,
		logger:  log.With().Str("service", "AsyncNotifier").Logger(),
	}
}

// Notify always returns nil; delivery errors surface only in the log.
func (n *AsyncNotifier) Notify(ctx context.Context, subject, body string) error {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()
		if err := n.next.Notify(sendCtx, subject, body); err != nil {
			n.logger.Error().Err(err).Str("subject", subject).Msg("Failed to deliver notification")
		}
	}()
	return nil
}

// Close waits for in-flight notifications or for ctx to end.
func (n *AsyncNotifier) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
