package dispatch

import (
	"context"
	"fmt"
	"time"

	"story-wall/shared/models"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// SMTPConfig holds the outgoing mail settings. An empty Host disables sending.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Message is one outgoing email with an optional file attachment.
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentPath string // absolute path on disk
	AttachmentName string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Enabled() bool
}

type smtpMailer struct {
	cfg    SMTPConfig
	dialer *mail.Dialer
	logger *zap.Logger
}

// NewMailer returns an SMTP mailer, or a disabled one when no host is configured.
func NewMailer(cfg SMTPConfig, logger *zap.Logger) Mailer {
	if cfg.Host == "" {
		logger.Warn("SMTP host not set, email delivery disabled")
		return disabledMailer{logger: logger.Named("Mailer")}
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = cfg.Timeout
	if cfg.Username == "" {
		d.StartTLSPolicy = mail.OpportunisticStartTLS
	}
	return &smtpMailer{cfg: cfg, dialer: d, logger: logger.Named("Mailer")}
}

func (m *smtpMailer) Enabled() bool { return true }

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	em := mail.NewMessage()
	em.SetHeader("From", m.cfg.From)
	em.SetHeader("To", msg.To)
	em.SetHeader("Subject", msg.Subject)
	em.SetBody("text/plain", msg.Body)
	if msg.AttachmentPath != "" {
		em.Attach(msg.AttachmentPath,
			mail.Rename(msg.AttachmentName),
			mail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
		)
	}

	if err := m.dialer.DialAndSend(em); err != nil {
		return fmt.Errorf("smtp send to %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	m.logger.Info("Email sent", zap.String("subject", msg.Subject))
	return nil
}

type disabledMailer struct {
	logger *zap.Logger
}

func (d disabledMailer) Enabled() bool { return false }

func (d disabledMailer) Send(_ context.Context, msg Message) error {
	d.logger.Warn("Mailer disabled, message not sent", zap.String("subject", msg.Subject))
	return models.ErrProviderUnconfigured
}
