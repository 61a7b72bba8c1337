package mailer

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/utils"
)

// Client sends a single message through the configured SMTP gateway.
// Delivery is synchronous and fire-and-forget: no retries, no queue.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
}

type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		Host:      utils.GetEnv("SMTP_HOST", "localhost", log),
		Port:      utils.GetEnvAsInt("SMTP_PORT", 587, log),
		Username:  utils.GetEnv("SMTP_USERNAME", "", log),
		Password:  utils.GetEnv("SMTP_PASSWORD", "", log),
		FromEmail: utils.GetEnv("SMTP_FROM_EMAIL", "no-reply@patentdesk.local", log),
		FromName:  utils.GetEnv("SMTP_FROM_NAME", "PatentDesk", log),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv(log))
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("missing SMTP_HOST")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	return &client{
		log:    log.With("client", "MailerClient"),
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

type client struct {
	log    *logger.Logger
	cfg    Config
	dialer *gomail.Dialer
}

func (c *client) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("missing recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(c.cfg.FromEmail, c.cfg.FromName))
	if msg.ToName != "" {
		m.SetHeader("To", m.FormatAddress(msg.To, msg.ToName))
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if err := c.dialer.DialAndSend(m); err != nil {
		c.log.Warn("SMTP send failed", "to", msg.To, "subject", msg.Subject, "error", err)
		return err
	}
	c.log.Info("Email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
