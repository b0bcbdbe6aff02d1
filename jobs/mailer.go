package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	addr          string
	from          string
	resetLinkBase string
	logger        *slog.Logger
}

// MailerConfig collects SMTP settings.
type MailerConfig struct {
	Host          string
	Port          int
	From          string
	ResetLinkBase string
	Logger        *slog.Logger
}

// NewMailer constructs a Mailer.
func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{
		addr:          fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:          cfg.From,
		resetLinkBase: cfg.ResetLinkBase,
		logger:        cfg.Logger,
	}
}

// HandlePasswordResetEmail processes TaskTypePasswordResetEmail tasks.
func (m *Mailer) HandlePasswordResetEmail(ctx context.Context, t *asynq.Task) error {
	var payload PasswordResetEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	link := payload.Token
	if m.resetLinkBase != "" {
		link = m.resetLinkBase + "?token=" + payload.Token
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", payload.To)
	msg.WriteString("Subject: Password reset request\r\n")
	msg.WriteString("\r\n")
	msg.WriteString("A password reset was requested for your account.\r\n\r\n")
	fmt.Fprintf(&msg, "Reset link: %s\r\n\r\n", link)
	msg.WriteString("The link expires shortly. If you did not request this, ignore this message.\r\n")

	if err := smtp.SendMail(m.addr, nil, m.from, []string{payload.To}, []byte(msg.String())); err != nil {
		if m.logger != nil {
			m.logger.Error("send password reset mail", slog.Any("error", err))
		}
		return err
	}
	return nil
}
