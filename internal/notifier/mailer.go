package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/gameswap/gameswap/internal/config"
)

// Mailer hands a single notification to the outbound mail gateway and
// returns the gateway's message identifier.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// SMTPMailer delivers mail over SMTP using go-mail.
type SMTPMailer struct {
	cfg    config.SMTP
	client *mail.Client
}

// NewSMTPMailer builds a mailer with one reusable SMTP client.
func NewSMTPMailer(cfg config.SMTP) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}
	return &SMTPMailer{cfg: cfg, client: client}, nil
}

// Send delivers one message. Errors are returned to the caller, which
// decides whether the failure affects other recipients.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) (string, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	msg.SetMessageID()

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("send to %s: %w", to, err)
	}
	return msg.GetMessageID(), nil
}

// LogMailer writes mail to the structured logger instead of sending it.
// Used in dev mode when no SMTP gateway is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a logging mailer stub.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message and returns a synthetic message id.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) (string, error) {
	id := uuid.NewString()
	m.logger.Info("mail",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
		slog.String("message_id", id),
	)
	return id, nil
}
