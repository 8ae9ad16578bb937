// AngelaMos | 2026
// mailer.go

package mailer

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/carterperez-dev/bookit/internal/config"
)

// Mailer delivers account mail over SMTP. With Enabled false it logs
// the would-be delivery and succeeds, which keeps development and test
// environments free of SMTP dependencies.
type Mailer struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
	cfg    config.EmailConfig
}

func New(cfg config.EmailConfig, logger *slog.Logger) (*Mailer, error) {
	m := &Mailer{
		from:   cfg.From,
		logger: logger.With("component", "mailer"),
		cfg:    cfg,
	}

	if !cfg.Enabled {
		return m, nil
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(gomail.DefaultTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}

	m.client = client
	return m, nil
}

func (m *Mailer) SendWelcome(ctx context.Context, to, name string) error {
	subject := "Welcome to Bookit!"
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to Bookit, we're glad to have you.\n\n"+
			"Start exploring tours right away.\n",
		name,
	)
	return m.send(ctx, to, subject, body)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	subject := "Your password reset token (valid for 10 minutes)"
	body := fmt.Sprintf(
		"Forgot your password? Submit a PATCH request with your new "+
			"password and passwordConfirm to:\n\n%s\n\n"+
			"If you didn't forget your password, please ignore this email.\n",
		resetURL,
	)
	return m.send(ctx, to, subject, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	if m.client == nil {
		m.logger.Info("mail delivery disabled, skipping",
			"to", to, "subject", subject)
		return nil
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("mail sent", "to", to, "subject", subject)
	return nil
}
