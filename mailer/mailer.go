// Package mailer implements the notification sender over SMTP. Messages
// mirror the activation and reset flows: a link into the app plus the raw
// token for copy-paste.
package mailer

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	mail "github.com/wneessen/go-mail"

	"github.com/luminos-labs/accountd"
)

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppURL   string
}

// SMTPSender sends lifecycle emails through a long-lived SMTP client built
// once at startup and reused across requests.
type SMTPSender struct {
	client *mail.Client
	from   string
	appURL string
	logger accountd.Logger
}

// NewSMTPSender builds the sender and its transport client.
func NewSMTPSender(cfg Config, logger accountd.Logger) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build smtp client")
	}

	return &SMTPSender{
		client: client,
		from:   cfg.From,
		appURL: cfg.AppURL,
		logger: logger,
	}, nil
}

// SendActivationEmail delivers the account activation message.
func (s *SMTPSender) SendActivationEmail(ctx context.Context, email, name, token string) error {
	activationURL := fmt.Sprintf("%s/activate?token=%s", s.appURL, token)

	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome, %s!</h2>
  <p>Thank you for signing up. Please activate your account by clicking the link below:</p>
  <p style="text-align: center; margin: 30px 0;"><a href="%s">Activate Account</a></p>
  <p>Or copy and paste this activation token:</p>
  <p style="background-color: #f4f4f4; padding: 10px; text-align: center;"><code>%s</code></p>
  <p>If you didn't sign up for this account, you can safely ignore this email.</p>
</div>`, name, activationURL, token)

	if err := s.send(ctx, email, "Activate Your Account", body); err != nil {
		s.logger.Error("Failed to send activation email to %s: %v", email, err)
		return err
	}

	s.logger.Info("Activation email sent to %s", email)
	return nil
}

// SendPasswordResetEmail delivers the password reset message.
func (s *SMTPSender) SendPasswordResetEmail(ctx context.Context, email, name, token string, expiresInMinutes int) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)

	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hello, %s</h2>
  <p>We received a request to reset your password. Click the link below to create a new password:</p>
  <p style="text-align: center; margin: 30px 0;"><a href="%s">Reset Password</a></p>
  <p>Or copy and paste this reset token:</p>
  <p style="background-color: #f4f4f4; padding: 10px; text-align: center;"><code>%s</code></p>
  <p><strong>Please note:</strong> This link will expire in %d minutes.</p>
  <p>If you didn't request a password reset, you can safely ignore this email. Your password will remain unchanged.</p>
</div>`, name, resetURL, token, expiresInMinutes)

	if err := s.send(ctx, email, "Reset Your Password", body); err != nil {
		s.logger.Error("Failed to send password reset email to %s: %v", email, err)
		return err
	}

	s.logger.Info("Password reset email sent to %s", email)
	return nil
}

func (s *SMTPSender) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "invalid sender address")
	}
	if err := msg.To(to); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid recipient address")
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp delivery failed")
	}

	return nil
}

// LogSender is a development stand-in that prints tokens instead of sending
// mail. Used when no SMTP host is configured.
type LogSender struct {
	Logger accountd.Logger
	AppURL string
}

// SendActivationEmail logs the activation link.
func (l LogSender) SendActivationEmail(_ context.Context, email, name, token string) error {
	l.Logger.Info("activation email for %s (%s): %s/activate?token=%s", email, name, l.AppURL, token)
	return nil
}

// SendPasswordResetEmail logs the reset link.
func (l LogSender) SendPasswordResetEmail(_ context.Context, email, name, token string, expiresInMinutes int) error {
	l.Logger.Info("password reset email for %s (%s), valid %dm: %s/reset-password?token=%s",
		email, name, expiresInMinutes, l.AppURL, token)
	return nil
}
