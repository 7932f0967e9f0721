package accountd

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// AccountStore is the persistence boundary consumed by the lifecycle
// service. Lookups return a rich NotFound error when nothing matches;
// FindByResetToken applies the expiry filter at query time so an expired
// token is indistinguishable from an absent one.
type AccountStore interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByActivationToken(ctx context.Context, token string) (*Account, error)
	FindByResetToken(ctx context.Context, token string, now time.Time) (*Account, error)
	Save(ctx context.Context, account *Account) (*Account, error)
}

// NotificationSender delivers lifecycle emails. Send failures never roll
// back the persistence step that preceded them.
type NotificationSender interface {
	SendActivationEmail(ctx context.Context, email, name, token string) error
	SendPasswordResetEmail(ctx context.Context, email, name, token string, expiresInMinutes int) error
}

// TokenService signs and verifies bearer session tokens and generates the
// opaque tokens used for activation and password reset.
type TokenService interface {
	IssueSessionToken(accountID string) (string, error)
	VerifySessionToken(token string) (string, error)
	GenerateOpaqueToken() (string, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
