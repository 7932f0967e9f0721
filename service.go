package accountd

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// defaultResetTokenTTL is the validity window for password reset tokens.
const defaultResetTokenTTL = 30 * time.Minute

// AccountService orchestrates the account lifecycle:
// register -> activate -> login, plus the forgot/reset password flow.
// All collaborators are injected; nothing here touches the wire.
type AccountService struct {
	store         AccountStore
	hasher        PasswordAuthenticator
	tokens        TokenService
	sender        NotificationSender
	logger        Logger
	resetTokenTTL time.Duration
	now           func() time.Time
}

// NewAccountService creates a service with sane defaults.
func NewAccountService(store AccountStore, hasher PasswordAuthenticator, tokens TokenService, sender NotificationSender) *AccountService {
	return &AccountService{
		store:         store,
		hasher:        hasher,
		tokens:        tokens,
		sender:        sender,
		logger:        defLogger{},
		resetTokenTTL: defaultResetTokenTTL,
		now:           time.Now,
	}
}

// WithLogger overrides the logger used by the service.
func (s *AccountService) WithLogger(logger Logger) *AccountService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithResetTokenTTL overrides the reset token validity window.
func (s *AccountService) WithResetTokenTTL(ttl time.Duration) *AccountService {
	if ttl > 0 {
		s.resetTokenTTL = ttl
	}
	return s
}

// WithClock injects a custom clock (useful for tests).
func (s *AccountService) WithClock(clock func() time.Time) *AccountService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// Register creates a pending account and sends the activation email. The
// account is persisted before the notification goes out; a failed send does
// not roll the account back.
func (s *AccountService) Register(ctx context.Context, name, email, password string, role Role) (*Account, error) {
	if role == "" {
		role = RoleUser
	}

	activationToken, err := s.tokens.GenerateOpaqueToken()
	if err != nil {
		return nil, WrapInternal(err, "unable to create user")
	}

	// Hashing is an explicit step here, not a store hook: the hash is set
	// exactly when the password field is, on create and on reset.
	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, WrapInternal(err, "unable to create user")
	}

	account := &Account{
		Name:            name,
		Email:           email,
		PasswordHash:    hash,
		Role:            role,
		IsActive:        false,
		ActivationToken: &activationToken,
	}

	created, err := s.store.Create(ctx, account)
	if err != nil {
		if isConflict(err) {
			return nil, Conflict("User with this email already exists")
		}
		s.logger.Error("Register create error: %v", err)
		return nil, WrapInternal(err, "unable to create user")
	}

	if err := s.sender.SendActivationEmail(ctx, created.Email, created.Name, activationToken); err != nil {
		s.logger.Error("Register activation email error for %s: %v", created.Email, err)
		return nil, WrapInternal(err, "unable to send activation email")
	}

	s.logger.Info("User %s registered successfully, activation email sent", created.Email)
	return created, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password produce the identical error; the activation check runs
// strictly after the password proves out, so an attacker cannot probe for
// inactive accounts without knowing the password.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			s.logger.Warn("Login attempt failed: no account for %s", email)
			return "", ErrInvalidCredentials
		}
		s.logger.Error("Login lookup error: %v", err)
		return "", WrapInternal(err, "unable to login")
	}

	if err := s.hasher.ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			s.logger.Warn("Login attempt failed: invalid password for %s", email)
			return "", ErrInvalidCredentials
		}
		s.logger.Error("Login hash comparison error: %v", err)
		return "", WrapInternal(err, "unable to login")
	}

	if !account.IsActive {
		s.logger.Warn("Login attempt failed: account %s is not activated", email)
		return "", ErrAccountNotActive
	}

	token, err := s.tokens.IssueSessionToken(account.ID.Hex())
	if err != nil {
		s.logger.Error("Login token issue error: %v", err)
		return "", WrapInternal(err, "unable to login")
	}

	return token, nil
}

// Activate flips a pending account to active and consumes the activation
// token. A consumed or never-issued token fails identically.
func (s *AccountService) Activate(ctx context.Context, activationToken string) (*Account, error) {
	account, err := s.store.FindByActivationToken(ctx, activationToken)
	if err != nil {
		if goerrors.IsNotFound(err) {
			s.logger.Warn("Activation failed: invalid token")
			return nil, NotFound("Invalid activation token")
		}
		s.logger.Error("Activation lookup error: %v", err)
		return nil, WrapInternal(err, "unable to activate account")
	}

	account.IsActive = true
	account.ActivationToken = nil

	saved, err := s.store.Save(ctx, account)
	if err != nil {
		s.logger.Error("Activation save error: %v", err)
		return nil, WrapInternal(err, "unable to activate account")
	}

	s.logger.Info("User %s activated successfully", saved.Email)
	return saved, nil
}

// ResendActivation issues a fresh activation token for a pending account and
// resends the email. The previous token becomes permanently invalid.
func (s *AccountService) ResendActivation(ctx context.Context, email string) error {
	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return NotFound("User not found")
		}
		s.logger.Error("Resend activation lookup error: %v", err)
		return WrapInternal(err, "unable to resend activation email")
	}

	if account.IsActive {
		return Conflict("Account is already activated")
	}

	activationToken, err := s.tokens.GenerateOpaqueToken()
	if err != nil {
		return WrapInternal(err, "unable to resend activation email")
	}

	account.ActivationToken = &activationToken
	if _, err := s.store.Save(ctx, account); err != nil {
		s.logger.Error("Resend activation save error: %v", err)
		return WrapInternal(err, "unable to resend activation email")
	}

	if err := s.sender.SendActivationEmail(ctx, account.Email, account.Name, activationToken); err != nil {
		s.logger.Error("Resend activation email error for %s: %v", account.Email, err)
		return WrapInternal(err, "unable to resend activation email")
	}

	s.logger.Info("Activation email resent to %s", email)
	return nil
}

// ForgotPassword starts the reset flow. An unknown email succeeds silently
// with no side effect so the endpoint cannot be used to enumerate accounts.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			s.logger.Warn("Forgot password requested for unknown email: %s", email)
			return nil
		}
		s.logger.Error("Forgot password lookup error: %v", err)
		return WrapInternal(err, "unable to process forgot password request")
	}

	resetToken, err := s.tokens.GenerateOpaqueToken()
	if err != nil {
		return WrapInternal(err, "unable to process forgot password request")
	}

	expires := s.now().Add(s.resetTokenTTL)
	account.ResetPasswordToken = &resetToken
	account.ResetPasswordExpires = &expires

	if _, err := s.store.Save(ctx, account); err != nil {
		s.logger.Error("Forgot password save error: %v", err)
		return WrapInternal(err, "unable to process forgot password request")
	}

	expiresInMinutes := int(s.resetTokenTTL.Minutes())
	if err := s.sender.SendPasswordResetEmail(ctx, account.Email, account.Name, resetToken, expiresInMinutes); err != nil {
		s.logger.Error("Forgot password email error for %s: %v", account.Email, err)
		return WrapInternal(err, "unable to process forgot password request")
	}

	s.logger.Info("Password reset email sent to %s", email)
	return nil
}

// ResetPassword replaces the password for the account holding a live reset
// token. The expiry filter runs in the store query, so an expired token
// fails exactly like an unknown one. Token and expiry clear together.
func (s *AccountService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	account, err := s.store.FindByResetToken(ctx, resetToken, s.now())
	if err != nil {
		if goerrors.IsNotFound(err) {
			s.logger.Warn("Password reset failed: invalid or expired token")
			return BadRequest("Password reset token is invalid or has expired")
		}
		s.logger.Error("Password reset lookup error: %v", err)
		return WrapInternal(err, "unable to reset password")
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return WrapInternal(err, "unable to reset password")
	}

	account.PasswordHash = hash
	account.ResetPasswordToken = nil
	account.ResetPasswordExpires = nil

	if _, err := s.store.Save(ctx, account); err != nil {
		s.logger.Error("Password reset save error: %v", err)
		return WrapInternal(err, "unable to reset password")
	}

	s.logger.Info("Password reset successful for user %s", account.Email)
	return nil
}

func isConflict(err error) bool {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Category == goerrors.CategoryConflict
	}
	return false
}
