// Package rest exposes the account lifecycle over fiber: the auth and user
// controllers, the bearer-token middleware, and the boundary error handler
// that translates every failure into the {status, message, code} envelope.
package rest

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/luminos-labs/accountd"
)

// AccountLifecycle is the slice of the domain service the controllers need.
type AccountLifecycle interface {
	Register(ctx context.Context, name, email, password string, role accountd.Role) (*accountd.Account, error)
	Login(ctx context.Context, email, password string) (string, error)
	Activate(ctx context.Context, activationToken string) (*accountd.Account, error)
	ResendActivation(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

// AuthController handles the account lifecycle endpoints.
type AuthController struct {
	Service AccountLifecycle
	Logger  accountd.Logger
}

// NewAuthController wires a controller around the lifecycle service.
func NewAuthController(service AccountLifecycle, logger accountd.Logger) *AuthController {
	return &AuthController{Service: service, Logger: logger}
}

// RegisterRoutes mounts the auth endpoints under the given router.
func (a *AuthController) RegisterRoutes(r fiber.Router) {
	grp := r.Group("/auth")
	grp.Post("/register", a.Register)
	grp.Post("/login", a.Login)
	grp.Post("/activate", a.Activate)
	grp.Post("/resend-activation", a.ResendActivation)
	grp.Post("/forgot-password", a.ForgotPassword)
	grp.Post("/reset-password", a.ResetPassword)
}

func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterRequest)
	if err := c.BodyParser(payload); err != nil {
		return accountd.BadRequest("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return accountd.ValidationFailed(FormatValidationErrorToMap(err))
	}

	if _, err := a.Service.Register(c.Context(), payload.Name, payload.Email, payload.Password, payload.Role); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully. Please check your email to activate your account.",
	})
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := c.BodyParser(payload); err != nil {
		return accountd.BadRequest("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return accountd.ValidationFailed(FormatValidationErrorToMap(err))
	}

	token, err := a.Service.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"token": token})
}

func (a *AuthController) Activate(c *fiber.Ctx) error {
	payload := new(ActivateRequest)
	if err := c.BodyParser(payload); err != nil {
		return accountd.BadRequest("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return accountd.ValidationFailed(FormatValidationErrorToMap(err))
	}

	account, err := a.Service.Activate(c.Context(), payload.Token)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Account activated successfully",
		"user": fiber.Map{
			"id":       account.ID.Hex(),
			"name":     account.Name,
			"email":    account.Email,
			"role":     account.Role,
			"isActive": account.IsActive,
		},
	})
}

func (a *AuthController) ResendActivation(c *fiber.Ctx) error {
	payload := new(EmailRequest)
	if err := c.BodyParser(payload); err != nil {
		return accountd.BadRequest("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return accountd.ValidationFailed(FormatValidationErrorToMap(err))
	}

	if err := a.Service.ResendActivation(c.Context(), payload.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Activation email sent successfully"})
}

func (a *AuthController) ForgotPassword(c *fiber.Ctx) error {
	payload := new(EmailRequest)
	if err := c.BodyParser(payload); err != nil {
		return accountd.BadRequest("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return accountd.ValidationFailed(FormatValidationErrorToMap(err))
	}

	if err := a.Service.ForgotPassword(c.Context(), payload.Email); err != nil {
		return err
	}

	// Same response whether or not the email exists.
	return c.JSON(fiber.Map{
		"message": "If your email is registered in our system, you will receive password reset instructions shortly.",
	})
}

func (a *AuthController) ResetPassword(c *fiber.Ctx) error {
	payload := new(ResetPasswordRequest)
	if err := c.BodyParser(payload); err != nil {
		return accountd.BadRequest("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return accountd.ValidationFailed(FormatValidationErrorToMap(err))
	}

	if err := a.Service.ResetPassword(c.Context(), payload.Token, payload.Password); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Password has been reset successfully. You can now log in with your new password.",
	})
}
