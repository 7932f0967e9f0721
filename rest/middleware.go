package rest

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/luminos-labs/accountd"
)

// accountLocalsKey is where the authenticated account lands on the request.
const accountLocalsKey = "account"

// RequireAuth verifies the bearer session token and loads the account it was
// issued for. Missing header, bad token, and vanished account all collapse
// into the same 401 so the middleware reveals nothing about which check
// failed.
func RequireAuth(tokens accountd.TokenService, store accountd.AccountStore, logger accountd.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			logger.Warn("Missing or invalid authorization header")
			return accountd.Unauthorized("No token provided or invalid token format")
		}

		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		accountID, err := tokens.VerifySessionToken(raw)
		if err != nil {
			logger.Warn("Session token verification failed: %v", err)
			return accountd.Unauthorized("Unauthorized")
		}

		account, err := store.FindByID(c.Context(), accountID)
		if err != nil {
			logger.Warn("Session account lookup failed for %s: %v", accountID, err)
			return accountd.Unauthorized("Unauthorized")
		}

		c.Locals(accountLocalsKey, account)
		return c.Next()
	}
}

// AccountFromContext returns the account stored by RequireAuth, if any.
func AccountFromContext(c *fiber.Ctx) (*accountd.Account, bool) {
	account, ok := c.Locals(accountLocalsKey).(*accountd.Account)
	return account, ok
}

// RequestLogger tags each request with an id and logs method, path, status,
// and duration.
func RequestLogger(logger accountd.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := uuid.NewString()
		c.Set("X-Request-ID", requestID)

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		logger.Info("%s %s -> %d (%s) rid=%s", c.Method(), c.Path(), status, time.Since(start), requestID)
		return err
	}
}
