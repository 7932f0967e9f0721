package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/luminos-labs/accountd"
)

// UserController serves the authenticated current-user endpoint.
type UserController struct {
	Logger accountd.Logger
}

// NewUserController returns a controller for user endpoints.
func NewUserController(logger accountd.Logger) *UserController {
	return &UserController{Logger: logger}
}

// RegisterRoutes mounts the user endpoints behind the auth middleware.
func (u *UserController) RegisterRoutes(r fiber.Router, authRequired fiber.Handler) {
	r.Get("/users", authRequired, u.GetUser)
}

func (u *UserController) GetUser(c *fiber.Ctx) error {
	account, ok := AccountFromContext(c)
	if !ok {
		return accountd.Unauthorized("Unauthorized")
	}

	return c.JSON(fiber.Map{"user": account})
}
