package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/luminos-labs/accountd/health"
)

// HealthController serves the health-check endpoint.
type HealthController struct {
	Service *health.Service
}

// NewHealthController returns a controller over the health service.
func NewHealthController(service *health.Service) *HealthController {
	return &HealthController{Service: service}
}

// RegisterRoutes mounts the health endpoint.
func (h *HealthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", h.GetHealth)
}

func (h *HealthController) GetHealth(c *fiber.Ctx) error {
	report := h.Service.GetHealth(c.Context())

	status := fiber.StatusOK
	if !report.Healthy() {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(report)
}
