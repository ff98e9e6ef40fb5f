package rest

import (
	domainHealth "github.com/AzielCF/az-planner/domains/health"
	"github.com/gofiber/fiber/v2"
)

type Health struct {
	Service domainHealth.IHealthUsecase
}

func InitRestHealth(app fiber.Router, service domainHealth.IHealthUsecase) Health {
	rest := Health{Service: service}
	app.Get("/health", rest.GetStatus)
	return rest
}

func (h *Health) GetStatus(c *fiber.Ctx) error {
	report, err := h.Service.Check(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return successResponse(c, "Health status retrieved", report)
}
