package rest

import (
	"github.com/AzielCF/az-planner/pkg/imgworker"
	"github.com/AzielCF/az-planner/pkg/planmonitor"
	"github.com/gofiber/fiber/v2"
)

type Monitoring struct{}

func InitRestMonitoring(app fiber.Router) Monitoring {
	rest := Monitoring{}
	app.Get("/monitor/pipeline", rest.GetPipelineStats)
	app.Get("/monitor/workers", rest.GetWorkerStats)
	return rest
}

func (h *Monitoring) GetPipelineStats(c *fiber.Ctx) error {
	return successResponse(c, "Pipeline stats retrieved", planmonitor.GetStats())
}

func (h *Monitoring) GetWorkerStats(c *fiber.Ctx) error {
	return successResponse(c, "Worker pool stats retrieved", imgworker.GetGlobalPool().GetStats())
}
