package rest

import (
	"io"

	domainPlan "github.com/AzielCF/az-planner/domains/plan"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Plan struct {
	Service domainPlan.IPlanUsecase
}

func InitRestPlan(app fiber.Router, service domainPlan.IPlanUsecase) Plan {
	rest := Plan{Service: service}
	app.Post("/plans", rest.GeneratePlan)
	app.Get("/plans/current", rest.GetCurrentPlan)
	app.Post("/plans/posts/:id/approve", rest.ApprovePost)
	app.Post("/plans/posts/:id/edit", rest.EditPost)
	return rest
}

// GeneratePlan accepts multipart form data so reference images can ride along
// with the niche/period/tone/goal fields. Plain JSON bodies work too.
func (h *Plan) GeneratePlan(c *fiber.Ctx) error {
	var request domainPlan.GenerateRequest
	if err := c.BodyParser(&request); err != nil {
		return errorResponse(c, err)
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fileHeader := range form.File["reference_media"] {
			file, err := fileHeader.Open()
			if err != nil {
				logrus.WithError(err).Warnf("[PLAN] Skipping unreadable reference file %s", fileHeader.Filename)
				continue
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				logrus.WithError(err).Warnf("[PLAN] Skipping unreadable reference file %s", fileHeader.Filename)
				continue
			}
			request.ReferenceMedia = append(request.ReferenceMedia, data)
		}
	}

	plan, err := h.Service.Generate(c.UserContext(), request)
	if err != nil {
		return errorResponse(c, err)
	}

	return successResponse(c, "Content plan generated", plan)
}

func (h *Plan) GetCurrentPlan(c *fiber.Ctx) error {
	plan, err := h.Service.Current(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return successResponse(c, "Current plan fetched", plan)
}

func (h *Plan) ApprovePost(c *fiber.Ctx) error {
	post, err := h.Service.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return successResponse(c, "Post approved", post)
}

func (h *Plan) EditPost(c *fiber.Ctx) error {
	var request domainPlan.EditRequest
	if err := c.BodyParser(&request); err != nil {
		return errorResponse(c, err)
	}
	request.PostID = c.Params("id")

	post, err := h.Service.Edit(c.UserContext(), request)
	if err != nil {
		return errorResponse(c, err)
	}
	return successResponse(c, "Post revised", post)
}
