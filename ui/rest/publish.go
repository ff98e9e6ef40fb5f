package rest

import (
	domainPublish "github.com/AzielCF/az-planner/domains/publish"
	pkgError "github.com/AzielCF/az-planner/pkg/error"
	"github.com/AzielCF/az-planner/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Publish struct {
	Service domainPublish.IPublishUsecase
}

func InitRestPublish(app fiber.Router, service domainPublish.IPublishUsecase) Publish {
	rest := Publish{Service: service}
	app.Post("/publish", rest.PublishApproved)
	return rest
}

func (h *Publish) PublishApproved(c *fiber.Ctx) error {
	var request domainPublish.PublishRequest
	if err := c.BodyParser(&request); err != nil {
		return errorResponse(c, err)
	}

	result, err := h.Service.Publish(c.UserContext(), request)
	if err != nil {
		// Partial progress still matters to the caller: report what was sent
		// before the failure alongside the error itself.
		status := 502
		code := "DELIVERY_ERROR"
		if generic, ok := err.(pkgError.GenericError); ok {
			status = generic.StatusCode()
			code = generic.ErrCode()
		}
		return c.Status(status).JSON(utils.ResponseData{
			Status:  status,
			Code:    code,
			Message: err.Error(),
			Results: result,
		})
	}

	return successResponse(c, "Approved posts delivered", result)
}
