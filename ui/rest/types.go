package rest

import (
	pkgError "github.com/AzielCF/az-planner/pkg/error"
	"github.com/AzielCF/az-planner/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// errorResponse maps a service error onto the envelope every endpoint uses.
// Coded errors carry their own HTTP status; anything else is a 500.
func errorResponse(c *fiber.Ctx, err error) error {
	status := 500
	code := "INTERNAL_SERVER_ERROR"
	if generic, ok := err.(pkgError.GenericError); ok {
		status = generic.StatusCode()
		code = generic.ErrCode()
	}
	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    code,
		Message: err.Error(),
	})
}

func successResponse(c *fiber.Ctx, message string, results any) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: message,
		Results: results,
	})
}
