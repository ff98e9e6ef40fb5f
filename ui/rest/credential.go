package rest

import (
	domainCredential "github.com/AzielCF/az-planner/domains/credential"
	"github.com/gofiber/fiber/v2"
)

type Credential struct {
	Service domainCredential.ICredentialUsecase
}

func InitRestCredential(app fiber.Router, service domainCredential.ICredentialUsecase) Credential {
	rest := Credential{Service: service}
	app.Get("/credentials", rest.ListCredentials)
	app.Post("/credentials", rest.CreateCredential)
	app.Get("/credentials/:id", rest.GetCredential)
	app.Put("/credentials/:id", rest.UpdateCredential)
	app.Delete("/credentials/:id", rest.DeleteCredential)
	return rest
}

func (h *Credential) ListCredentials(c *fiber.Ctx) error {
	creds, err := h.Service.List(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return successResponse(c, "Credentials fetched", creds)
}

func (h *Credential) CreateCredential(c *fiber.Ctx) error {
	var req domainCredential.CreateCredentialRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, err)
	}

	cred, err := h.Service.Create(c.UserContext(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return successResponse(c, "Credential created", cred)
}

func (h *Credential) GetCredential(c *fiber.Ctx) error {
	cred, err := h.Service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return successResponse(c, "Credential fetched", cred)
}

func (h *Credential) UpdateCredential(c *fiber.Ctx) error {
	var req domainCredential.UpdateCredentialRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, err)
	}

	cred, err := h.Service.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return successResponse(c, "Credential updated", cred)
}

func (h *Credential) DeleteCredential(c *fiber.Ctx) error {
	if err := h.Service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return successResponse(c, "Credential deleted", nil)
}
