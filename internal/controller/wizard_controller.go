package controller

import (
	"legalaid-intake-be/internal/dto"
	"legalaid-intake-be/internal/pkg/serverutils"
	"legalaid-intake-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWizardController interface {
	RegisterRoutes(r fiber.Router)
	Schemas(ctx *fiber.Ctx) error
	Open(ctx *fiber.Ctx) error
	SetFields(ctx *fiber.Ctx) error
	Next(ctx *fiber.Ctx) error
	Back(ctx *fiber.Ctx) error
	Jump(ctx *fiber.Ctx) error
	SaveProgress(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
}

type wizardController struct {
	service service.IWizardService
	auth    fiber.Handler
}

func NewWizardController(service service.IWizardService, auth fiber.Handler) IWizardController {
	return &wizardController{service: service, auth: auth}
}

func (c *wizardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/wizard/v1")
	h.Use(c.auth)
	h.Get("/schemas", c.Schemas)
	h.Get("/:documentType", c.Open)
	h.Put("/:documentType/fields", c.SetFields)
	h.Post("/:documentType/next", c.Next)
	h.Post("/:documentType/back", c.Back)
	h.Post("/:documentType/jump", c.Jump)
	h.Post("/:documentType/save-progress", c.SaveProgress)
	h.Delete("/:documentType", c.Reset)
}

func (c *wizardController) Schemas(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get schemas", c.service.Schemas()))
}

func (c *wizardController) Open(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Open(ctx.UserContext(), userId, ctx.Params("documentType"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success open wizard", res))
}

func (c *wizardController) SetFields(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SetFieldsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetFields(ctx.UserContext(), userId, ctx.Params("documentType"), req.Values)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update fields", res))
}

func (c *wizardController) Next(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Next(ctx.UserContext(), userId, ctx.Params("documentType"))
	if err != nil {
		return err
	}

	message := "Success next step"
	if res.Submission != nil {
		message = "Submission processed"
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

func (c *wizardController) Back(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Back(ctx.UserContext(), userId, ctx.Params("documentType"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success previous step", res))
}

func (c *wizardController) Jump(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.JumpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Jump(ctx.UserContext(), userId, ctx.Params("documentType"), *req.Index)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success jump to step", res))
}

func (c *wizardController) SaveProgress(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.SaveProgress(ctx.UserContext(), userId, ctx.Params("documentType"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save progress", res))
}

func (c *wizardController) Reset(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Reset(ctx.UserContext(), userId, ctx.Params("documentType"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset wizard", res))
}
