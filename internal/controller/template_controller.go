package controller

import (
	"legalaid-intake-be/internal/pkg/serverutils"
	"legalaid-intake-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITemplateController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
}

type templateController struct {
	service service.ITemplateService
	auth    fiber.Handler
}

func NewTemplateController(service service.ITemplateService, auth fiber.Handler) ITemplateController {
	return &templateController{service: service, auth: auth}
}

func (c *templateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/templates/v1")
	h.Use(c.auth)
	h.Get("", c.GetAll)
}

func (c *templateController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext(), ctx.Query("document_type"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get templates", res))
}
