package controller

import (
	"legalaid-intake-be/internal/pkg/serverutils"
	"legalaid-intake-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDashboardController interface {
	RegisterRoutes(r fiber.Router)
	GetCases(ctx *fiber.Ctx) error
}

type dashboardController struct {
	service service.IDashboardService
	auth    fiber.Handler
}

func NewDashboardController(service service.IDashboardService, auth fiber.Handler) IDashboardController {
	return &dashboardController{service: service, auth: auth}
}

func (c *dashboardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/dashboard/v1")
	h.Use(c.auth)
	h.Get("/cases", c.GetCases)
}

func (c *dashboardController) GetCases(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetCases(ctx.UserContext(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get dashboard", res))
}
