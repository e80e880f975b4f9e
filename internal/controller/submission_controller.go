package controller

import (
	"errors"
	"strconv"
	"time"

	"legalaid-intake-be/internal/pkg/serverutils"
	"legalaid-intake-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISubmissionController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type submissionController struct {
	service service.ISubmissionService
	auth    fiber.Handler
}

func NewSubmissionController(service service.ISubmissionService, auth fiber.Handler) ISubmissionController {
	return &submissionController{service: service, auth: auth}
}

func (c *submissionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/submissions/v1")
	h.Use(c.auth)
	h.Get("", c.GetAll)
	h.Get("/:id", c.Show)
}

func (c *submissionController) GetAll(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	filter := service.SubmissionFilter{
		DocumentType: ctx.Query("document_type"),
		Page:         page,
		Limit:        limit,
	}
	if since := ctx.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "since must be an RFC3339 timestamp")
		}
		filter.Since = t
	}

	res, err := c.service.List(ctx.UserContext(), userId, filter)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get submissions", res))
}

func (c *submissionController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid submission id")
	}

	res, err := c.service.Show(ctx.UserContext(), userId, id)
	if errors.Is(err, service.ErrSubmissionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get submission", res))
}
