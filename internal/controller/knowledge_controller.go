package controller

import (
	"github.com/gofiber/fiber/v2"

	"wiki-chat-be/internal/dto"
	"wiki-chat-be/internal/pkg/serverutils"
	"wiki-chat-be/internal/service"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	ProcessData(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	r.Post("/process-data/", c.ProcessData)
	r.Get("/stats/", c.Stats)
	r.Get("/health/", c.Health)
}

func (c *knowledgeController) ProcessData(ctx *fiber.Ctx) error {
	var req dto.WikiRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.ProcessDocument(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *knowledgeController) Stats(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.Stats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *knowledgeController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.knowledgeService.Health(ctx.Context()))
}
