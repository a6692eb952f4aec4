package controller

import (
	"github.com/gofiber/fiber/v2"

	"wiki-chat-be/internal/dto"
	"wiki-chat-be/internal/pkg/serverutils"
	"wiki-chat-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat/", c.Chat)
	r.Post("/chat/clear/:session_id", c.Clear)
}

// Chat returns the cascade outcome as a flat JSON body. Recoverable
// cascade failures still respond 200 with mode_used=error; only systemic
// failures become a 500.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) Clear(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")

	if !c.chatService.ClearSession(ctx.Context(), sessionID) {
		return ctx.JSON(serverutils.ErrorResponse("Session not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session cleared", nil))
}
