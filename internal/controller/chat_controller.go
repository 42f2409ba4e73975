package controller

import (
	"ai-hub-be/internal/dto"
	"ai-hub-be/internal/pkg/serverutils"
	"ai-hub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	NewChat(ctx *fiber.Ctx) error
	ResumeChat(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.ChatService
}

func NewChatController(service service.ChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chats")
	h.Post("/send", c.Send)
	h.Post("/new", c.NewChat)
	h.Post("/resume", c.ResumeChat)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Send(ctx.Context(), req.ContainerId, req.Message)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("ok", dto.SendChatResponse{
		Skipped:       res.Skipped,
		ChatId:        res.ChatId,
		ChatName:      res.ChatName,
		Answer:        res.Answer,
		FromKnowledge: res.FromKnowledge,
	}))
}

func (c *chatController) NewChat(ctx *fiber.Ctx) error {
	var req dto.NewChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.NewChat(ctx.Context(), req.ContainerId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("chat reset", nil))
}

func (c *chatController) ResumeChat(ctx *fiber.Ctx) error {
	var req dto.ResumeChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.ResumeChat(ctx.Context(), req.ContainerId, req.ChatId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("chat resumed", nil))
}
