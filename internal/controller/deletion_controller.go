package controller

import (
	"ai-hub-be/internal/dto"
	"ai-hub-be/internal/entity"
	"ai-hub-be/internal/pkg/serverutils"
	"ai-hub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDeletionController interface {
	RegisterRoutes(r fiber.Router)
	Request(ctx *fiber.Ctx) error
	Confirm(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Pending(ctx *fiber.Ctx) error
}

type deletionController struct {
	service service.ChatService
}

func NewDeletionController(service service.ChatService) IDeletionController {
	return &deletionController{service: service}
}

func (c *deletionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/deletions")
	h.Post("/", c.Request)
	h.Post("/confirm", c.Confirm)
	h.Post("/cancel", c.Cancel)
	h.Get("/", c.Pending)
}

func (c *deletionController) Request(ctx *fiber.Ctx) error {
	var req dto.RequestDeletionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}
	if req.Kind == entity.DeletionKindChat && req.ChatId == nil {
		return fiber.NewError(fiber.StatusBadRequest, "chat_id is required for chat deletions")
	}
	if req.Kind == entity.DeletionKindKnowledgeFile && req.FileName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "file_name is required for knowledge file deletions")
	}

	c.service.RequestDeletion(entity.PendingDeletion{
		Kind:        req.Kind,
		ContainerId: req.ContainerId,
		ChatId:      req.ChatId,
		FileName:    req.FileName,
	})
	return ctx.JSON(serverutils.SuccessResponse("deletion requested", nil))
}

func (c *deletionController) Confirm(ctx *fiber.Ctx) error {
	if err := c.service.ConfirmDeletion(ctx.Context()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("deleted", nil))
}

func (c *deletionController) Cancel(ctx *fiber.Ctx) error {
	c.service.CancelDeletion()
	return ctx.JSON(serverutils.SuccessResponse("deletion cancelled", nil))
}

func (c *deletionController) Pending(ctx *fiber.Ctx) error {
	desc := c.service.PendingDeletion()
	return ctx.JSON(serverutils.SuccessResponse("ok", dto.PendingDeletionResponse{
		Pending:  desc != nil,
		Deletion: desc,
	}))
}
