package controller

import (
	"ai-hub-be/internal/dto"
	"ai-hub-be/internal/pkg/serverutils"
	"ai-hub-be/internal/service"
	"ai-hub-be/pkg/graph"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAttachmentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	ImportRemote(ctx *fiber.Ctx) error
	Staged(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
}

type attachmentController struct {
	service service.AttachmentService
}

func NewAttachmentController(service service.AttachmentService) IAttachmentController {
	return &attachmentController{service: service}
}

func (c *attachmentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/containers/:containerId/attachment")
	h.Post("/", c.Upload)
	h.Post("/remote", c.ImportRemote)
	h.Get("/", c.Staged)
	h.Delete("/", c.Remove)
}

func containerIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("containerId"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid container id")
	}
	return id, nil
}

func (c *attachmentController) Upload(ctx *fiber.Ctx) error {
	containerId, err := containerIdParam(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file field is required")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "cannot open uploaded file")
	}
	defer f.Close()

	file, err := c.service.Ingest(ctx.Context(), containerId, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), f)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("file staged", dto.AttachmentResponse{
		Name:     file.Name,
		MimeType: file.MimeType,
	}))
}

func (c *attachmentController) ImportRemote(ctx *fiber.Ctx) error {
	containerId, err := containerIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.RemoteImportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	file, err := c.service.IngestRemote(ctx.Context(), containerId, req.SiteId, graph.DriveItem{
		Id:       req.ItemId,
		Name:     req.Name,
		MimeType: req.MimeType,
		Size:     req.Size,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("remote file staged", dto.AttachmentResponse{
		Name:     file.Name,
		MimeType: file.MimeType,
	}))
}

func (c *attachmentController) Staged(ctx *fiber.Ctx) error {
	containerId, err := containerIdParam(ctx)
	if err != nil {
		return err
	}

	file, found := c.service.Staged(containerId)
	if !found {
		return ctx.JSON(serverutils.SuccessResponse("nothing staged", nil))
	}
	return ctx.JSON(serverutils.SuccessResponse("staged", dto.AttachmentResponse{
		Name:     file.Name,
		MimeType: file.MimeType,
	}))
}

func (c *attachmentController) Remove(ctx *fiber.Ctx) error {
	containerId, err := containerIdParam(ctx)
	if err != nil {
		return err
	}
	c.service.Remove(containerId)
	return ctx.JSON(serverutils.SuccessResponse("attachment cleared", nil))
}
