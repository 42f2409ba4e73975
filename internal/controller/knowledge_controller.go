package controller

import (
	"context"

	"ai-hub-be/internal/dto"
	"ai-hub-be/internal/pkg/serverutils"
	"ai-hub-be/internal/service"
	"ai-hub-be/pkg/graph"

	"github.com/gofiber/fiber/v2"
)

// CatalogResolver answers curated questions without a model round trip.
type CatalogResolver interface {
	Resolve(ctx context.Context, query string) (string, bool)
}

type IKnowledgeController interface {
	RegisterPublicRoutes(r fiber.Router)
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	ImportRemote(ctx *fiber.Ctx) error
	BrowseRemote(ctx *fiber.Ctx) error
	Answer(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	service service.KnowledgeService
	catalog CatalogResolver
}

func NewKnowledgeController(service service.KnowledgeService, catalog CatalogResolver) IKnowledgeController {
	return &knowledgeController{service: service, catalog: catalog}
}

// RegisterPublicRoutes exposes the catalog lookup without authentication;
// the short-circuit resolver calls it without credentials.
func (c *knowledgeController) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/knowledge", c.Answer)
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/containers/:containerId/knowledge")
	h.Post("/", c.Upload)
	h.Get("/", c.List)
	h.Post("/import", c.ImportRemote)

	r.Get("/sharepoint/browse", c.BrowseRemote)
}

func (c *knowledgeController) Upload(ctx *fiber.Ctx) error {
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

	file, err := c.service.Ingest(ctx.Context(), containerId, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, f)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("file added", dto.KnowledgeFileResponse{
		Name:       file.Name,
		MimeType:   file.MimeType,
		Size:       file.Size,
		UploadedAt: file.UploadedAt,
	}))
}

func (c *knowledgeController) List(ctx *fiber.Ctx) error {
	containerId, err := containerIdParam(ctx)
	if err != nil {
		return err
	}

	files, err := c.service.List(containerId)
	if err != nil {
		return err
	}

	res := make([]dto.KnowledgeFileResponse, 0, len(files))
	for _, f := range files {
		res = append(res, dto.KnowledgeFileResponse{
			Name:       f.Name,
			MimeType:   f.MimeType,
			Size:       f.Size,
			UploadedAt: f.UploadedAt,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", res))
}

func (c *knowledgeController) ImportRemote(ctx *fiber.Ctx) error {
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

	file, err := c.service.ImportRemote(ctx.Context(), containerId, req.SiteId, graph.DriveItem{
		Id:       req.ItemId,
		Name:     req.Name,
		MimeType: req.MimeType,
		Size:     req.Size,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("file imported", dto.KnowledgeFileResponse{
		Name:       file.Name,
		MimeType:   file.MimeType,
		Size:       file.Size,
		UploadedAt: file.UploadedAt,
	}))
}

func (c *knowledgeController) BrowseRemote(ctx *fiber.Ctx) error {
	siteId := ctx.Query("site", "")
	if siteId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "site parameter is required")
	}
	itemId := ctx.Query("item", "root")

	items, err := c.service.BrowseRemote(ctx.Context(), siteId, itemId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", items))
}

// Answer serves the curated catalog lookup. A miss is a normal response,
// not an error. The body is unwrapped because the short-circuit resolver
// consumes it directly.
func (c *knowledgeController) Answer(ctx *fiber.Ctx) error {
	query := ctx.Query("q", "")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q parameter is required")
	}

	answer, found := c.catalog.Resolve(ctx.Context(), query)
	res := dto.KnowledgeAnswerResponse{Query: query, Found: found}
	if found {
		res.Answer = &answer
	}
	return ctx.JSON(res)
}
