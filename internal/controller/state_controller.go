package controller

import (
	"ai-hub-be/internal/pkg/serverutils"
	"ai-hub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStateController interface {
	RegisterRoutes(r fiber.Router)
	Snapshot(ctx *fiber.Ctx) error
}

type stateController struct {
	service service.StateService
}

func NewStateController(service service.StateService) IStateController {
	return &stateController{service: service}
}

func (c *stateController) RegisterRoutes(r fiber.Router) {
	r.Get("/state", c.Snapshot)
}

// Snapshot returns the whole application state. Clients refetch it whenever
// a stateChanged frame arrives.
func (c *stateController) Snapshot(ctx *fiber.Ctx) error {
	snap, err := c.service.Snapshot()
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", snap))
}
