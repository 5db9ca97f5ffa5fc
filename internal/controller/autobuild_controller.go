package controller

import (
	"pc-autobuild-be/internal/dto"
	"pc-autobuild-be/internal/pkg/serverutils"
	"pc-autobuild-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAutobuildController interface {
	RegisterRoutes(r fiber.Router)
	Resolve(ctx *fiber.Ctx) error
	ResolveOne(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
}

type autobuildController struct {
	service service.IAutobuildService
}

func NewAutobuildController(service service.IAutobuildService) IAutobuildController {
	return &autobuildController{service: service}
}

// RegisterRoutes expects RequesterMiddleware to run before it.
func (c *autobuildController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/builds/v1")
	h.Post("/resolve", c.Resolve)
	h.Post("/resolve-one", c.ResolveOne)
	h.Delete("/session", c.ResetSession)
}

func (c *autobuildController) Resolve(ctx *fiber.Ctx) error {
	var req dto.ResolveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ResolveMany(ctx.UserContext(), serverutils.RequesterID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve builds", res))
}

func (c *autobuildController) ResolveOne(ctx *fiber.Ctx) error {
	var req dto.ResolveOneRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ResolveOne(ctx.UserContext(), serverutils.RequesterID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve build", res))
}

func (c *autobuildController) ResetSession(ctx *fiber.Ctx) error {
	if err := c.service.Reset(ctx.UserContext(), serverutils.RequesterID(ctx)); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset session", nil))
}
