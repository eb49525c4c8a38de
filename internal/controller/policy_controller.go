package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studio-booking-be/internal/dto"
	"studio-booking-be/internal/pkg/apperror"
	"studio-booking-be/internal/pkg/serverutils"
	"studio-booking-be/internal/service"
)

type IPolicyController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type policyController struct {
	policyService service.IPolicyService
}

func NewPolicyController(policyService service.IPolicyService) IPolicyController {
	return &policyController{
		policyService: policyService,
	}
}

func (c *policyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/policy/v1")
	h.Get("", c.List)

	staff := h.Group("", serverutils.JwtMiddleware, serverutils.StaffOnly)
	staff.Post("", c.Create)
	staff.Put(":id", c.Update)
	staff.Delete(":id", c.Delete)
}

func (c *policyController) List(ctx *fiber.Ctx) error {
	res, err := c.policyService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Policy tiers", res))
}

func (c *policyController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePolicyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.policyService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Policy tier created", res))
}

func (c *policyController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid id %q", ctx.Params("id"))
	}

	var req dto.UpdatePolicyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	req.ID = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.policyService.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Policy tier updated", res))
}

func (c *policyController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid id %q", ctx.Params("id"))
	}
	if err := c.policyService.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Policy tier deleted", fiber.Map{"id": id}))
}
