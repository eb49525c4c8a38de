package controller

import (
	"github.com/gofiber/fiber/v2"

	"studio-booking-be/internal/pkg/serverutils"
	"studio-booking-be/internal/service"
)

type IAuditController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
}

type auditController struct {
	auditService service.IAuditService
}

func NewAuditController(auditService service.IAuditService) IAuditController {
	return &auditController{
		auditService: auditService,
	}
}

func (c *auditController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/audit/v1")
	h.Use(serverutils.JwtMiddleware, serverutils.StaffOnly)
	h.Get("", c.List)
}

func (c *auditController) List(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	entries, total, err := c.auditService.List(ctx.Context(), page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Audit log", fiber.Map{
		"entries": entries,
		"total":   total,
		"page":    page,
		"limit":   limit,
	}))
}
