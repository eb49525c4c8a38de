package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studio-booking-be/internal/pkg/apperror"
	"studio-booking-be/internal/pkg/serverutils"
	"studio-booking-be/internal/service"
)

type IAvailabilityController interface {
	RegisterRoutes(r fiber.Router)
	Resolve(ctx *fiber.Ctx) error
}

type availabilityController struct {
	availabilityService service.IAvailabilityService
}

func NewAvailabilityController(availabilityService service.IAvailabilityService) IAvailabilityController {
	return &availabilityController{
		availabilityService: availabilityService,
	}
}

func (c *availabilityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/availability/v1")
	h.Get("", c.Resolve)
}

func (c *availabilityController) Resolve(ctx *fiber.Ctx) error {
	date := ctx.Query("date")
	if date == "" {
		return apperror.Validation("query parameter 'date' is required")
	}

	var instructorID *uuid.UUID
	if raw := ctx.Query("instructor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperror.Validation("invalid instructor_id %q", raw)
		}
		instructorID = &id
	}

	res, err := c.availabilityService.Resolve(ctx.Context(), date, instructorID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Availability resolved", res))
}
